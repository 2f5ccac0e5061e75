// FILE: internal/service/user_service.go
package service

import (
	"context"

	"subtracker-be/internal/dto"
	"subtracker-be/internal/entity"
	"subtracker-be/internal/pkg/apperror"
	"subtracker-be/internal/repository/specification"
	"subtracker-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// IUserService reads the profile rows the auth provider keeps in sync. Nothing here writes.
type IUserService interface {
	GetProfile(ctx context.Context, userId uuid.UUID) (*dto.UserProfileResponse, error)
	IsAdmin(ctx context.Context, userId uuid.UUID) (bool, error)
}

type userService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewUserService(uowFactory unitofwork.RepositoryFactory) IUserService {
	return &userService{
		uowFactory: uowFactory,
	}
}

func (s *userService) GetProfile(ctx context.Context, userId uuid.UUID) (*dto.UserProfileResponse, error) {
	user, err := s.find(ctx, userId)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NewNotFound("user")
	}
	return &dto.UserProfileResponse{
		Id:        user.Id,
		Email:     user.Email,
		FullName:  user.FullName,
		Role:      string(user.Role),
		Status:    string(user.Status),
		Currency:  user.Currency,
		Locale:    user.Locale,
		CreatedAt: user.CreatedAt,
	}, nil
}

// IsAdmin is false for unknown users and for blocked admins
func (s *userService) IsAdmin(ctx context.Context, userId uuid.UUID) (bool, error) {
	user, err := s.find(ctx, userId)
	if err != nil {
		return false, err
	}
	if user == nil || user.Status == entity.UserStatusBlocked {
		return false, nil
	}
	return user.IsAdmin(), nil
}

func (s *userService) find(ctx context.Context, userId uuid.UUID) (*entity.User, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, apperror.Store("find user", err)
	}
	return user, nil
}
