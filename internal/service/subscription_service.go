package service

import (
	"context"
	"time"

	"subtracker-be/internal/dto"
	"subtracker-be/internal/entity"
	"subtracker-be/internal/pkg/apperror"
	"subtracker-be/internal/pkg/logger"
	"subtracker-be/internal/repository/specification"
	"subtracker-be/internal/repository/unitofwork"
	"subtracker-be/pkg/admin/mapper"
	"subtracker-be/pkg/events"
	"subtracker-be/pkg/lifecycle"

	"github.com/google/uuid"
)

type ISubscriptionService interface {
	List(ctx context.Context, userId uuid.UUID, req dto.SubscriptionListRequest) (*dto.SubscriptionListResponse, error)
	Get(ctx context.Context, userId, id uuid.UUID) (*dto.SubscriptionResponse, error)
	Create(ctx context.Context, userId uuid.UUID, req dto.CreateSubscriptionRequest) (*dto.SubscriptionResponse, error)
	Update(ctx context.Context, userId, id uuid.UUID, req dto.UpdateSubscriptionRequest) (*dto.SubscriptionResponse, error)
	Pause(ctx context.Context, userId, id uuid.UUID) (*dto.SubscriptionResponse, error)
	Resume(ctx context.Context, userId, id uuid.UUID) (*dto.SubscriptionResponse, error)
	Cancel(ctx context.Context, userId, id uuid.UUID, req dto.CancelSubscriptionRequest) (*dto.SubscriptionResponse, error)
	Delete(ctx context.Context, userId, id uuid.UUID) error

	// ExpireDue is the background sweep; it returns how many rows moved to expired.
	ExpireDue(ctx context.Context, now time.Time) (int, error)
}

type subscriptionService struct {
	uowFactory unitofwork.RepositoryFactory
	manager    *lifecycle.Manager
	publisher  IPublisherService
	logger     logger.ILogger
}

func NewSubscriptionService(uowFactory unitofwork.RepositoryFactory, manager *lifecycle.Manager, publisher IPublisherService, logger logger.ILogger) ISubscriptionService {
	return &subscriptionService{
		uowFactory: uowFactory,
		manager:    manager,
		publisher:  publisher,
		logger:     logger,
	}
}

func (s *subscriptionService) List(ctx context.Context, userId uuid.UUID, req dto.SubscriptionListRequest) (*dto.SubscriptionListResponse, error) {
	q := lifecycle.ListQuery{
		SortBy:    lifecycle.SortField(req.SortBy),
		SortOrder: req.SortOrder,
		Page:      req.Page,
		Limit:     req.Limit,
	}
	if req.Status != "" {
		status := entity.SubscriptionStatus(req.Status)
		q.Status = &status
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	result, err := s.manager.List(ctx, uow, userId, q)
	if err != nil {
		return nil, err
	}
	return &dto.SubscriptionListResponse{
		Subscriptions: mapper.SubscriptionsToResponse(result.Subscriptions),
		Page:          result.Page,
		Limit:         result.Limit,
		Total:         result.Total,
	}, nil
}

func (s *subscriptionService) Get(ctx context.Context, userId, id uuid.UUID) (*dto.SubscriptionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if _, err := s.manager.Get(ctx, uow, id, userId); err != nil {
		return nil, err
	}
	return s.detailed(ctx, uow, id)
}

func (s *subscriptionService) Create(ctx context.Context, userId uuid.UUID, req dto.CreateSubscriptionRequest) (*dto.SubscriptionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	sub, err := s.manager.Create(ctx, uow, userId, lifecycle.CreateInput{
		PlanId:                   req.PlanId,
		PriceId:                  req.PriceId,
		StartDate:                req.StartDate,
		EndDate:                  req.EndDate,
		NextBillingDate:          req.NextBillingDate,
		CancellationNoticePeriod: req.CancellationNoticePeriod,
		CustomAmount:             req.CustomAmount,
		CustomCurrency:           req.CustomCurrency,
		Notes:                    req.Notes,
	})
	if err != nil {
		return nil, err
	}

	res, err := s.detailed(ctx, uow, sub.Id)
	if err != nil {
		return nil, err
	}
	s.publisher.Audit(ctx, events.SubscriptionCreated, &userId, "subscription", sub.Id, nil, auditValues(mapper.SubscriptionToResponse(sub)))
	return res, nil
}

func (s *subscriptionService) Update(ctx context.Context, userId, id uuid.UUID, req dto.UpdateSubscriptionRequest) (*dto.SubscriptionResponse, error) {
	in := lifecycle.UpdateInput{
		PlanId:                   req.PlanId,
		PriceId:                  req.PriceId,
		StartDate:                req.StartDate,
		EndDate:                  req.EndDate,
		NextBillingDate:          req.NextBillingDate,
		CancellationDate:         req.CancellationDate,
		CancellationNoticePeriod: req.CancellationNoticePeriod,
		CustomAmount:             req.CustomAmount,
		CustomCurrency:           req.CustomCurrency,
		ClearCustomPrice:         req.ClearCustomPrice,
		Notes:                    req.Notes,
	}
	if req.Status != nil {
		status := entity.SubscriptionStatus(*req.Status)
		in.Status = &status
	}
	return s.update(ctx, userId, id, in)
}

func (s *subscriptionService) Pause(ctx context.Context, userId, id uuid.UUID) (*dto.SubscriptionResponse, error) {
	status := entity.SubscriptionStatusPaused
	return s.update(ctx, userId, id, lifecycle.UpdateInput{Status: &status})
}

func (s *subscriptionService) Resume(ctx context.Context, userId, id uuid.UUID) (*dto.SubscriptionResponse, error) {
	status := entity.SubscriptionStatusActive
	return s.update(ctx, userId, id, lifecycle.UpdateInput{Status: &status})
}

func (s *subscriptionService) Cancel(ctx context.Context, userId, id uuid.UUID, req dto.CancelSubscriptionRequest) (*dto.SubscriptionResponse, error) {
	status := entity.SubscriptionStatusCancelled
	return s.update(ctx, userId, id, lifecycle.UpdateInput{Status: &status, CancellationDate: req.EffectiveDate})
}

func (s *subscriptionService) Delete(ctx context.Context, userId, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	current, err := s.manager.Get(ctx, uow, id, userId)
	if err != nil {
		return err
	}
	if err := s.manager.Delete(ctx, uow, id, userId); err != nil {
		return err
	}
	s.publisher.Audit(ctx, events.SubscriptionDeleted, &userId, "subscription", id, auditValues(mapper.SubscriptionToResponse(current)), nil)
	return nil
}

func (s *subscriptionService) ExpireDue(ctx context.Context, now time.Time) (int, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	expired, err := s.manager.ExpireDue(ctx, uow, now)
	for _, sub := range expired {
		owner := sub.UserId
		s.publisher.Audit(ctx, events.SubscriptionExpired, &owner, "subscription", sub.Id, nil, map[string]interface{}{
			"status": string(sub.Status),
		})
	}
	if err != nil {
		s.logger.Error("SUBSCRIPTION", "Expiry sweep stopped early", map[string]interface{}{
			"expired": len(expired),
			"error":   err.Error(),
		})
		return len(expired), err
	}
	return len(expired), nil
}

func (s *subscriptionService) update(ctx context.Context, userId, id uuid.UUID, in lifecycle.UpdateInput) (*dto.SubscriptionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	before, err := s.manager.Get(ctx, uow, id, userId)
	if err != nil {
		return nil, err
	}
	after, err := s.manager.Update(ctx, uow, id, userId, in)
	if err != nil {
		return nil, err
	}

	res, err := s.detailed(ctx, uow, id)
	if err != nil {
		return nil, err
	}

	action := events.SubscriptionUpdated
	if before.Status != after.Status {
		action = events.SubscriptionStatusChanged
	}
	s.publisher.Audit(ctx, action, &userId, "subscription", id,
		auditValues(mapper.SubscriptionToResponse(before)),
		auditValues(mapper.SubscriptionToResponse(after)),
	)
	return res, nil
}

// detailed re-reads the row with plan, price and product attached
func (s *subscriptionService) detailed(ctx context.Context, uow unitofwork.UnitOfWork, id uuid.UUID) (*dto.SubscriptionResponse, error) {
	subs, err := uow.SubscriptionRepository().FindAllDetailed(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, apperror.Store("find subscription", err)
	}
	if len(subs) == 0 {
		return nil, apperror.NewNotFound("subscription")
	}
	return mapper.SubscriptionToResponse(subs[0]), nil
}
