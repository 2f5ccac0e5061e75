package memory

import (
	"context"

	"subtracker-be/internal/entity"
	"subtracker-be/internal/repository/contract"
	"subtracker-be/internal/repository/specification"
)

type userRepository struct {
	store *Store
}

func NewUserRepository(store *Store) contract.UserRepository {
	return &userRepository{store: store}
}

func userRow(u *entity.User) row {
	return row{
		"id":         u.Id,
		"email":      u.Email,
		"role":       string(u.Role),
		"status":     string(u.Status),
		"created_at": u.CreatedAt,
	}
}

func (r *userRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	all, err := r.FindAll(ctx, specs...)
	if err != nil || len(all) == 0 {
		return nil, err
	}
	return all[0], nil
}

func (r *userRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	found, err := query(values(r.store.users), userRow, specs)
	if err != nil {
		return nil, err
	}
	out := make([]*entity.User, len(found))
	for i, u := range found {
		out[i] = cloneUser(u)
	}
	return out, nil
}

func (r *userRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, err := r.FindAll(ctx, specs...)
	return int64(len(all)), err
}
