package contract

import (
	"context"

	"subtracker-be/internal/entity"
	"subtracker-be/internal/repository/specification"

	"github.com/google/uuid"
)

type PriceRepository interface {
	Create(ctx context.Context, price *entity.Price) error
	Update(ctx context.Context, price *entity.Price) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Price, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Price, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}

// PriceHistoryRepository is append-only.
type PriceHistoryRepository interface {
	Create(ctx context.Context, history *entity.PriceHistory) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.PriceHistory, error)
}
