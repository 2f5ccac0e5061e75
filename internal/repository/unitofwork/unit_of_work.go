package unitofwork

import (
	"context"

	"subtracker-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	CategoryRepository() contract.CategoryRepository
	ProductRepository() contract.ProductRepository
	PlanRepository() contract.PlanRepository
	PriceRepository() contract.PriceRepository
	PriceHistoryRepository() contract.PriceHistoryRepository
	SubscriptionRepository() contract.SubscriptionRepository
	UserRepository() contract.UserRepository
	AuditLogRepository() contract.AuditLogRepository
}
