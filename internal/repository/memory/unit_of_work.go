package memory

import (
	"context"
	"fmt"

	"subtracker-be/internal/repository/contract"
	"subtracker-be/internal/repository/unitofwork"
)

type repositoryFactory struct {
	store *Store
}

func NewRepositoryFactory(store *Store) unitofwork.RepositoryFactory {
	return &repositoryFactory{store: store}
}

func (f *repositoryFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &unitOfWork{store: f.store}
}

// unitOfWork emulates a transaction with a snapshot taken at Begin. Open transactions
// on one store are serialized, so a Rollback only undoes its own writes. Writes made
// outside any transaction while one is open are still lost on its Rollback.
type unitOfWork struct {
	store *Store
	snap  *snapshot
}

func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.snap != nil {
		return fmt.Errorf("transaction already started")
	}
	select {
	case u.store.tx <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	u.snap = u.store.snapshot()
	return nil
}

func (u *unitOfWork) Commit() error {
	if u.snap == nil {
		return fmt.Errorf("no transaction to commit")
	}
	u.snap = nil
	<-u.store.tx
	return nil
}

func (u *unitOfWork) Rollback() error {
	if u.snap == nil {
		return fmt.Errorf("no transaction to rollback")
	}
	u.store.restore(u.snap)
	u.snap = nil
	<-u.store.tx
	return nil
}

func (u *unitOfWork) CategoryRepository() contract.CategoryRepository {
	return NewCategoryRepository(u.store)
}

func (u *unitOfWork) ProductRepository() contract.ProductRepository {
	return NewProductRepository(u.store)
}

func (u *unitOfWork) PlanRepository() contract.PlanRepository {
	return NewPlanRepository(u.store)
}

func (u *unitOfWork) PriceRepository() contract.PriceRepository {
	return NewPriceRepository(u.store)
}

func (u *unitOfWork) PriceHistoryRepository() contract.PriceHistoryRepository {
	return NewPriceHistoryRepository(u.store)
}

func (u *unitOfWork) SubscriptionRepository() contract.SubscriptionRepository {
	return NewSubscriptionRepository(u.store)
}

func (u *unitOfWork) UserRepository() contract.UserRepository {
	return NewUserRepository(u.store)
}

func (u *unitOfWork) AuditLogRepository() contract.AuditLogRepository {
	return NewAuditLogRepository(u.store)
}
