package memory

import (
	"context"

	"subtracker-be/internal/entity"
	"subtracker-be/internal/repository/contract"
	"subtracker-be/internal/repository/specification"

	"github.com/google/uuid"
)

type subscriptionRepository struct {
	store *Store
}

func NewSubscriptionRepository(store *Store) contract.SubscriptionRepository {
	return &subscriptionRepository{store: store}
}

// subscriptionRow must be called with the store lock held.
func (r *subscriptionRepository) subscriptionRow(s *entity.Subscription) row {
	var amount interface{}
	if s.CustomAmount != nil {
		amount = *s.CustomAmount
	} else if price, ok := r.store.prices[s.PriceId]; ok {
		amount = price.Amount
	}
	return row{
		"id":                s.Id,
		"user_id":           s.UserId,
		"plan_id":           s.PlanId,
		"price_id":          s.PriceId,
		"status":            string(s.Status),
		"start_date":        s.StartDate,
		"end_date":          s.EndDate,
		"next_billing_date": s.NextBillingDate,
		"amount":            amount,
		"created_at":        s.CreatedAt,
		"updated_at":        s.UpdatedAt,
	}
}

func (r *subscriptionRepository) Create(ctx context.Context, subscription *entity.Subscription) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.plans[subscription.PlanId]; !ok {
		return errForeignKey("subscriptions", "plan_id")
	}
	if _, ok := r.store.prices[subscription.PriceId]; !ok {
		return errForeignKey("subscriptions", "price_id")
	}
	r.store.stamp(&subscription.Id, &subscription.CreatedAt, &subscription.UpdatedAt)
	r.store.subscriptions[subscription.Id] = cloneSubscription(subscription)
	return nil
}

func (r *subscriptionRepository) Update(ctx context.Context, subscription *entity.Subscription) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.stamp(&subscription.Id, &subscription.CreatedAt, &subscription.UpdatedAt)
	r.store.subscriptions[subscription.Id] = cloneSubscription(subscription)
	return nil
}

func (r *subscriptionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.subscriptions, id)
	return nil
}

func (r *subscriptionRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Subscription, error) {
	all, err := r.find(specs, false)
	if err != nil || len(all) == 0 {
		return nil, err
	}
	return all[0], nil
}

func (r *subscriptionRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Subscription, error) {
	return r.find(specs, false)
}

func (r *subscriptionRepository) FindAllDetailed(ctx context.Context, specs ...specification.Specification) ([]*entity.Subscription, error) {
	return r.find(specs, true)
}

func (r *subscriptionRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, err := r.find(specs, false)
	return int64(len(all)), err
}

func (r *subscriptionRepository) find(specs []specification.Specification, detailed bool) ([]*entity.Subscription, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	found, err := query(values(r.store.subscriptions), r.subscriptionRow, specs)
	if err != nil {
		return nil, err
	}
	out := make([]*entity.Subscription, len(found))
	for i, s := range found {
		sub := cloneSubscription(s)
		if plan, ok := r.store.plans[s.PlanId]; ok {
			sub.Plan = clonePlan(plan)
			if detailed {
				if product, ok := r.store.products[plan.ProductId]; ok {
					sub.Product = cloneProduct(product)
					sub.Product.Category = cloneCategory(r.store.categories[product.CategoryId])
				}
			}
		}
		sub.Price = clonePrice(r.store.prices[s.PriceId])
		out[i] = sub
	}
	return out, nil
}
