package specification

import (
	"time"

	"subtracker-be/internal/entity"

	"gorm.io/gorm"
)

type ByStatus struct {
	Status entity.SubscriptionStatus
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", string(s.Status))
}

type ByStatuses struct {
	Statuses []entity.SubscriptionStatus
}

func (s ByStatuses) Apply(db *gorm.DB) *gorm.DB {
	values := make([]string, len(s.Statuses))
	for i, st := range s.Statuses {
		values[i] = string(st)
	}
	return db.Where("status IN ?", values)
}

// NextBillingUntil keeps rows with a next billing date on or before Until.
type NextBillingUntil struct {
	Until time.Time
}

func (s NextBillingUntil) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("next_billing_date IS NOT NULL AND next_billing_date <= ?", s.Until)
}

// EndDateReached keeps rows whose end date is set and not after At.
type EndDateReached struct {
	At time.Time
}

func (s EndDateReached) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("end_date IS NOT NULL AND end_date <= ?", s.At)
}

// OrderByEffectiveAmount sorts by the custom override, falling back to the referenced price.
type OrderByEffectiveAmount struct {
	Desc bool
}

func (s OrderByEffectiveAmount) Apply(db *gorm.DB) *gorm.DB {
	direction := "ASC"
	if s.Desc {
		direction = "DESC"
	}
	return db.Order("COALESCE(subscriptions.custom_amount, (SELECT prices.amount FROM prices WHERE prices.id = subscriptions.price_id)) " + direction)
}
