package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type SubscriptionStatus string

const (
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusPaused    SubscriptionStatus = "paused"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
	SubscriptionStatusExpired   SubscriptionStatus = "expired"
)

func (s SubscriptionStatus) IsValid() bool {
	switch s {
	case SubscriptionStatusActive, SubscriptionStatusPaused, SubscriptionStatusCancelled, SubscriptionStatusExpired:
		return true
	}
	return false
}

func (s SubscriptionStatus) IsTerminal() bool {
	return s == SubscriptionStatusCancelled || s == SubscriptionStatusExpired
}

type Subscription struct {
	Id                       uuid.UUID
	UserId                   uuid.UUID
	PlanId                   uuid.UUID
	PriceId                  uuid.UUID
	Status                   SubscriptionStatus
	StartDate                time.Time
	EndDate                  *time.Time
	NextBillingDate          *time.Time
	CancellationDate         *time.Time
	CancellationNoticePeriod int // days
	CustomAmount             *decimal.Decimal
	CustomCurrency           *string
	Notes                    *string
	CreatedAt                time.Time
	UpdatedAt                time.Time

	// Relations, only filled by detailed reads
	Plan    *Plan
	Price   *Price
	Product *Product
}

// EffectiveAmount returns the custom override when present, else the referenced price.
// ok is false when neither is available.
func (s *Subscription) EffectiveAmount() (amount decimal.Decimal, currency string, ok bool) {
	if s.CustomAmount != nil && s.CustomCurrency != nil {
		return *s.CustomAmount, *s.CustomCurrency, true
	}
	if s.Price != nil {
		return s.Price.Amount, s.Price.Currency, true
	}
	return decimal.Zero, "", false
}
