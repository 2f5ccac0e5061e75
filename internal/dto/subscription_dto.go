package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type SubscriptionListRequest struct {
	Status    string `query:"status" validate:"omitempty,status"`
	SortBy    string `query:"sortBy" validate:"omitempty,oneof=created_at next_billing_date amount"`
	SortOrder string `query:"sortOrder" validate:"omitempty,oneof=asc desc"`
	Page      int    `query:"page" validate:"gte=0"`
	Limit     int    `query:"limit" validate:"gte=0,lte=100"`
}

type CreateSubscriptionRequest struct {
	PlanId                   uuid.UUID        `json:"planId" validate:"required"`
	PriceId                  uuid.UUID        `json:"priceId" validate:"required"`
	StartDate                *time.Time       `json:"startDate"`
	EndDate                  *time.Time       `json:"endDate"`
	NextBillingDate          *time.Time       `json:"nextBillingDate"`
	CancellationNoticePeriod *int             `json:"cancellationNoticePeriod" validate:"omitempty,gte=0"`
	CustomAmount             *decimal.Decimal `json:"customAmount"`
	CustomCurrency           *string          `json:"customCurrency" validate:"omitempty,currency"`
	Notes                    *string          `json:"notes" validate:"omitempty,max=500"`
}

// UpdateSubscriptionRequest is a partial update; omitted fields stay as they are.
type UpdateSubscriptionRequest struct {
	PlanId                   *uuid.UUID       `json:"planId"`
	PriceId                  *uuid.UUID       `json:"priceId"`
	Status                   *string          `json:"status" validate:"omitempty,oneof=active paused cancelled"`
	StartDate                *time.Time       `json:"startDate"`
	EndDate                  *time.Time       `json:"endDate"`
	NextBillingDate          *time.Time       `json:"nextBillingDate"`
	CancellationDate         *time.Time       `json:"cancellationDate"`
	CancellationNoticePeriod *int             `json:"cancellationNoticePeriod" validate:"omitempty,gte=0"`
	CustomAmount             *decimal.Decimal `json:"customAmount"`
	CustomCurrency           *string          `json:"customCurrency" validate:"omitempty,currency"`
	ClearCustomPrice         bool             `json:"clearCustomPrice"`
	Notes                    *string          `json:"notes" validate:"omitempty,max=500"`
}

type CancelSubscriptionRequest struct {
	EffectiveDate *time.Time `json:"effectiveDate"`
}

type ProductSummary struct {
	Id       uuid.UUID         `json:"id"`
	Name     string            `json:"name"`
	Slug     string            `json:"slug"`
	LogoURL  *string           `json:"logoUrl"`
	Category *CategoryResponse `json:"category,omitempty"`
}

type PlanSummary struct {
	Id   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type SubscriptionResponse struct {
	Id                       uuid.UUID        `json:"id"`
	UserId                   uuid.UUID        `json:"userId"`
	PlanId                   uuid.UUID        `json:"planId"`
	PriceId                  uuid.UUID        `json:"priceId"`
	Status                   string           `json:"status"`
	StartDate                time.Time        `json:"startDate"`
	EndDate                  *time.Time       `json:"endDate"`
	NextBillingDate          *time.Time       `json:"nextBillingDate"`
	CancellationDate         *time.Time       `json:"cancellationDate"`
	CancellationNoticePeriod int              `json:"cancellationNoticePeriod"`
	CustomAmount             *decimal.Decimal `json:"customAmount"`
	CustomCurrency           *string          `json:"customCurrency"`
	Notes                    *string          `json:"notes"`
	CreatedAt                time.Time        `json:"createdAt"`
	UpdatedAt                time.Time        `json:"updatedAt"`

	Plan    *PlanSummary    `json:"plan,omitempty"`
	Price   *PriceResponse  `json:"price,omitempty"`
	Product *ProductSummary `json:"product,omitempty"`
}

type SubscriptionListResponse struct {
	Subscriptions []SubscriptionResponse
	Page          int
	Limit         int
	Total         int64
}
