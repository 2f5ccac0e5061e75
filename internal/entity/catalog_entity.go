package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BillingInterval string

const (
	BillingIntervalWeekly    BillingInterval = "weekly"
	BillingIntervalMonthly   BillingInterval = "monthly"
	BillingIntervalQuarterly BillingInterval = "quarterly"
	BillingIntervalYearly    BillingInterval = "yearly"
)

func (i BillingInterval) IsValid() bool {
	switch i {
	case BillingIntervalWeekly, BillingIntervalMonthly, BillingIntervalQuarterly, BillingIntervalYearly:
		return true
	}
	return false
}

// CustomCategorySlug identifies the reserved category that user-provisioned products live in.
const CustomCategorySlug = "custom"

type Category struct {
	Id        uuid.UUID
	Name      string
	Slug      string
	Icon      *string
	Color     *string
	ParentId  *uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Product struct {
	Id          uuid.UUID
	Name        string
	Slug        string
	Description map[string]string // locale -> text
	LogoURL     *string
	WebsiteURL  *string
	CategoryId  uuid.UUID
	IsActive    bool
	IsCustom    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Relations, only filled by catalog reads
	Category *Category
	Plans    []*Plan
}

type Plan struct {
	Id          uuid.UUID
	ProductId   uuid.UUID
	Name        string
	Description *string
	Features    []string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Prices []*Price
}

type Price struct {
	Id        uuid.UUID
	PlanId    uuid.UUID
	Amount    decimal.Decimal
	Currency  string
	Interval  BillingInterval
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PriceHistory rows are append-only.
type PriceHistory struct {
	Id            uuid.UUID
	PriceId       uuid.UUID
	OldAmount     decimal.Decimal
	NewAmount     decimal.Decimal
	ChangeReason  *string
	EffectiveDate time.Time
	CreatedAt     time.Time
}
