package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type SpendingRequest struct {
	Type string `query:"type" validate:"omitempty,oneof=summary category trend"`
}

type RenewalsRequest struct {
	Days int `query:"days" validate:"gte=0,lte=365"`
}

type DashboardStatsResponse struct {
	TotalSubscriptions  int64           `json:"totalSubscriptions"`
	ActiveSubscriptions int64           `json:"activeSubscriptions"`
	MonthlySpending     decimal.Decimal `json:"monthlySpending"`
	YearlySpending      decimal.Decimal `json:"yearlySpending"`
	UpcomingRenewals    int             `json:"upcomingRenewals"`
	Currency            string          `json:"currency"`
}

type SpendingSummaryResponse struct {
	Monthly  decimal.Decimal `json:"monthly"`
	Yearly   decimal.Decimal `json:"yearly"`
	Currency string          `json:"currency"`
}

type CategorySpendingResponse struct {
	CategoryId uuid.UUID       `json:"categoryId"`
	Name       string          `json:"name"`
	Color      *string         `json:"color"`
	Amount     decimal.Decimal `json:"amount"`
}

type SpendingTrendPoint struct {
	Month  string          `json:"month"`
	Amount decimal.Decimal `json:"amount"`
}

type RenewalResponse struct {
	SubscriptionId  uuid.UUID       `json:"subscriptionId"`
	ProductName     string          `json:"productName"`
	PlanName        string          `json:"planName"`
	NextBillingDate time.Time       `json:"nextBillingDate"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency"`
	Interval        string          `json:"interval"`
}
