// Package spending turns a user's subscriptions into normalized spending figures.
// Everything here is a pure function over its inputs.
package spending

import (
	"sort"
	"time"

	"subtracker-be/internal/entity"
	"subtracker-be/internal/pkg/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	DefaultRenewalWindowDays = 30
	DefaultCurrency          = "USD"
	DefaultTrendMonths       = 12
)

var (
	weeksPerMonth = decimal.RequireFromString("4.33")
	three         = decimal.NewFromInt(3)
	twelve        = decimal.NewFromInt(12)
)

// Item is one active subscription's effective charge.
type Item struct {
	Interval entity.BillingInterval
	Amount   decimal.Decimal
	Currency string
}

type Totals struct {
	Monthly  decimal.Decimal
	Yearly   decimal.Decimal
	Currency string
}

// CategorizedItem carries the category resolved through plan -> product -> category.
// A nil CategoryId means the join could not be resolved.
type CategorizedItem struct {
	Item
	CategoryId *uuid.UUID
	Name       string
	Color      *string
}

type CategorySpending struct {
	CategoryId uuid.UUID
	Name       string
	Color      *string
	Amount     decimal.Decimal
}

type Renewal struct {
	SubscriptionId  uuid.UUID
	Status          entity.SubscriptionStatus
	NextBillingDate *time.Time
	Item
}

type TrendPoint struct {
	Month  string // YYYY-MM
	Amount decimal.Decimal
}

// MonthlyEquivalent normalizes amount to what it costs per month.
func MonthlyEquivalent(amount decimal.Decimal, interval entity.BillingInterval) (decimal.Decimal, error) {
	if amount.IsNegative() {
		return decimal.Zero, apperror.NewValidation("amount", "must not be negative")
	}
	switch interval {
	case entity.BillingIntervalWeekly:
		return amount.Mul(weeksPerMonth), nil
	case entity.BillingIntervalMonthly:
		return amount, nil
	case entity.BillingIntervalQuarterly:
		return amount.DivRound(three, 16), nil
	case entity.BillingIntervalYearly:
		return amount.DivRound(twelve, 16), nil
	}
	return decimal.Zero, apperror.NewValidation("interval", "unknown billing interval "+string(interval))
}

// RoundCents rounds half away from zero at two decimals, which is half-up for the
// non-negative amounts this package produces.
func RoundCents(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// ComputeMonthlySpending sums monthly equivalents. Amounts in different currencies are
// added as-is; currency is only a tag on the result.
func ComputeMonthlySpending(items []Item, currency string) (Totals, error) {
	if currency == "" {
		currency = DefaultCurrency
	}
	sum := decimal.Zero
	for _, item := range items {
		monthly, err := MonthlyEquivalent(item.Amount, item.Interval)
		if err != nil {
			return Totals{}, err
		}
		sum = sum.Add(monthly)
	}
	return Totals{
		Monthly:  RoundCents(sum),
		Yearly:   RoundCents(sum.Mul(twelve)),
		Currency: currency,
	}, nil
}

// ComputeSpendingByCategory groups monthly equivalents per category. Items without a
// resolved category are skipped. Output order is unspecified.
func ComputeSpendingByCategory(items []CategorizedItem) ([]CategorySpending, error) {
	totals := make(map[uuid.UUID]*CategorySpending)
	order := make([]uuid.UUID, 0)

	for _, item := range items {
		monthly, err := MonthlyEquivalent(item.Amount, item.Interval)
		if err != nil {
			return nil, err
		}
		if item.CategoryId == nil {
			continue
		}
		bucket, ok := totals[*item.CategoryId]
		if !ok {
			bucket = &CategorySpending{
				CategoryId: *item.CategoryId,
				Name:       item.Name,
				Color:      item.Color,
				Amount:     decimal.Zero,
			}
			totals[*item.CategoryId] = bucket
			order = append(order, *item.CategoryId)
		}
		bucket.Amount = bucket.Amount.Add(monthly)
	}

	out := make([]CategorySpending, 0, len(order))
	for _, id := range order {
		bucket := totals[id]
		bucket.Amount = RoundCents(bucket.Amount)
		out = append(out, *bucket)
	}
	return out, nil
}

// SortByAmountDesc ranks categories for display; ties keep name order.
func SortByAmountDesc(categories []CategorySpending) {
	sort.SliceStable(categories, func(i, j int) bool {
		if c := categories[i].Amount.Cmp(categories[j].Amount); c != 0 {
			return c > 0
		}
		return categories[i].Name < categories[j].Name
	})
}

// ComputeUpcomingRenewals keeps active subscriptions billing within windowDays of now,
// soonest first with ties broken by subscription id.
func ComputeUpcomingRenewals(items []Renewal, now time.Time, windowDays int) ([]Renewal, error) {
	if windowDays <= 0 {
		return nil, apperror.NewValidation("days", "must be a positive number of days")
	}
	until := now.AddDate(0, 0, windowDays)

	out := make([]Renewal, 0, len(items))
	for _, item := range items {
		if item.Status != entity.SubscriptionStatusActive || item.NextBillingDate == nil {
			continue
		}
		if item.NextBillingDate.After(until) {
			continue
		}
		out = append(out, item)
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].NextBillingDate, out[j].NextBillingDate
		if !a.Equal(*b) {
			return a.Before(*b)
		}
		return out[i].SubscriptionId.String() < out[j].SubscriptionId.String()
	})
	return out, nil
}

// ComputeSpendingTrend spreads the current monthly figure over the last months, oldest first.
// There is no billing history to draw from, so every month carries the same amount.
func ComputeSpendingTrend(monthly decimal.Decimal, now time.Time, months int) []TrendPoint {
	if months <= 0 {
		months = DefaultTrendMonths
	}
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	points := make([]TrendPoint, 0, months)
	for i := months - 1; i >= 0; i-- {
		month := first.AddDate(0, -i, 0)
		points = append(points, TrendPoint{
			Month:  month.Format("2006-01"),
			Amount: RoundCents(monthly),
		})
	}
	return points
}
