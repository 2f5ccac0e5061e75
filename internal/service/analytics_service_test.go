package service

import (
	"testing"
	"time"

	"subtracker-be/internal/entity"
	"subtracker-be/internal/pkg/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAnalyticsService(f *serviceFixture, defaultCurrency string) IAnalyticsService {
	svc := NewAnalyticsService(f.factory, defaultCurrency, f.log)
	svc.(*analyticsService).now = func() time.Time { return f.now }
	return svc
}

// seedSpender gives a user one monthly and one yearly subscription plus a paused one
func seedSpender(t *testing.T, f *serviceFixture) uuid.UUID {
	t.Helper()
	userId := uuid.New()
	f.subscribe(t, userId, f.monthly, entity.SubscriptionStatusActive, f.days(5))
	f.subscribe(t, userId, f.yearly, entity.SubscriptionStatusActive, f.days(40))
	f.subscribe(t, userId, f.monthly, entity.SubscriptionStatusPaused, f.days(2))
	return userId
}

func TestAnalyticsDashboardStats(t *testing.T) {
	f := newServiceFixture(t)
	svc := newAnalyticsService(f, "")
	userId := seedSpender(t, f)

	stats, err := svc.GetDashboardStats(f.ctx, userId)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalSubscriptions)
	assert.Equal(t, int64(2), stats.ActiveSubscriptions)
	// 15.49 + 99.99/12
	assert.Equal(t, "23.82", stats.MonthlySpending.StringFixed(2))
	assert.Equal(t, "285.87", stats.YearlySpending.StringFixed(2))
	assert.Equal(t, 1, stats.UpcomingRenewals)
	assert.Equal(t, "USD", stats.Currency)
}

func TestAnalyticsEmptyUser(t *testing.T) {
	f := newServiceFixture(t)
	svc := newAnalyticsService(f, "EUR")

	summary, err := svc.GetSpending(f.ctx, uuid.New())
	require.NoError(t, err)
	assert.True(t, summary.Monthly.IsZero())
	assert.True(t, summary.Yearly.IsZero())
	assert.Equal(t, "EUR", summary.Currency)

	categories, err := svc.GetSpendingByCategory(f.ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, categories)
}

func TestAnalyticsPrefersUserCurrency(t *testing.T) {
	f := newServiceFixture(t)
	svc := newAnalyticsService(f, "USD")
	u := f.user(t, "gbp@example.com", entity.UserRoleEndUser, entity.UserStatusActive, "GBP")
	f.subscribe(t, u.Id, f.monthly, entity.SubscriptionStatusActive, nil)

	summary, err := svc.GetSpending(f.ctx, u.Id)
	require.NoError(t, err)
	assert.Equal(t, "GBP", summary.Currency)
	assert.Equal(t, "15.49", summary.Monthly.StringFixed(2))
}

func TestAnalyticsCustomAmountOverridesPrice(t *testing.T) {
	f := newServiceFixture(t)
	svc := newAnalyticsService(f, "")
	userId := uuid.New()
	sub := f.subscribe(t, userId, f.yearly, entity.SubscriptionStatusActive, nil)

	custom := decimal.RequireFromString("120")
	currency := "USD"
	sub.CustomAmount = &custom
	sub.CustomCurrency = &currency
	require.NoError(t, f.factory.NewUnitOfWork(f.ctx).SubscriptionRepository().Update(f.ctx, sub))

	summary, err := svc.GetSpending(f.ctx, userId)
	require.NoError(t, err)
	assert.Equal(t, "10.00", summary.Monthly.StringFixed(2))
	assert.Equal(t, "120.00", summary.Yearly.StringFixed(2))
}

func TestAnalyticsSpendingByCategory(t *testing.T) {
	f := newServiceFixture(t)
	svc := newAnalyticsService(f, "")
	userId := seedSpender(t, f)

	categories, err := svc.GetSpendingByCategory(f.ctx, userId)
	require.NoError(t, err)
	require.Len(t, categories, 2)

	assert.Equal(t, f.streaming.Id, categories[0].CategoryId)
	assert.Equal(t, "Streaming", categories[0].Name)
	require.NotNil(t, categories[0].Color)
	assert.Equal(t, "#E50914", *categories[0].Color)
	assert.Equal(t, "15.49", categories[0].Amount.StringFixed(2))

	assert.Equal(t, "Software", categories[1].Name)
	assert.Nil(t, categories[1].Color)
	assert.Equal(t, "8.33", categories[1].Amount.StringFixed(2))
}

func TestAnalyticsSpendingTrend(t *testing.T) {
	f := newServiceFixture(t)
	svc := newAnalyticsService(f, "")
	userId := seedSpender(t, f)

	points, err := svc.GetSpendingTrend(f.ctx, userId)
	require.NoError(t, err)
	require.Len(t, points, 12)
	assert.Equal(t, "2025-04", points[0].Month)
	assert.Equal(t, "2026-03", points[11].Month)
	for _, p := range points {
		assert.Equal(t, "23.82", p.Amount.StringFixed(2))
	}
}

func TestAnalyticsUpcomingRenewals(t *testing.T) {
	f := newServiceFixture(t)
	svc := newAnalyticsService(f, "")
	userId := seedSpender(t, f)

	def, err := svc.GetUpcomingRenewals(f.ctx, userId, 0)
	require.NoError(t, err)
	require.Len(t, def, 1)
	assert.Equal(t, "Netflix", def[0].ProductName)
	assert.Equal(t, "Standard", def[0].PlanName)
	assert.Equal(t, "monthly", def[0].Interval)
	assert.True(t, f.days(5).Equal(def[0].NextBillingDate))

	wide, err := svc.GetUpcomingRenewals(f.ctx, userId, 60)
	require.NoError(t, err)
	require.Len(t, wide, 2)
	assert.Equal(t, "Office", wide[1].ProductName)
	assert.Equal(t, "99.99", wide[1].Amount.StringFixed(2))

	_, err = svc.GetUpcomingRenewals(f.ctx, userId, -3)
	assert.ErrorIs(t, err, apperror.ErrValidation)
}
