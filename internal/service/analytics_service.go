package service

import (
	"context"
	"time"

	"subtracker-be/internal/dto"
	"subtracker-be/internal/entity"
	"subtracker-be/internal/pkg/apperror"
	"subtracker-be/internal/pkg/logger"
	"subtracker-be/internal/repository/specification"
	"subtracker-be/internal/repository/unitofwork"
	"subtracker-be/pkg/spending"

	"github.com/google/uuid"
)

type IAnalyticsService interface {
	GetDashboardStats(ctx context.Context, userId uuid.UUID) (*dto.DashboardStatsResponse, error)
	GetSpending(ctx context.Context, userId uuid.UUID) (*dto.SpendingSummaryResponse, error)
	GetSpendingByCategory(ctx context.Context, userId uuid.UUID) ([]dto.CategorySpendingResponse, error)
	GetSpendingTrend(ctx context.Context, userId uuid.UUID) ([]dto.SpendingTrendPoint, error)
	// GetUpcomingRenewals uses the default window when days is 0
	GetUpcomingRenewals(ctx context.Context, userId uuid.UUID, days int) ([]dto.RenewalResponse, error)
}

type analyticsService struct {
	uowFactory      unitofwork.RepositoryFactory
	defaultCurrency string
	logger          logger.ILogger
	now             func() time.Time
}

func NewAnalyticsService(uowFactory unitofwork.RepositoryFactory, defaultCurrency string, logger logger.ILogger) IAnalyticsService {
	if defaultCurrency == "" {
		defaultCurrency = spending.DefaultCurrency
	}
	return &analyticsService{
		uowFactory:      uowFactory,
		defaultCurrency: defaultCurrency,
		logger:          logger,
		now:             time.Now,
	}
}

func (s *analyticsService) GetDashboardStats(ctx context.Context, userId uuid.UUID) (*dto.DashboardStatsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	total, err := uow.SubscriptionRepository().Count(ctx, specification.UserOwnedBy{UserID: userId})
	if err != nil {
		return nil, apperror.Store("count subscriptions", err)
	}

	active, err := s.activeSubscriptions(ctx, uow, userId)
	if err != nil {
		return nil, err
	}
	currency, err := s.currencyFor(ctx, uow, userId)
	if err != nil {
		return nil, err
	}

	totals, err := spending.ComputeMonthlySpending(s.items(active), currency)
	if err != nil {
		return nil, err
	}
	renewals, err := spending.ComputeUpcomingRenewals(s.renewals(active), s.now(), spending.DefaultRenewalWindowDays)
	if err != nil {
		return nil, err
	}

	return &dto.DashboardStatsResponse{
		TotalSubscriptions:  total,
		ActiveSubscriptions: int64(len(active)),
		MonthlySpending:     totals.Monthly,
		YearlySpending:      totals.Yearly,
		UpcomingRenewals:    len(renewals),
		Currency:            totals.Currency,
	}, nil
}

func (s *analyticsService) GetSpending(ctx context.Context, userId uuid.UUID) (*dto.SpendingSummaryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	active, err := s.activeSubscriptions(ctx, uow, userId)
	if err != nil {
		return nil, err
	}
	currency, err := s.currencyFor(ctx, uow, userId)
	if err != nil {
		return nil, err
	}

	totals, err := spending.ComputeMonthlySpending(s.items(active), currency)
	if err != nil {
		return nil, err
	}
	return &dto.SpendingSummaryResponse{
		Monthly:  totals.Monthly,
		Yearly:   totals.Yearly,
		Currency: totals.Currency,
	}, nil
}

// GetSpendingByCategory ranks categories by monthly spend, largest first
func (s *analyticsService) GetSpendingByCategory(ctx context.Context, userId uuid.UUID) ([]dto.CategorySpendingResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	active, err := s.activeSubscriptions(ctx, uow, userId)
	if err != nil {
		return nil, err
	}

	items := make([]spending.CategorizedItem, 0, len(active))
	for _, sub := range active {
		item, ok := s.item(sub)
		if !ok {
			continue
		}
		categorized := spending.CategorizedItem{Item: item}
		if sub.Product != nil && sub.Product.Category != nil {
			category := sub.Product.Category
			categorized.CategoryId = &category.Id
			categorized.Name = category.Name
			categorized.Color = category.Color
		}
		items = append(items, categorized)
	}

	categories, err := spending.ComputeSpendingByCategory(items)
	if err != nil {
		return nil, err
	}
	spending.SortByAmountDesc(categories)

	res := make([]dto.CategorySpendingResponse, 0, len(categories))
	for _, c := range categories {
		res = append(res, dto.CategorySpendingResponse{
			CategoryId: c.CategoryId,
			Name:       c.Name,
			Color:      c.Color,
			Amount:     c.Amount,
		})
	}
	return res, nil
}

func (s *analyticsService) GetSpendingTrend(ctx context.Context, userId uuid.UUID) ([]dto.SpendingTrendPoint, error) {
	summary, err := s.GetSpending(ctx, userId)
	if err != nil {
		return nil, err
	}

	points := spending.ComputeSpendingTrend(summary.Monthly, s.now(), spending.DefaultTrendMonths)
	res := make([]dto.SpendingTrendPoint, 0, len(points))
	for _, p := range points {
		res = append(res, dto.SpendingTrendPoint{Month: p.Month, Amount: p.Amount})
	}
	return res, nil
}

func (s *analyticsService) GetUpcomingRenewals(ctx context.Context, userId uuid.UUID, days int) ([]dto.RenewalResponse, error) {
	if days == 0 {
		days = spending.DefaultRenewalWindowDays
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	active, err := s.activeSubscriptions(ctx, uow, userId)
	if err != nil {
		return nil, err
	}

	upcoming, err := spending.ComputeUpcomingRenewals(s.renewals(active), s.now(), days)
	if err != nil {
		return nil, err
	}

	byId := make(map[uuid.UUID]*entity.Subscription, len(active))
	for _, sub := range active {
		byId[sub.Id] = sub
	}

	res := make([]dto.RenewalResponse, 0, len(upcoming))
	for _, r := range upcoming {
		sub := byId[r.SubscriptionId]
		renewal := dto.RenewalResponse{
			SubscriptionId:  r.SubscriptionId,
			NextBillingDate: *r.NextBillingDate,
			Amount:          r.Amount,
			Currency:        r.Currency,
			Interval:        string(r.Interval),
		}
		if sub.Product != nil {
			renewal.ProductName = sub.Product.Name
		}
		if sub.Plan != nil {
			renewal.PlanName = sub.Plan.Name
		}
		res = append(res, renewal)
	}
	return res, nil
}

func (s *analyticsService) activeSubscriptions(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID) ([]*entity.Subscription, error) {
	subs, err := uow.SubscriptionRepository().FindAllDetailed(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.ByStatus{Status: entity.SubscriptionStatusActive},
	)
	if err != nil {
		s.logger.Error("ANALYTICS", "Failed to load subscriptions", map[string]interface{}{
			"userId": userId.String(),
			"error":  err.Error(),
		})
		return nil, apperror.Store("find subscriptions", err)
	}
	return subs, nil
}

// currencyFor prefers the user's own currency over the service default
func (s *analyticsService) currencyFor(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID) (string, error) {
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return "", apperror.Store("find user", err)
	}
	if user != nil && user.Currency != "" {
		return user.Currency, nil
	}
	return s.defaultCurrency, nil
}

// item resolves the effective charge; the interval always comes from the referenced price.
func (s *analyticsService) item(sub *entity.Subscription) (spending.Item, bool) {
	amount, currency, ok := sub.EffectiveAmount()
	if !ok || sub.Price == nil {
		s.logger.Warn("ANALYTICS", "Skipping subscription without a resolvable price", map[string]interface{}{
			"subscriptionId": sub.Id.String(),
		})
		return spending.Item{}, false
	}
	return spending.Item{Interval: sub.Price.Interval, Amount: amount, Currency: currency}, true
}

func (s *analyticsService) items(subs []*entity.Subscription) []spending.Item {
	out := make([]spending.Item, 0, len(subs))
	for _, sub := range subs {
		if item, ok := s.item(sub); ok {
			out = append(out, item)
		}
	}
	return out
}

func (s *analyticsService) renewals(subs []*entity.Subscription) []spending.Renewal {
	out := make([]spending.Renewal, 0, len(subs))
	for _, sub := range subs {
		item, ok := s.item(sub)
		if !ok {
			continue
		}
		out = append(out, spending.Renewal{
			SubscriptionId:  sub.Id,
			Status:          sub.Status,
			NextBillingDate: sub.NextBillingDate,
			Item:            item,
		})
	}
	return out
}
