package lifecycle

import (
	"context"
	"strings"
	"time"

	"subtracker-be/internal/entity"
	"subtracker-be/internal/pkg/apperror"
	"subtracker-be/internal/pkg/logger"
	"subtracker-be/internal/repository/specification"
	"subtracker-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	MaxNotesLength = 500
	DefaultPage    = 1
	DefaultLimit   = 20
	MaxLimit       = 100
)

type CreateInput struct {
	PlanId                   uuid.UUID
	PriceId                  uuid.UUID
	StartDate                *time.Time
	EndDate                  *time.Time
	NextBillingDate          *time.Time
	CancellationNoticePeriod *int
	CustomAmount             *decimal.Decimal
	CustomCurrency           *string
	Notes                    *string
}

// UpdateInput is a patch: nil fields are left alone.
type UpdateInput struct {
	PlanId                   *uuid.UUID
	PriceId                  *uuid.UUID
	Status                   *entity.SubscriptionStatus
	StartDate                *time.Time
	EndDate                  *time.Time
	NextBillingDate          *time.Time
	CancellationDate         *time.Time // effective date when Status is cancelled
	CancellationNoticePeriod *int
	CustomAmount             *decimal.Decimal
	CustomCurrency           *string
	ClearCustomPrice         bool
	Notes                    *string
}

type SortField string

const (
	SortByCreatedAt       SortField = "created_at"
	SortByNextBillingDate SortField = "next_billing_date"
	SortByAmount          SortField = "amount"
)

type ListQuery struct {
	Status    *entity.SubscriptionStatus
	SortBy    SortField
	SortOrder string // asc | desc
	Page      int
	Limit     int
}

type ListResult struct {
	Subscriptions []*entity.Subscription
	Page          int
	Limit         int
	Total         int64
}

// Manager validates and persists subscription changes for a single owner.
type Manager struct {
	logger logger.ILogger
	now    func() time.Time
}

func NewManager(logger logger.ILogger) *Manager {
	return &Manager{
		logger: logger,
		now:    time.Now,
	}
}

// WithClock replaces the time source, for tests and sweeps run at a fixed instant.
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

func (m *Manager) findOwned(ctx context.Context, uow unitofwork.UnitOfWork, id, userId uuid.UUID) (*entity.Subscription, error) {
	sub, err := uow.SubscriptionRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, apperror.Store("find subscription", err)
	}
	if sub == nil {
		return nil, apperror.NewNotFound("subscription")
	}
	return sub, nil
}

func (m *Manager) Get(ctx context.Context, uow unitofwork.UnitOfWork, id, userId uuid.UUID) (*entity.Subscription, error) {
	return m.findOwned(ctx, uow, id, userId)
}

func (m *Manager) List(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, q ListQuery) (*ListResult, error) {
	page, limit, err := normalizePage(q.Page, q.Limit)
	if err != nil {
		return nil, err
	}

	filters := []specification.Specification{specification.UserOwnedBy{UserID: userId}}
	if q.Status != nil {
		if !q.Status.IsValid() {
			return nil, apperror.NewValidation("status", "unknown status "+string(*q.Status))
		}
		filters = append(filters, specification.ByStatus{Status: *q.Status})
	}

	desc := true
	switch strings.ToLower(q.SortOrder) {
	case "", "desc":
	case "asc":
		desc = false
	default:
		return nil, apperror.NewValidation("sortOrder", "must be asc or desc")
	}

	var order specification.Specification
	switch q.SortBy {
	case "", SortByCreatedAt:
		order = specification.OrderBy{Field: "subscriptions.created_at", Desc: desc}
	case SortByNextBillingDate:
		order = specification.OrderBy{Field: "subscriptions.next_billing_date", Desc: desc}
	case SortByAmount:
		order = specification.OrderByEffectiveAmount{Desc: desc}
	default:
		return nil, apperror.NewValidation("sortBy", "must be one of created_at, next_billing_date, amount")
	}

	repo := uow.SubscriptionRepository()
	total, err := repo.Count(ctx, filters...)
	if err != nil {
		return nil, apperror.Store("count subscriptions", err)
	}

	specs := append(append([]specification.Specification{}, filters...),
		order,
		specification.Pagination{Limit: limit, Offset: (page - 1) * limit},
	)
	subs, err := repo.FindAllDetailed(ctx, specs...)
	if err != nil {
		return nil, apperror.Store("list subscriptions", err)
	}

	return &ListResult{Subscriptions: subs, Page: page, Limit: limit, Total: total}, nil
}

func normalizePage(page, limit int) (int, int, error) {
	if page == 0 {
		page = DefaultPage
	}
	if limit == 0 {
		limit = DefaultLimit
	}
	if page < 1 {
		return 0, 0, apperror.NewValidation("page", "must be at least 1")
	}
	if limit < 1 || limit > MaxLimit {
		return 0, 0, apperror.NewValidation("limit", "must be between 1 and 100")
	}
	return page, limit, nil
}

func (m *Manager) Create(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, in CreateInput) (*entity.Subscription, error) {
	now := m.now()
	sub := &entity.Subscription{
		UserId:          userId,
		PlanId:          in.PlanId,
		PriceId:         in.PriceId,
		Status:          entity.SubscriptionStatusActive,
		StartDate:       now,
		EndDate:         in.EndDate,
		NextBillingDate: in.NextBillingDate,
		CustomAmount:    in.CustomAmount,
		CustomCurrency:  normalizeCurrency(in.CustomCurrency),
		Notes:           in.Notes,
	}
	if in.StartDate != nil {
		sub.StartDate = *in.StartDate
	}
	if in.CancellationNoticePeriod != nil {
		sub.CancellationNoticePeriod = *in.CancellationNoticePeriod
	}

	if err := validateFields(sub); err != nil {
		return nil, err
	}
	if err := m.validatePlanPrice(ctx, uow, sub.PlanId, sub.PriceId); err != nil {
		return nil, err
	}

	if err := uow.SubscriptionRepository().Create(ctx, sub); err != nil {
		m.logger.Error("LIFECYCLE", "Failed to create subscription", map[string]interface{}{
			"userId": userId.String(),
			"error":  err.Error(),
		})
		return nil, apperror.Store("create subscription", err)
	}

	m.logger.Info("LIFECYCLE", "Subscription created", map[string]interface{}{
		"subscriptionId": sub.Id.String(),
		"userId":         userId.String(),
	})
	return sub, nil
}

func (m *Manager) Update(ctx context.Context, uow unitofwork.UnitOfWork, id, userId uuid.UUID, in UpdateInput) (*entity.Subscription, error) {
	// 1. ownership
	current, err := m.findOwned(ctx, uow, id, userId)
	if err != nil {
		return nil, err
	}

	// 2. fields
	next := *current
	planChanged := applyPatch(&next, in)
	if err := validateFields(&next); err != nil {
		return nil, err
	}
	if planChanged {
		if err := m.validatePlanPrice(ctx, uow, next.PlanId, next.PriceId); err != nil {
			return nil, err
		}
	}

	// 3. transition
	if in.Status != nil {
		// expiry only comes from ExpireDue once endDate has passed
		if *in.Status == entity.SubscriptionStatusExpired && current.Status != entity.SubscriptionStatusExpired {
			return nil, apperror.NewValidation("status", "expired is set when endDate passes")
		}
		if err := Transition(&next, *in.Status, m.now(), in.CancellationDate); err != nil {
			return nil, err
		}
		if err := validateFields(&next); err != nil {
			return nil, err
		}
	}
	if in.NextBillingDate != nil && next.Status != entity.SubscriptionStatusActive {
		return nil, apperror.NewValidation("nextBillingDate", "can only be set on an active subscription")
	}

	// 4. persist
	next.Plan, next.Price, next.Product = nil, nil, nil
	if err := uow.SubscriptionRepository().Update(ctx, &next); err != nil {
		return nil, apperror.Store("update subscription", err)
	}

	if current.Status != next.Status {
		m.logger.Info("LIFECYCLE", "Subscription status changed", map[string]interface{}{
			"subscriptionId": id.String(),
			"from":           string(current.Status),
			"to":             string(next.Status),
		})
	}
	return &next, nil
}

// ChangeStatus is Update with only a status in the patch.
func (m *Manager) ChangeStatus(ctx context.Context, uow unitofwork.UnitOfWork, id, userId uuid.UUID, to entity.SubscriptionStatus, effective *time.Time) (*entity.Subscription, error) {
	return m.Update(ctx, uow, id, userId, UpdateInput{Status: &to, CancellationDate: effective})
}

func (m *Manager) Delete(ctx context.Context, uow unitofwork.UnitOfWork, id, userId uuid.UUID) error {
	if _, err := m.findOwned(ctx, uow, id, userId); err != nil {
		return err
	}
	if err := uow.SubscriptionRepository().Delete(ctx, id); err != nil {
		return apperror.Store("delete subscription", err)
	}
	m.logger.Info("LIFECYCLE", "Subscription deleted", map[string]interface{}{
		"subscriptionId": id.String(),
		"userId":         userId.String(),
	})
	return nil
}

// ExpireDue moves every non-terminal subscription whose end date has passed to expired.
// Rows are updated one at a time; the first store failure stops the sweep.
func (m *Manager) ExpireDue(ctx context.Context, uow unitofwork.UnitOfWork, now time.Time) ([]*entity.Subscription, error) {
	repo := uow.SubscriptionRepository()
	due, err := repo.FindAll(ctx,
		specification.ByStatuses{Statuses: []entity.SubscriptionStatus{entity.SubscriptionStatusActive, entity.SubscriptionStatusPaused}},
		specification.EndDateReached{At: now},
	)
	if err != nil {
		return nil, apperror.Store("find expiring subscriptions", err)
	}

	expired := make([]*entity.Subscription, 0, len(due))
	for _, sub := range due {
		if !ShouldExpire(sub, now) {
			continue
		}
		if err := Transition(sub, entity.SubscriptionStatusExpired, now, nil); err != nil {
			return expired, err
		}
		sub.Plan, sub.Price, sub.Product = nil, nil, nil
		if err := repo.Update(ctx, sub); err != nil {
			return expired, apperror.Store("expire subscription", err)
		}
		expired = append(expired, sub)
	}

	if len(expired) > 0 {
		m.logger.Info("LIFECYCLE", "Expired subscriptions", map[string]interface{}{
			"count": len(expired),
		})
	}
	return expired, nil
}

// applyPatch copies present fields and reports whether the plan or price reference moved.
func applyPatch(sub *entity.Subscription, in UpdateInput) bool {
	changed := false
	if in.PlanId != nil && *in.PlanId != sub.PlanId {
		sub.PlanId = *in.PlanId
		changed = true
	}
	if in.PriceId != nil && *in.PriceId != sub.PriceId {
		sub.PriceId = *in.PriceId
		changed = true
	}
	if in.StartDate != nil {
		sub.StartDate = *in.StartDate
	}
	if in.EndDate != nil {
		sub.EndDate = in.EndDate
	}
	if in.NextBillingDate != nil {
		sub.NextBillingDate = in.NextBillingDate
	}
	if in.CancellationNoticePeriod != nil {
		sub.CancellationNoticePeriod = *in.CancellationNoticePeriod
	}
	if in.ClearCustomPrice {
		sub.CustomAmount, sub.CustomCurrency = nil, nil
	}
	if in.CustomAmount != nil {
		sub.CustomAmount = in.CustomAmount
	}
	if in.CustomCurrency != nil {
		sub.CustomCurrency = normalizeCurrency(in.CustomCurrency)
	}
	if in.Notes != nil {
		sub.Notes = in.Notes
	}
	return changed
}

func validateFields(sub *entity.Subscription) error {
	if (sub.CustomAmount == nil) != (sub.CustomCurrency == nil) {
		if sub.CustomAmount == nil {
			return apperror.NewValidation("customAmount", "required when customCurrency is set")
		}
		return apperror.NewValidation("customCurrency", "required when customAmount is set")
	}
	if sub.CustomAmount != nil && sub.CustomAmount.IsNegative() {
		return apperror.NewValidation("customAmount", "must not be negative")
	}
	if sub.CustomCurrency != nil && len(*sub.CustomCurrency) != 3 {
		return apperror.NewValidation("customCurrency", "must be a 3-letter code")
	}
	if sub.Notes != nil && len([]rune(*sub.Notes)) > MaxNotesLength {
		return apperror.NewValidation("notes", "must be at most 500 characters")
	}
	if sub.CancellationNoticePeriod < 0 {
		return apperror.NewValidation("cancellationNoticePeriod", "must not be negative")
	}
	if sub.EndDate != nil && sub.EndDate.Before(sub.StartDate) {
		return apperror.NewValidation("endDate", "must not be before startDate")
	}
	return nil
}

// validatePlanPrice enforces that the price belongs to the referenced plan, which the
// schema alone does not guarantee.
func (m *Manager) validatePlanPrice(ctx context.Context, uow unitofwork.UnitOfWork, planId, priceId uuid.UUID) error {
	plan, err := uow.PlanRepository().FindOne(ctx, specification.ByID{ID: planId})
	if err != nil {
		return apperror.Store("find plan", err)
	}
	if plan == nil {
		return apperror.NewNotFound("plan")
	}
	price, err := uow.PriceRepository().FindOne(ctx, specification.ByID{ID: priceId})
	if err != nil {
		return apperror.Store("find price", err)
	}
	if price == nil {
		return apperror.NewNotFound("price")
	}
	if price.PlanId != plan.Id {
		return apperror.NewValidation("priceId", "price does not belong to the selected plan")
	}
	return nil
}

func normalizeCurrency(c *string) *string {
	if c == nil {
		return nil
	}
	up := strings.ToUpper(strings.TrimSpace(*c))
	return &up
}
