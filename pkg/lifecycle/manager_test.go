package lifecycle

import (
	"context"
	"strings"
	"testing"
	"time"

	"subtracker-be/internal/entity"
	"subtracker-be/internal/pkg/apperror"
	"subtracker-be/internal/pkg/logger"
	"subtracker-be/internal/repository/memory"
	"subtracker-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	ctx     context.Context
	uow     unitofwork.UnitOfWork
	manager *Manager
	now     time.Time
	plan    *entity.Plan
	price   *entity.Price
	other   *entity.Price // belongs to another plan
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	uow := memory.NewRepositoryFactory(memory.NewStore()).NewUnitOfWork(ctx)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	category := &entity.Category{Name: "Streaming", Slug: "streaming"}
	require.NoError(t, uow.CategoryRepository().Create(ctx, category))
	product := &entity.Product{Name: "Netflix", Slug: "netflix", CategoryId: category.Id, IsActive: true}
	require.NoError(t, uow.ProductRepository().Create(ctx, product))

	plan := &entity.Plan{ProductId: product.Id, Name: "Standard"}
	require.NoError(t, uow.PlanRepository().Create(ctx, plan))
	price := &entity.Price{PlanId: plan.Id, Amount: decimal.RequireFromString("15.49"), Currency: "USD", Interval: entity.BillingIntervalMonthly, IsActive: true}
	require.NoError(t, uow.PriceRepository().Create(ctx, price))

	premium := &entity.Plan{ProductId: product.Id, Name: "Premium"}
	require.NoError(t, uow.PlanRepository().Create(ctx, premium))
	other := &entity.Price{PlanId: premium.Id, Amount: decimal.RequireFromString("22.99"), Currency: "USD", Interval: entity.BillingIntervalMonthly, IsActive: true}
	require.NoError(t, uow.PriceRepository().Create(ctx, other))

	return &fixture{
		ctx:     ctx,
		uow:     uow,
		manager: NewManager(logger.NewNopLogger()).WithClock(func() time.Time { return now }),
		now:     now,
		plan:    plan,
		price:   price,
		other:   other,
	}
}

func (f *fixture) create(t *testing.T, userId uuid.UUID) *entity.Subscription {
	t.Helper()
	sub, err := f.manager.Create(f.ctx, f.uow, userId, CreateInput{PlanId: f.plan.Id, PriceId: f.price.Id})
	require.NoError(t, err)
	return sub
}

func TestManagerCreateDefaults(t *testing.T) {
	f := newFixture(t)
	userId := uuid.New()

	sub := f.create(t, userId)
	assert.NotEqual(t, uuid.Nil, sub.Id)
	assert.Equal(t, entity.SubscriptionStatusActive, sub.Status)
	assert.True(t, f.now.Equal(sub.StartDate))
	assert.Equal(t, 0, sub.CancellationNoticePeriod)
	assert.Equal(t, userId, sub.UserId)
}

func TestManagerCreateValidation(t *testing.T) {
	f := newFixture(t)
	amount := decimal.RequireFromString("9.99")
	eur := "eur"
	longNotes := strings.Repeat("n", MaxNotesLength+1)
	negative := -1

	tests := []struct {
		name  string
		input CreateInput
		want  error
	}{
		{"price from another plan", CreateInput{PlanId: f.plan.Id, PriceId: f.other.Id}, apperror.ErrValidation},
		{"unknown plan", CreateInput{PlanId: uuid.New(), PriceId: f.price.Id}, apperror.ErrNotFound},
		{"unknown price", CreateInput{PlanId: f.plan.Id, PriceId: uuid.New()}, apperror.ErrNotFound},
		{"amount without currency", CreateInput{PlanId: f.plan.Id, PriceId: f.price.Id, CustomAmount: &amount}, apperror.ErrValidation},
		{"currency without amount", CreateInput{PlanId: f.plan.Id, PriceId: f.price.Id, CustomCurrency: &eur}, apperror.ErrValidation},
		{"notes too long", CreateInput{PlanId: f.plan.Id, PriceId: f.price.Id, Notes: &longNotes}, apperror.ErrValidation},
		{"negative notice period", CreateInput{PlanId: f.plan.Id, PriceId: f.price.Id, CancellationNoticePeriod: &negative}, apperror.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.manager.Create(f.ctx, f.uow, uuid.New(), tt.input)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestManagerCreateNormalizesCustomCurrency(t *testing.T) {
	f := newFixture(t)
	amount := decimal.RequireFromString("9.99")
	eur := "eur"

	sub, err := f.manager.Create(f.ctx, f.uow, uuid.New(), CreateInput{
		PlanId: f.plan.Id, PriceId: f.price.Id, CustomAmount: &amount, CustomCurrency: &eur,
	})
	require.NoError(t, err)
	require.NotNil(t, sub.CustomCurrency)
	assert.Equal(t, "EUR", *sub.CustomCurrency)
}

func TestManagerOwnershipLooksLikeNotFound(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()
	stranger := uuid.New()
	sub := f.create(t, owner)
	notes := "mine"

	_, err := f.manager.Update(f.ctx, f.uow, sub.Id, stranger, UpdateInput{Notes: &notes})
	var notFound *apperror.NotFoundError
	require.ErrorAs(t, err, &notFound)

	_, errMissing := f.manager.Update(f.ctx, f.uow, uuid.New(), owner, UpdateInput{Notes: &notes})
	assert.Equal(t, errMissing.Error(), err.Error())

	assert.ErrorIs(t, f.manager.Delete(f.ctx, f.uow, sub.Id, stranger), apperror.ErrNotFound)
	_, err = f.manager.Get(f.ctx, f.uow, sub.Id, stranger)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	got, err := f.manager.Get(f.ctx, f.uow, sub.Id, owner)
	require.NoError(t, err)
	assert.Nil(t, got.Notes)
}

func TestManagerUpdateValidationOrder(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()
	sub := f.create(t, owner)
	_, err := f.manager.ChangeStatus(f.ctx, f.uow, sub.Id, owner, entity.SubscriptionStatusCancelled, nil)
	require.NoError(t, err)

	// field errors win over the illegal cancelled -> active transition
	amount := decimal.RequireFromString("1.00")
	status := entity.SubscriptionStatusActive
	_, err = f.manager.Update(f.ctx, f.uow, sub.Id, owner, UpdateInput{Status: &status, CustomAmount: &amount})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = f.manager.Update(f.ctx, f.uow, sub.Id, owner, UpdateInput{Status: &status})
	assert.ErrorIs(t, err, apperror.ErrInvalidTransition)

	got, err := f.manager.Get(f.ctx, f.uow, sub.Id, owner)
	require.NoError(t, err)
	assert.Equal(t, entity.SubscriptionStatusCancelled, got.Status)
}

func TestManagerUpdateAppliesOnlyPresentFields(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()
	notes := "shared with family"
	_, err := f.manager.Create(f.ctx, f.uow, owner, CreateInput{PlanId: f.plan.Id, PriceId: f.price.Id, Notes: &notes})
	require.NoError(t, err)

	list, err := f.manager.List(f.ctx, f.uow, owner, ListQuery{})
	require.NoError(t, err)
	require.Len(t, list.Subscriptions, 1)
	sub := list.Subscriptions[0]

	next := f.now.AddDate(0, 1, 0)
	updated, err := f.manager.Update(f.ctx, f.uow, sub.Id, owner, UpdateInput{NextBillingDate: &next})
	require.NoError(t, err)
	require.NotNil(t, updated.Notes)
	assert.Equal(t, notes, *updated.Notes)
	assert.True(t, next.Equal(*updated.NextBillingDate))
	assert.Equal(t, f.price.Id, updated.PriceId)
}

func TestManagerUpdateRevalidatesPlanPrice(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()
	sub := f.create(t, owner)

	_, err := f.manager.Update(f.ctx, f.uow, sub.Id, owner, UpdateInput{PriceId: &f.other.Id})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	updated, err := f.manager.Update(f.ctx, f.uow, sub.Id, owner, UpdateInput{PlanId: &f.other.PlanId, PriceId: &f.other.Id})
	require.NoError(t, err)
	assert.Equal(t, f.other.Id, updated.PriceId)
}

func TestManagerClearCustomPrice(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()
	amount := decimal.RequireFromString("4.00")
	usd := "USD"
	sub, err := f.manager.Create(f.ctx, f.uow, owner, CreateInput{PlanId: f.plan.Id, PriceId: f.price.Id, CustomAmount: &amount, CustomCurrency: &usd})
	require.NoError(t, err)

	updated, err := f.manager.Update(f.ctx, f.uow, sub.Id, owner, UpdateInput{ClearCustomPrice: true})
	require.NoError(t, err)
	assert.Nil(t, updated.CustomAmount)
	assert.Nil(t, updated.CustomCurrency)
}

func TestManagerStatusFlow(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()
	sub := f.create(t, owner)

	got, err := f.manager.ChangeStatus(f.ctx, f.uow, sub.Id, owner, entity.SubscriptionStatusActive, nil)
	require.NoError(t, err)
	assert.Equal(t, entity.SubscriptionStatusActive, got.Status)

	got, err = f.manager.ChangeStatus(f.ctx, f.uow, sub.Id, owner, entity.SubscriptionStatusPaused, nil)
	require.NoError(t, err)
	assert.Equal(t, entity.SubscriptionStatusPaused, got.Status)

	got, err = f.manager.ChangeStatus(f.ctx, f.uow, sub.Id, owner, entity.SubscriptionStatusCancelled, nil)
	require.NoError(t, err)
	assert.Equal(t, entity.SubscriptionStatusCancelled, got.Status)
	require.NotNil(t, got.CancellationDate)
	assert.True(t, f.now.Equal(*got.CancellationDate))

	_, err = f.manager.ChangeStatus(f.ctx, f.uow, sub.Id, owner, entity.SubscriptionStatusActive, nil)
	assert.ErrorIs(t, err, apperror.ErrInvalidTransition)
}

func TestManagerCancelBeforeStartLeavesRowEditable(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()
	sub := f.create(t, owner)

	effective := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	_, err := f.manager.ChangeStatus(f.ctx, f.uow, sub.Id, owner, entity.SubscriptionStatusCancelled, &effective)
	var verr *apperror.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "cancellationDate", verr.Field)

	notes := "still editable"
	updated, err := f.manager.Update(f.ctx, f.uow, sub.Id, owner, UpdateInput{Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, entity.SubscriptionStatusActive, updated.Status)
	assert.Nil(t, updated.EndDate)
}

func TestManagerUpdateRejectsExpiredStatus(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()
	sub := f.create(t, owner)

	status := entity.SubscriptionStatusExpired
	_, err := f.manager.Update(f.ctx, f.uow, sub.Id, owner, UpdateInput{Status: &status})
	var verr *apperror.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "status", verr.Field)

	got, err := f.manager.Get(f.ctx, f.uow, sub.Id, owner)
	require.NoError(t, err)
	assert.Equal(t, entity.SubscriptionStatusActive, got.Status)
}

func TestManagerNextBillingDateOnlyWhileActive(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()
	sub := f.create(t, owner)
	_, err := f.manager.ChangeStatus(f.ctx, f.uow, sub.Id, owner, entity.SubscriptionStatusPaused, nil)
	require.NoError(t, err)

	next := f.now.AddDate(0, 1, 0)
	_, err = f.manager.Update(f.ctx, f.uow, sub.Id, owner, UpdateInput{NextBillingDate: &next})
	var verr *apperror.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "nextBillingDate", verr.Field)

	// resuming in the same patch is fine
	status := entity.SubscriptionStatusActive
	resumed, err := f.manager.Update(f.ctx, f.uow, sub.Id, owner, UpdateInput{Status: &status, NextBillingDate: &next})
	require.NoError(t, err)
	require.NotNil(t, resumed.NextBillingDate)
	assert.True(t, next.Equal(*resumed.NextBillingDate))

	cancel := entity.SubscriptionStatusCancelled
	_, err = f.manager.Update(f.ctx, f.uow, sub.Id, owner, UpdateInput{Status: &cancel, NextBillingDate: &next})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "nextBillingDate", verr.Field)

	got, err := f.manager.Get(f.ctx, f.uow, sub.Id, owner)
	require.NoError(t, err)
	assert.Equal(t, entity.SubscriptionStatusActive, got.Status)
}

func TestManagerDelete(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()
	sub := f.create(t, owner)

	require.NoError(t, f.manager.Delete(f.ctx, f.uow, sub.Id, owner))
	_, err := f.manager.Get(f.ctx, f.uow, sub.Id, owner)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestManagerList(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()
	f.create(t, uuid.New()) // someone else's

	amounts := []string{"3.00", "30.00", "12.00"}
	for _, a := range amounts {
		amount := decimal.RequireFromString(a)
		usd := "USD"
		_, err := f.manager.Create(f.ctx, f.uow, owner, CreateInput{PlanId: f.plan.Id, PriceId: f.price.Id, CustomAmount: &amount, CustomCurrency: &usd})
		require.NoError(t, err)
	}

	t.Run("sorted by amount ascending", func(t *testing.T) {
		res, err := f.manager.List(f.ctx, f.uow, owner, ListQuery{SortBy: SortByAmount, SortOrder: "asc"})
		require.NoError(t, err)
		assert.EqualValues(t, 3, res.Total)
		require.Len(t, res.Subscriptions, 3)
		assert.Equal(t, "3.00", res.Subscriptions[0].CustomAmount.StringFixed(2))
		assert.Equal(t, "30.00", res.Subscriptions[2].CustomAmount.StringFixed(2))
		assert.NotNil(t, res.Subscriptions[0].Product)
	})

	t.Run("paginates", func(t *testing.T) {
		res, err := f.manager.List(f.ctx, f.uow, owner, ListQuery{SortBy: SortByAmount, Page: 2, Limit: 2})
		require.NoError(t, err)
		assert.EqualValues(t, 3, res.Total)
		assert.Equal(t, 2, res.Page)
		assert.Equal(t, 2, res.Limit)
		require.Len(t, res.Subscriptions, 1)
		assert.Equal(t, "3.00", res.Subscriptions[0].CustomAmount.StringFixed(2))
	})

	t.Run("filters by status", func(t *testing.T) {
		paused := entity.SubscriptionStatusPaused
		res, err := f.manager.List(f.ctx, f.uow, owner, ListQuery{Status: &paused})
		require.NoError(t, err)
		assert.EqualValues(t, 0, res.Total)
		assert.Empty(t, res.Subscriptions)
	})

	t.Run("defaults", func(t *testing.T) {
		res, err := f.manager.List(f.ctx, f.uow, owner, ListQuery{})
		require.NoError(t, err)
		assert.Equal(t, DefaultPage, res.Page)
		assert.Equal(t, DefaultLimit, res.Limit)
	})

	t.Run("rejects bad query", func(t *testing.T) {
		for _, q := range []ListQuery{
			{Limit: MaxLimit + 1},
			{Page: -1},
			{SortBy: "name"},
			{SortOrder: "sideways"},
		} {
			_, err := f.manager.List(f.ctx, f.uow, owner, q)
			assert.ErrorIs(t, err, apperror.ErrValidation)
		}
	})
}

func TestManagerExpireDue(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()
	past := f.now.AddDate(0, 0, -1)
	future := f.now.AddDate(0, 0, 1)

	due, err := f.manager.Create(f.ctx, f.uow, owner, CreateInput{PlanId: f.plan.Id, PriceId: f.price.Id, StartDate: &past, EndDate: &past})
	require.NoError(t, err)
	_, err = f.manager.Create(f.ctx, f.uow, owner, CreateInput{PlanId: f.plan.Id, PriceId: f.price.Id, EndDate: &future})
	require.NoError(t, err)
	f.create(t, owner)

	expired, err := f.manager.ExpireDue(f.ctx, f.uow, f.now)
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, due.Id, expired[0].Id)

	got, err := f.manager.Get(f.ctx, f.uow, due.Id, owner)
	require.NoError(t, err)
	assert.Equal(t, entity.SubscriptionStatusExpired, got.Status)

	again, err := f.manager.ExpireDue(f.ctx, f.uow, f.now)
	require.NoError(t, err)
	assert.Empty(t, again)
}
