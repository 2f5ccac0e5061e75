package service

import (
	"testing"
	"time"

	"subtracker-be/internal/dto"
	"subtracker-be/internal/entity"
	"subtracker-be/internal/pkg/apperror"
	"subtracker-be/pkg/events"
	"subtracker-be/pkg/lifecycle"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSubscriptionService(f *serviceFixture) ISubscriptionService {
	manager := lifecycle.NewManager(f.log).WithClock(func() time.Time { return f.now })
	return NewSubscriptionService(f.factory, manager, f.publisher, f.log)
}

func TestSubscriptionCreateReturnsDetails(t *testing.T) {
	f := newServiceFixture(t)
	svc := newSubscriptionService(f)
	userId := uuid.New()

	res, err := svc.Create(f.ctx, userId, dto.CreateSubscriptionRequest{PlanId: f.standard.Id, PriceId: f.monthly.Id})
	require.NoError(t, err)
	assert.Equal(t, "active", res.Status)
	require.NotNil(t, res.Product)
	assert.Equal(t, "Netflix", res.Product.Name)
	require.NotNil(t, res.Plan)
	assert.Equal(t, "Standard", res.Plan.Name)
	require.NotNil(t, res.Price)
	assert.Equal(t, "15.49", res.Price.Amount.StringFixed(2))

	audit := f.publisher.last()
	assert.Equal(t, events.SubscriptionCreated, audit.action)
	assert.Equal(t, res.Id, audit.entityId)
	assert.Equal(t, userId, *audit.actor)
}

func TestSubscriptionCreateRejectsForeignPrice(t *testing.T) {
	f := newServiceFixture(t)
	svc := newSubscriptionService(f)

	_, err := svc.Create(f.ctx, uuid.New(), dto.CreateSubscriptionRequest{PlanId: f.standard.Id, PriceId: f.yearly.Id})
	requireValidationField(t, err, "priceId")
	assert.Empty(t, f.publisher.actions())
}

func TestSubscriptionStatusShortcuts(t *testing.T) {
	f := newServiceFixture(t)
	svc := newSubscriptionService(f)
	userId := uuid.New()
	next := f.now.AddDate(0, 0, 10)

	created, err := svc.Create(f.ctx, userId, dto.CreateSubscriptionRequest{PlanId: f.standard.Id, PriceId: f.monthly.Id, NextBillingDate: &next})
	require.NoError(t, err)

	paused, err := svc.Pause(f.ctx, userId, created.Id)
	require.NoError(t, err)
	assert.Equal(t, "paused", paused.Status)
	assert.NotNil(t, paused.NextBillingDate)
	assert.Equal(t, events.SubscriptionStatusChanged, f.publisher.last().action)

	resumed, err := svc.Resume(f.ctx, userId, created.Id)
	require.NoError(t, err)
	assert.Equal(t, "active", resumed.Status)

	effective := f.now.AddDate(0, 0, 2)
	cancelled, err := svc.Cancel(f.ctx, userId, created.Id, dto.CancelSubscriptionRequest{EffectiveDate: &effective})
	require.NoError(t, err)
	assert.Equal(t, "cancelled", cancelled.Status)
	require.NotNil(t, cancelled.CancellationDate)
	assert.True(t, effective.Equal(*cancelled.CancellationDate))
	require.NotNil(t, cancelled.EndDate)
	assert.False(t, cancelled.EndDate.Before(*cancelled.CancellationDate))
	assert.Nil(t, cancelled.NextBillingDate)

	_, err = svc.Resume(f.ctx, userId, created.Id)
	assert.ErrorIs(t, err, apperror.ErrInvalidTransition)
}

func TestSubscriptionUpdateWithoutStatusIsPlainUpdate(t *testing.T) {
	f := newServiceFixture(t)
	svc := newSubscriptionService(f)
	userId := uuid.New()
	created, err := svc.Create(f.ctx, userId, dto.CreateSubscriptionRequest{PlanId: f.standard.Id, PriceId: f.monthly.Id})
	require.NoError(t, err)

	notes := "shared with family"
	updated, err := svc.Update(f.ctx, userId, created.Id, dto.UpdateSubscriptionRequest{Notes: &notes})
	require.NoError(t, err)
	require.NotNil(t, updated.Notes)
	assert.Equal(t, notes, *updated.Notes)

	audit := f.publisher.last()
	assert.Equal(t, events.SubscriptionUpdated, audit.action)
	assert.Nil(t, audit.oldValues["notes"])
	assert.Equal(t, notes, audit.newValues["notes"])
}

func TestSubscriptionOwnership(t *testing.T) {
	f := newServiceFixture(t)
	svc := newSubscriptionService(f)
	owner, stranger := uuid.New(), uuid.New()
	created, err := svc.Create(f.ctx, owner, dto.CreateSubscriptionRequest{PlanId: f.standard.Id, PriceId: f.monthly.Id})
	require.NoError(t, err)

	_, err = svc.Get(f.ctx, stranger, created.Id)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	_, err = svc.Pause(f.ctx, stranger, created.Id)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(f.ctx, stranger, created.Id), apperror.ErrNotFound)

	require.NoError(t, svc.Delete(f.ctx, owner, created.Id))
	assert.Equal(t, events.SubscriptionDeleted, f.publisher.last().action)
	_, err = svc.Get(f.ctx, owner, created.Id)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestSubscriptionListFiltersAndPages(t *testing.T) {
	f := newServiceFixture(t)
	svc := newSubscriptionService(f)
	userId := uuid.New()
	f.subscribe(t, userId, f.monthly, entity.SubscriptionStatusActive, nil)
	f.subscribe(t, userId, f.yearly, entity.SubscriptionStatusActive, nil)
	f.subscribe(t, userId, f.yearly, entity.SubscriptionStatusPaused, nil)
	f.subscribe(t, uuid.New(), f.monthly, entity.SubscriptionStatusActive, nil)

	res, err := svc.List(f.ctx, userId, dto.SubscriptionListRequest{Status: "active", SortBy: "amount", SortOrder: "desc"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Total)
	require.Len(t, res.Subscriptions, 2)
	assert.Equal(t, f.yearly.Id, res.Subscriptions[0].PriceId)
	assert.Equal(t, f.monthly.Id, res.Subscriptions[1].PriceId)

	page, err := svc.List(f.ctx, userId, dto.SubscriptionListRequest{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 2, page.Limit)
	assert.Len(t, page.Subscriptions, 1)
}

func TestSubscriptionExpireDuePublishesEvents(t *testing.T) {
	f := newServiceFixture(t)
	svc := newSubscriptionService(f)
	userId := uuid.New()
	sub := f.subscribe(t, userId, f.monthly, entity.SubscriptionStatusActive, nil)

	end := f.now.AddDate(0, 0, -1)
	sub.EndDate = &end
	require.NoError(t, f.factory.NewUnitOfWork(f.ctx).SubscriptionRepository().Update(f.ctx, sub))
	f.subscribe(t, userId, f.yearly, entity.SubscriptionStatusActive, nil)

	count, err := svc.ExpireDue(f.ctx, f.now)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	audit := f.publisher.last()
	assert.Equal(t, events.SubscriptionExpired, audit.action)
	assert.Equal(t, sub.Id, audit.entityId)
	assert.Equal(t, userId, *audit.actor)

	again, err := svc.ExpireDue(f.ctx, f.now)
	require.NoError(t, err)
	assert.Zero(t, again)
}
