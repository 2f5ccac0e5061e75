package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"subtracker-be/internal/entity"
	"subtracker-be/internal/pkg/logger"
	"subtracker-be/internal/repository/memory"
	"subtracker-be/internal/repository/unitofwork"
	"subtracker-be/pkg/events"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type recordedAudit struct {
	action     string
	actor      *uuid.UUID
	entityType string
	entityId   uuid.UUID
	oldValues  map[string]interface{}
	newValues  map[string]interface{}
}

type recordingPublisher struct {
	mu     sync.Mutex
	audits []recordedAudit
}

func (p *recordingPublisher) Publish(ctx context.Context, event events.Event) {}

func (p *recordingPublisher) Audit(ctx context.Context, action string, actor *uuid.UUID, entityType string, entityId uuid.UUID, oldValues, newValues map[string]interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.audits = append(p.audits, recordedAudit{
		action:     action,
		actor:      actor,
		entityType: entityType,
		entityId:   entityId,
		oldValues:  oldValues,
		newValues:  newValues,
	})
}

func (p *recordingPublisher) actions() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.audits))
	for i, a := range p.audits {
		out[i] = a.action
	}
	return out
}

func (p *recordingPublisher) last() recordedAudit {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.audits[len(p.audits)-1]
}

// serviceFixture seeds a small catalog:
// Streaming > Netflix > Standard (15.49 USD monthly) and Software > Office > Family (99.99 USD yearly)
type serviceFixture struct {
	ctx       context.Context
	store     *memory.Store
	factory   unitofwork.RepositoryFactory
	publisher *recordingPublisher
	log       logger.ILogger
	now       time.Time

	streaming *entity.Category
	software  *entity.Category
	netflix   *entity.Product
	office    *entity.Product
	standard  *entity.Plan
	family    *entity.Plan
	monthly   *entity.Price
	yearly    *entity.Price
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	factory := memory.NewRepositoryFactory(store)
	uow := factory.NewUnitOfWork(ctx)

	f := &serviceFixture{
		ctx:       ctx,
		store:     store,
		factory:   factory,
		publisher: &recordingPublisher{},
		log:       logger.NewNopLogger(),
		now:       time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	red := "#E50914"
	f.streaming = &entity.Category{Name: "Streaming", Slug: "streaming", Color: &red}
	require.NoError(t, uow.CategoryRepository().Create(ctx, f.streaming))
	f.software = &entity.Category{Name: "Software", Slug: "software"}
	require.NoError(t, uow.CategoryRepository().Create(ctx, f.software))

	f.netflix = &entity.Product{Name: "Netflix", Slug: "netflix", CategoryId: f.streaming.Id, IsActive: true}
	require.NoError(t, uow.ProductRepository().Create(ctx, f.netflix))
	f.office = &entity.Product{Name: "Office", Slug: "office", CategoryId: f.software.Id, IsActive: true}
	require.NoError(t, uow.ProductRepository().Create(ctx, f.office))

	f.standard = &entity.Plan{ProductId: f.netflix.Id, Name: "Standard"}
	require.NoError(t, uow.PlanRepository().Create(ctx, f.standard))
	f.family = &entity.Plan{ProductId: f.office.Id, Name: "Family"}
	require.NoError(t, uow.PlanRepository().Create(ctx, f.family))

	f.monthly = &entity.Price{PlanId: f.standard.Id, Amount: decimal.RequireFromString("15.49"), Currency: "USD", Interval: entity.BillingIntervalMonthly, IsActive: true}
	require.NoError(t, uow.PriceRepository().Create(ctx, f.monthly))
	f.yearly = &entity.Price{PlanId: f.family.Id, Amount: decimal.RequireFromString("99.99"), Currency: "USD", Interval: entity.BillingIntervalYearly, IsActive: true}
	require.NoError(t, uow.PriceRepository().Create(ctx, f.yearly))

	return f
}

// subscribe stores a subscription directly, bypassing the lifecycle rules
func (f *serviceFixture) subscribe(t *testing.T, userId uuid.UUID, price *entity.Price, status entity.SubscriptionStatus, nextBilling *time.Time) *entity.Subscription {
	t.Helper()
	sub := &entity.Subscription{
		UserId:          userId,
		PlanId:          price.PlanId,
		PriceId:         price.Id,
		Status:          status,
		StartDate:       f.now.AddDate(0, -1, 0),
		NextBillingDate: nextBilling,
	}
	require.NoError(t, f.factory.NewUnitOfWork(f.ctx).SubscriptionRepository().Create(f.ctx, sub))
	return sub
}

func (f *serviceFixture) user(t *testing.T, email string, role entity.UserRole, status entity.UserStatus, currency string) *entity.User {
	t.Helper()
	u := &entity.User{Email: email, Role: role, Status: status, Currency: currency, Locale: "en"}
	f.store.PutUser(u)
	return u
}

func (f *serviceFixture) days(n int) *time.Time {
	t := f.now.AddDate(0, 0, n)
	return &t
}
