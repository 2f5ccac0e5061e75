package service

import (
	"errors"
	"testing"
	"time"

	"subtracker-be/internal/dto"
	"subtracker-be/internal/entity"
	"subtracker-be/internal/pkg/apperror"
	"subtracker-be/internal/repository/memory"
	"subtracker-be/internal/repository/specification"
	"subtracker-be/pkg/admin/catalog"
	"subtracker-be/pkg/admin/dashboard"
	"subtracker-be/pkg/events"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type adminFixture struct {
	*serviceFixture
	admin   IAdminService
	catalog ICatalogService
	actor   uuid.UUID
}

func newAdminFixture(t *testing.T) *adminFixture {
	f := newServiceFixture(t)
	catalogSvc := NewCatalogService(f.factory, memory.NewCatalogCache(time.Minute), time.Minute, f.log)
	manager := catalog.NewManager().WithClock(func() time.Time { return f.now })
	admin := NewAdminService(f.factory, f.log, manager, dashboard.NewAggregator(f.log), f.publisher, catalogSvc)
	return &adminFixture{serviceFixture: f, admin: admin, catalog: catalogSvc, actor: uuid.New()}
}

func requireValidationField(t *testing.T, err error, field string) {
	t.Helper()
	var vErr *apperror.ValidationError
	require.True(t, errors.As(err, &vErr), "expected validation error, got %v", err)
	assert.Equal(t, field, vErr.Field)
}

func TestAdminCreateCategory(t *testing.T) {
	f := newAdminFixture(t)

	created, err := f.admin.CreateCategory(f.ctx, f.actor, dto.CreateCategoryRequest{Name: " Music ", Slug: "music"})
	require.NoError(t, err)
	assert.Equal(t, "Music", created.Name)

	audit := f.publisher.last()
	assert.Equal(t, events.CategoryCreated, audit.action)
	assert.Equal(t, "category", audit.entityType)
	assert.Equal(t, created.Id, audit.entityId)
	require.NotNil(t, audit.actor)
	assert.Equal(t, f.actor, *audit.actor)
	assert.Nil(t, audit.oldValues)
	assert.Equal(t, "music", audit.newValues["slug"])

	_, err = f.admin.CreateCategory(f.ctx, f.actor, dto.CreateCategoryRequest{Name: "Music again", Slug: "music"})
	requireValidationField(t, err, "slug")

	missing := uuid.New()
	_, err = f.admin.CreateCategory(f.ctx, f.actor, dto.CreateCategoryRequest{Name: "Sub", Slug: "sub", ParentId: &missing})
	requireValidationField(t, err, "parentId")
}

func TestAdminUpdateCategoryRejectsSelfParent(t *testing.T) {
	f := newAdminFixture(t)
	self := f.streaming.Id

	_, err := f.admin.UpdateCategory(f.ctx, f.actor, self, dto.UpdateCategoryRequest{ParentId: &self})
	requireValidationField(t, err, "parentId")

	_, err = f.admin.UpdateCategory(f.ctx, f.actor, uuid.New(), dto.UpdateCategoryRequest{})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestAdminDeleteCategory(t *testing.T) {
	f := newAdminFixture(t)

	err := f.admin.DeleteCategory(f.ctx, f.actor, f.streaming.Id)
	requireValidationField(t, err, "id")

	empty, err := f.admin.CreateCategory(f.ctx, f.actor, dto.CreateCategoryRequest{Name: "Empty", Slug: "empty"})
	require.NoError(t, err)
	require.NoError(t, f.admin.DeleteCategory(f.ctx, f.actor, empty.Id))
	assert.Equal(t, events.CategoryDeleted, f.publisher.last().action)

	custom := &entity.Category{Name: "Custom", Slug: entity.CustomCategorySlug}
	require.NoError(t, f.factory.NewUnitOfWork(f.ctx).CategoryRepository().Create(f.ctx, custom))
	err = f.admin.DeleteCategory(f.ctx, f.actor, custom.Id)
	requireValidationField(t, err, "id")
}

func TestAdminUpdatePriceAppendsHistory(t *testing.T) {
	f := newAdminFixture(t)
	newAmount := decimal.RequireFromString("17.99")
	reason := "yearly increase"

	updated, err := f.admin.UpdatePrice(f.ctx, f.actor, f.monthly.Id, dto.UpdatePriceRequest{Amount: &newAmount, ChangeReason: &reason})
	require.NoError(t, err)
	assert.True(t, newAmount.Equal(updated.Amount))

	history, err := f.admin.GetPriceHistory(f.ctx, f.monthly.Id)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "15.49", history[0].OldAmount.StringFixed(2))
	assert.Equal(t, "17.99", history[0].NewAmount.StringFixed(2))
	require.NotNil(t, history[0].ChangeReason)
	assert.Equal(t, reason, *history[0].ChangeReason)
	assert.True(t, f.now.Equal(history[0].EffectiveDate))

	audit := f.publisher.last()
	assert.Equal(t, events.PriceUpdated, audit.action)
	assert.Equal(t, "15.49", audit.oldValues["amount"])
	assert.Equal(t, "17.99", audit.newValues["amount"])
}

func TestAdminUpdatePriceWithoutAmountChangeKeepsHistory(t *testing.T) {
	f := newAdminFixture(t)
	inactive := false
	same := decimal.RequireFromString("15.490")

	_, err := f.admin.UpdatePrice(f.ctx, f.actor, f.monthly.Id, dto.UpdatePriceRequest{Amount: &same, IsActive: &inactive})
	require.NoError(t, err)

	history, err := f.admin.GetPriceHistory(f.ctx, f.monthly.Id)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestAdminUpdatePriceRejectsNegativeAmount(t *testing.T) {
	f := newAdminFixture(t)
	negative := decimal.RequireFromString("-1")

	_, err := f.admin.UpdatePrice(f.ctx, f.actor, f.monthly.Id, dto.UpdatePriceRequest{Amount: &negative})
	requireValidationField(t, err, "amount")

	price, err := f.factory.NewUnitOfWork(f.ctx).PriceRepository().FindOne(f.ctx, specification.ByID{ID: f.monthly.Id})
	require.NoError(t, err)
	assert.Equal(t, "15.49", price.Amount.StringFixed(2))
}

func TestAdminCreatePriceNormalizesCurrency(t *testing.T) {
	f := newAdminFixture(t)

	price, err := f.admin.CreatePrice(f.ctx, f.actor, dto.CreatePriceRequest{
		PlanId:   f.standard.Id,
		Amount:   decimal.RequireFromString("149.99"),
		Currency: "usd",
		Interval: "yearly",
	})
	require.NoError(t, err)
	assert.Equal(t, "USD", price.Currency)
	assert.True(t, price.IsActive)

	_, err = f.admin.CreatePrice(f.ctx, f.actor, dto.CreatePriceRequest{PlanId: uuid.New(), Currency: "USD", Interval: "monthly"})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestAdminDeleteProductCascades(t *testing.T) {
	f := newAdminFixture(t)

	require.NoError(t, f.admin.DeleteProduct(f.ctx, f.actor, f.office.Id))

	uow := f.factory.NewUnitOfWork(f.ctx)
	plan, err := uow.PlanRepository().FindOne(f.ctx, specification.ByID{ID: f.family.Id})
	require.NoError(t, err)
	assert.Nil(t, plan)
	price, err := uow.PriceRepository().FindOne(f.ctx, specification.ByID{ID: f.yearly.Id})
	require.NoError(t, err)
	assert.Nil(t, price)
	assert.Equal(t, events.ProductDeleted, f.publisher.last().action)
}

func TestAdminDeleteProductInUseIsRefused(t *testing.T) {
	f := newAdminFixture(t)
	f.subscribe(t, uuid.New(), f.monthly, entity.SubscriptionStatusActive, nil)

	err := f.admin.DeleteProduct(f.ctx, f.actor, f.netflix.Id)
	requireValidationField(t, err, "id")

	err = f.admin.DeletePlan(f.ctx, f.actor, f.standard.Id)
	requireValidationField(t, err, "id")

	err = f.admin.DeletePrice(f.ctx, f.actor, f.monthly.Id)
	requireValidationField(t, err, "id")

	product, err := f.factory.NewUnitOfWork(f.ctx).ProductRepository().FindOne(f.ctx, specification.ByID{ID: f.netflix.Id})
	require.NoError(t, err)
	assert.NotNil(t, product)
	assert.Empty(t, f.publisher.actions())
}

func TestAdminWritesInvalidateCatalogCache(t *testing.T) {
	f := newAdminFixture(t)

	before, err := f.catalog.ListProducts(f.ctx, dto.ProductListRequest{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Netflix", "Office"}, productNames(before))

	name := "Microsoft 365"
	_, err = f.admin.UpdateProduct(f.ctx, f.actor, f.office.Id, dto.UpdateProductRequest{Name: &name})
	require.NoError(t, err)

	after, err := f.catalog.ListProducts(f.ctx, dto.ProductListRequest{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Microsoft 365", "Netflix"}, productNames(after))
}

func TestAdminCreateProductRequiresCategory(t *testing.T) {
	f := newAdminFixture(t)

	_, err := f.admin.CreateProduct(f.ctx, f.actor, dto.CreateProductRequest{Name: "Hulu", Slug: "hulu", CategoryId: uuid.New()})
	requireValidationField(t, err, "categoryId")

	_, err = f.admin.CreateProduct(f.ctx, f.actor, dto.CreateProductRequest{Name: "Netflix 2", Slug: "netflix", CategoryId: f.streaming.Id})
	requireValidationField(t, err, "slug")

	product, err := f.admin.CreateProduct(f.ctx, f.actor, dto.CreateProductRequest{Name: "Hulu", Slug: "hulu", CategoryId: f.streaming.Id})
	require.NoError(t, err)
	assert.True(t, product.IsActive)
	assert.False(t, product.IsCustom)
}

func TestAdminStats(t *testing.T) {
	f := newAdminFixture(t)
	active := f.user(t, "a@example.com", entity.UserRoleEndUser, entity.UserStatusActive, "USD")
	f.user(t, "b@example.com", entity.UserRoleEndUser, entity.UserStatusActive, "USD")
	f.user(t, "c@example.com", entity.UserRoleEndUser, entity.UserStatusBlocked, "USD")
	f.subscribe(t, active.Id, f.monthly, entity.SubscriptionStatusActive, nil)
	f.subscribe(t, active.Id, f.yearly, entity.SubscriptionStatusCancelled, nil)

	stats, err := f.admin.GetStats(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, &dto.AdminStatsResponse{
		TotalUsers:          3,
		ActiveUsers:         2,
		TotalSubscriptions:  2,
		ActiveSubscriptions: 1,
		TotalProducts:       2,
		TotalCategories:     2,
	}, stats)
}

func TestAdminAuditLogs(t *testing.T) {
	f := newAdminFixture(t)
	uow := f.factory.NewUnitOfWork(f.ctx)
	for i := 0; i < 3; i++ {
		require.NoError(t, uow.AuditLogRepository().Create(f.ctx, &entity.AuditLog{
			Action:     events.PriceUpdated,
			EntityType: "price",
			EntityId:   uuid.New(),
			CreatedAt:  f.now.Add(time.Duration(i) * time.Minute),
		}))
	}
	require.NoError(t, uow.AuditLogRepository().Create(f.ctx, &entity.AuditLog{
		Action:     events.SubscriptionCreated,
		EntityType: "subscription",
		EntityId:   uuid.New(),
		CreatedAt:  f.now,
	}))

	page, err := f.admin.GetAuditLogs(f.ctx, dto.AuditLogListRequest{EntityType: "price", Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, 1, page.Page)
	require.Len(t, page.Logs, 2)
	assert.True(t, page.Logs[0].CreatedAt.After(page.Logs[1].CreatedAt))

	all, err := f.admin.GetAuditLogs(f.ctx, dto.AuditLogListRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(4), all.Total)
	assert.Equal(t, 20, all.Limit)
}

func TestAdminSystemLogsWithoutFile(t *testing.T) {
	f := newAdminFixture(t)

	logs, err := f.admin.GetSystemLogs(f.ctx, dto.SystemLogListRequest{})
	require.NoError(t, err)
	assert.Empty(t, logs)
}
