package integration

import (
	"context"
	"log"
	"testing"
	"time"

	"subtracker-be/internal/bootstrap"
	"subtracker-be/internal/config"
	"subtracker-be/internal/dto"
	"subtracker-be/internal/model"
	"subtracker-be/internal/pkg/logger"
	"subtracker-be/internal/repository/specification"
	"subtracker-be/internal/repository/unitofwork"
	"subtracker-be/pkg/admin/catalog"
	"subtracker-be/pkg/database"
	"subtracker-be/pkg/events"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openDB(t *testing.T) (*gorm.DB, *config.Config) {
	t.Helper()
	// Load .env from root
	if err := godotenv.Load("../../.env"); err != nil {
		log.Println("No .env file found, using system env")
	}
	cfg := config.Load()
	if cfg.Database.Connection == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, false)
	require.NoError(t, err, "Failed to connect to DB")
	return db, cfg
}

func TestGormConnection(t *testing.T) {
	db, _ := openDB(t)

	uow := unitofwork.NewRepositoryFactory(db).NewUnitOfWork(context.Background())
	assert.NotNil(t, uow.UserRepository())
	assert.NotNil(t, uow.SubscriptionRepository())

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.NoError(t, sqlDB.Ping())

	// Count implies the table and its columns exist
	for name, count := range map[string]func(context.Context, ...specification.Specification) (int64, error){
		"users":         uow.UserRepository().Count,
		"categories":    uow.CategoryRepository().Count,
		"subscriptions": uow.SubscriptionRepository().Count,
		"audit_logs":    uow.AuditLogRepository().Count,
	} {
		_, err := count(context.Background())
		assert.NoError(t, err, name)
	}
}

func TestSubscriptionLifecycleAgainstPostgres(t *testing.T) {
	db, cfg := openDB(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	container := bootstrap.NewContainerWithLogger(db, cfg, logger.NewNopLogger())
	defer container.Close()
	require.NoError(t, container.Start(ctx, false))

	// Catalog rows live under a unique slug so reruns do not collide
	suffix := uuid.NewString()[:8]
	manager := catalog.NewManager()
	uow := container.UowFactory.NewUnitOfWork(ctx)
	category, err := manager.CreateCategory(ctx, uow, dto.CreateCategoryRequest{Name: "Integration", Slug: "integration-" + suffix})
	require.NoError(t, err)
	product, err := manager.CreateProduct(ctx, uow, dto.CreateProductRequest{Name: "Integration", Slug: "integration-" + suffix, CategoryId: category.Id})
	require.NoError(t, err)

	plan, err := manager.CreatePlan(ctx, uow, dto.CreatePlanRequest{ProductId: product.Id, Name: "Standard"})
	require.NoError(t, err)
	price, err := manager.CreatePrice(ctx, uow, dto.CreatePriceRequest{PlanId: plan.Id, Amount: decimal.RequireFromString("12.50"), Currency: "USD", Interval: "monthly"})
	require.NoError(t, err)

	userId := uuid.New()
	require.NoError(t, db.Create(&model.User{
		Id:       userId,
		Email:    "integration-" + suffix + "@example.com",
		Role:     "end_user",
		Status:   "active",
		Currency: "USD",
		Locale:   "en",
	}).Error)

	defer func() {
		db.Exec("DELETE FROM audit_logs WHERE user_id = ?", userId)
		db.Exec("DELETE FROM subscriptions WHERE user_id = ?", userId)
		db.Exec("DELETE FROM users WHERE id = ?", userId)
		_, _ = manager.DeleteProduct(context.Background(), container.UowFactory.NewUnitOfWork(context.Background()), product.Id)
		_, _ = manager.DeleteCategory(context.Background(), container.UowFactory.NewUnitOfWork(context.Background()), category.Id)
	}()

	start := time.Now().AddDate(0, -1, 0)
	ended := time.Now().Add(-time.Hour)
	created, err := container.SubscriptionService.Create(ctx, userId, dto.CreateSubscriptionRequest{
		PlanId:    plan.Id,
		PriceId:   price.Id,
		StartDate: &start,
		EndDate:   &ended,
	})
	require.NoError(t, err)
	assert.Equal(t, "active", created.Status)

	paused, err := container.SubscriptionService.Pause(ctx, userId, created.Id)
	require.NoError(t, err)
	assert.Equal(t, "paused", paused.Status)

	expired, err := container.SubscriptionService.ExpireDue(ctx, time.Now())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, expired, 1)

	got, err := container.SubscriptionService.Get(ctx, userId, created.Id)
	require.NoError(t, err)
	assert.Equal(t, "expired", got.Status)

	assert.Eventually(t, func() bool {
		logs, err := container.UowFactory.NewUnitOfWork(ctx).AuditLogRepository().FindAll(ctx,
			specification.FilterBy{Field: "entity_id", Value: created.Id},
		)
		if err != nil {
			return false
		}
		actions := map[string]bool{}
		for _, l := range logs {
			actions[l.Action] = true
		}
		return actions[events.SubscriptionCreated] && actions[events.SubscriptionStatusChanged] && actions[events.SubscriptionExpired]
	}, 5*time.Second, 100*time.Millisecond)
}
