package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"subtracker-be/internal/entity"
	"subtracker-be/internal/pkg/logger"
	"subtracker-be/internal/pkg/serverutils"
	"subtracker-be/internal/repository/memory"
	"subtracker-be/internal/service"
	"subtracker-be/pkg/admin/catalog"
	"subtracker-be/pkg/admin/dashboard"
	"subtracker-be/pkg/lifecycle"
	"subtracker-be/pkg/provisioner"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "controller-test-secret"

type envelope struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Meta    *serverutils.Meta
	Error   *serverutils.ErrorDetail `json:"error"`
}

type testServer struct {
	app   *fiber.App
	store *memory.Store
	price *entity.Price
	admin *entity.User
	user  *entity.User
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()
	log := logger.NewNopLogger()
	store := memory.NewStore()
	factory := memory.NewRepositoryFactory(store)
	uow := factory.NewUnitOfWork(ctx)

	category := &entity.Category{Name: "Music", Slug: "music"}
	require.NoError(t, uow.CategoryRepository().Create(ctx, category))
	product := &entity.Product{Name: "Spotify", Slug: "spotify", CategoryId: category.Id, IsActive: true}
	require.NoError(t, uow.ProductRepository().Create(ctx, product))
	plan := &entity.Plan{ProductId: product.Id, Name: "Premium"}
	require.NoError(t, uow.PlanRepository().Create(ctx, plan))
	price := &entity.Price{PlanId: plan.Id, Amount: decimal.RequireFromString("10.99"), Currency: "USD", Interval: entity.BillingIntervalMonthly, IsActive: true}
	require.NoError(t, uow.PriceRepository().Create(ctx, price))

	admin := &entity.User{Email: "admin@example.com", Role: entity.UserRoleAdmin, Status: entity.UserStatusActive}
	store.PutUser(admin)
	user := &entity.User{Email: "user@example.com", Role: entity.UserRoleEndUser, Status: entity.UserStatusActive}
	store.PutUser(user)

	publisher := service.NewPublisherService(nil, nil, service.BreakerSettings{}, log)
	catalogService := service.NewCatalogService(factory, nil, time.Minute, log)
	userService := service.NewUserService(factory)

	app := fiber.New(fiber.Config{ErrorHandler: serverutils.ErrorHandlerMiddleware(log)})
	api := app.Group("/api")
	jwtMiddleware := serverutils.JwtMiddleware(testSecret)

	NewCatalogController(catalogService,
		service.NewCustomProductService(factory, provisioner.NewProvisioner(log), publisher, log),
	).RegisterRoutes(api, jwtMiddleware)
	NewSubscriptionController(
		service.NewSubscriptionService(factory, lifecycle.NewManager(log), publisher, log),
	).RegisterRoutes(api, jwtMiddleware)
	NewAnalyticsController(service.NewAnalyticsService(factory, "USD", log)).RegisterRoutes(api, jwtMiddleware)
	NewAdminController(
		service.NewAdminService(factory, log, catalog.NewManager(), dashboard.NewAggregator(log), publisher, catalogService),
		userService,
	).RegisterRoutes(api, jwtMiddleware)
	NewUserController(userService).RegisterRoutes(api, jwtMiddleware)

	return &testServer{app: app, store: store, price: price, admin: admin, user: user}
}

func token(t *testing.T, userId uuid.UUID) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userId.String(),
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := tok.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func (s *testServer) do(t *testing.T, method, path string, as *entity.User, body interface{}) (*http.Response, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if as != nil {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token(t, as.Id))
	}

	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)

	var out envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp, out
}

func TestPublicCatalogNeedsNoToken(t *testing.T) {
	s := newTestServer(t)

	resp, body := s.do(t, "GET", "/api/products", nil, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var products []map[string]interface{}
	require.NoError(t, json.Unmarshal(body.Data, &products))
	require.Len(t, products, 1)
	assert.Equal(t, "Spotify", products[0]["name"])

	resp, _ = s.do(t, "GET", "/api/products/spotify", nil, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, body = s.do(t, "GET", "/api/products/unknown", nil, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	require.NotNil(t, body.Error)

	resp, body = s.do(t, "GET", "/api/products?categoryId=nope", nil, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "categoryId", body.Error.Field)
}

func TestSubscriptionRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)

	resp, body := s.do(t, "GET", "/api/subscriptions", nil, nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	require.NotNil(t, body.Error)
	assert.Equal(t, 401, body.Error.Code)
}

func TestSubscriptionFlowOverHTTP(t *testing.T) {
	s := newTestServer(t)

	resp, body := s.do(t, "POST", "/api/subscriptions", s.user, map[string]interface{}{
		"planId":  s.price.PlanId,
		"priceId": s.price.Id,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var created struct {
		Id     uuid.UUID `json:"id"`
		Status string    `json:"status"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &created))
	assert.Equal(t, "active", created.Status)

	resp, body = s.do(t, "GET", "/api/subscriptions?status=active", s.user, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NotNil(t, body.Meta)
	assert.Equal(t, int64(1), body.Meta.Total)
	assert.Equal(t, 1, body.Meta.Page)
	assert.Equal(t, 20, body.Meta.Limit)

	resp, _ = s.do(t, "GET", "/api/subscriptions/"+created.Id.String(), s.admin, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, _ = s.do(t, "POST", "/api/subscriptions/"+created.Id.String()+"/cancel", s.user, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, body = s.do(t, "POST", "/api/subscriptions/"+created.Id.String()+"/resume", s.user, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	require.NotNil(t, body.Error)

	resp, _ = s.do(t, "DELETE", "/api/subscriptions/"+created.Id.String(), s.user, nil)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}

func TestSubscriptionValidationErrors(t *testing.T) {
	s := newTestServer(t)

	resp, body := s.do(t, "GET", "/api/subscriptions?limit=500", s.user, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "limit", body.Error.Field)

	resp, body = s.do(t, "GET", "/api/subscriptions/not-a-uuid", s.user, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "id", body.Error.Field)
}

func TestSubscriptionUpdateCannotSetExpired(t *testing.T) {
	s := newTestServer(t)

	resp, body := s.do(t, "POST", "/api/subscriptions", s.user, map[string]interface{}{
		"planId":  s.price.PlanId,
		"priceId": s.price.Id,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var created struct {
		Id uuid.UUID `json:"id"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &created))

	resp, body = s.do(t, "PUT", "/api/subscriptions/"+created.Id.String(), s.user, map[string]interface{}{"status": "expired"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	require.NotNil(t, body.Error)
	assert.Equal(t, "status", body.Error.Field)

	resp, _ = s.do(t, "PUT", "/api/subscriptions/"+created.Id.String(), s.user, map[string]interface{}{"status": "paused"})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestCustomProductOverHTTP(t *testing.T) {
	s := newTestServer(t)

	resp, _ := s.do(t, "POST", "/api/products/custom", nil, map[string]interface{}{"productName": "Gym"})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, body := s.do(t, "POST", "/api/products/custom", s.user, map[string]interface{}{
		"productName": "Gym",
		"amount":      "30",
		"currency":    "eur",
		"interval":    "monthly",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var created struct {
		ProductId uuid.UUID `json:"productId"`
		PriceId   uuid.UUID `json:"priceId"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &created))
	assert.NotEqual(t, uuid.Nil, created.ProductId)
	assert.NotEqual(t, uuid.Nil, created.PriceId)
}

func TestAdminRoutesCheckRole(t *testing.T) {
	s := newTestServer(t)

	resp, body := s.do(t, "GET", "/api/admin/stats", s.user, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	require.NotNil(t, body.Error)

	resp, body = s.do(t, "GET", "/api/admin/stats", s.admin, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var stats map[string]interface{}
	require.NoError(t, json.Unmarshal(body.Data, &stats))
	assert.Equal(t, float64(2), stats["totalUsers"])
	assert.Equal(t, float64(1), stats["totalProducts"])

	resp, _ = s.do(t, "PUT", "/api/admin/prices/"+s.price.Id.String(), s.admin, map[string]interface{}{
		"amount":       "11.99",
		"changeReason": "yearly increase",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, body = s.do(t, "GET", "/api/admin/prices/"+s.price.Id.String()+"/history", s.admin, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var history []map[string]interface{}
	require.NoError(t, json.Unmarshal(body.Data, &history))
	assert.Len(t, history, 1)
}

func TestAnalyticsOverHTTP(t *testing.T) {
	s := newTestServer(t)
	resp, _ := s.do(t, "POST", "/api/subscriptions", s.user, map[string]interface{}{
		"planId":  s.price.PlanId,
		"priceId": s.price.Id,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, body := s.do(t, "GET", "/api/analytics/dashboard", s.user, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var stats struct {
		ActiveSubscriptions int64  `json:"activeSubscriptions"`
		MonthlySpending     string `json:"monthlySpending"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &stats))
	assert.Equal(t, int64(1), stats.ActiveSubscriptions)
	assert.Equal(t, "10.99", stats.MonthlySpending)

	resp, _ = s.do(t, "GET", "/api/analytics/spending?type=category", s.user, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, body = s.do(t, "GET", "/api/analytics/spending?type=forecast", s.user, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "type", body.Error.Field)
}
