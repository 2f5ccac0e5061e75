package catalog

import (
	"context"
	"strings"
	"time"

	"subtracker-be/internal/dto"
	"subtracker-be/internal/entity"
	"subtracker-be/internal/pkg/apperror"
	"subtracker-be/internal/repository/specification"
	"subtracker-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// Manager handles catalog writes for administrators. Callers own the unit of work;
// UpdatePrice expects to run inside Begin/Commit so the history row lands with the price.
type Manager struct {
	now func() time.Time
}

// NewManager creates a new catalog manager
func NewManager() *Manager {
	return &Manager{now: time.Now}
}

func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

// --- Categories ---

func (m *Manager) CreateCategory(ctx context.Context, uow unitofwork.UnitOfWork, req dto.CreateCategoryRequest) (*entity.Category, error) {
	if err := m.ensureCategorySlugFree(ctx, uow, req.Slug, uuid.Nil); err != nil {
		return nil, err
	}
	if req.ParentId != nil {
		if err := m.ensureCategoryExists(ctx, uow, *req.ParentId, "parentId"); err != nil {
			return nil, err
		}
	}

	category := &entity.Category{
		Name:     strings.TrimSpace(req.Name),
		Slug:     req.Slug,
		Icon:     req.Icon,
		Color:    req.Color,
		ParentId: req.ParentId,
	}
	if err := uow.CategoryRepository().Create(ctx, category); err != nil {
		return nil, apperror.Store("create category", err)
	}
	return category, nil
}

// UpdateCategory returns the row before and after the change
func (m *Manager) UpdateCategory(ctx context.Context, uow unitofwork.UnitOfWork, id uuid.UUID, req dto.UpdateCategoryRequest) (*entity.Category, *entity.Category, error) {
	before, err := m.findCategory(ctx, uow, id)
	if err != nil {
		return nil, nil, err
	}
	after := *before

	if req.Name != nil {
		after.Name = strings.TrimSpace(*req.Name)
	}
	if req.Slug != nil && *req.Slug != before.Slug {
		if before.Slug == entity.CustomCategorySlug {
			return nil, nil, apperror.NewValidation("slug", "the custom category slug is reserved")
		}
		if err := m.ensureCategorySlugFree(ctx, uow, *req.Slug, id); err != nil {
			return nil, nil, err
		}
		after.Slug = *req.Slug
	}
	if req.Icon != nil {
		after.Icon = req.Icon
	}
	if req.Color != nil {
		after.Color = req.Color
	}
	if req.ParentId != nil {
		if *req.ParentId == id {
			return nil, nil, apperror.NewValidation("parentId", "a category cannot be its own parent")
		}
		if err := m.ensureCategoryExists(ctx, uow, *req.ParentId, "parentId"); err != nil {
			return nil, nil, err
		}
		after.ParentId = req.ParentId
	}

	if err := uow.CategoryRepository().Update(ctx, &after); err != nil {
		return nil, nil, apperror.Store("update category", err)
	}
	return before, &after, nil
}

func (m *Manager) DeleteCategory(ctx context.Context, uow unitofwork.UnitOfWork, id uuid.UUID) (*entity.Category, error) {
	category, err := m.findCategory(ctx, uow, id)
	if err != nil {
		return nil, err
	}
	if category.Slug == entity.CustomCategorySlug {
		return nil, apperror.NewValidation("id", "the custom category cannot be deleted")
	}

	products, err := uow.ProductRepository().Count(ctx, specification.ByCategoryID{CategoryID: id})
	if err != nil {
		return nil, apperror.Store("count products", err)
	}
	if products > 0 {
		return nil, apperror.NewValidation("id", "category still has products")
	}

	if err := uow.CategoryRepository().Delete(ctx, id); err != nil {
		return nil, apperror.Store("delete category", err)
	}
	return category, nil
}

// --- Products ---

func (m *Manager) CreateProduct(ctx context.Context, uow unitofwork.UnitOfWork, req dto.CreateProductRequest) (*entity.Product, error) {
	if err := m.ensureProductSlugFree(ctx, uow, req.Slug, uuid.Nil); err != nil {
		return nil, err
	}
	if err := m.ensureCategoryExists(ctx, uow, req.CategoryId, "categoryId"); err != nil {
		return nil, err
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	product := &entity.Product{
		Name:        strings.TrimSpace(req.Name),
		Slug:        req.Slug,
		Description: req.Description,
		LogoURL:     req.LogoURL,
		WebsiteURL:  req.WebsiteURL,
		CategoryId:  req.CategoryId,
		IsActive:    isActive,
	}
	if product.Description == nil {
		product.Description = map[string]string{}
	}
	if err := uow.ProductRepository().Create(ctx, product); err != nil {
		return nil, apperror.Store("create product", err)
	}
	return product, nil
}

func (m *Manager) UpdateProduct(ctx context.Context, uow unitofwork.UnitOfWork, id uuid.UUID, req dto.UpdateProductRequest) (*entity.Product, *entity.Product, error) {
	before, err := m.findProduct(ctx, uow, id)
	if err != nil {
		return nil, nil, err
	}
	after := *before
	after.Category = nil
	after.Plans = nil

	if req.Name != nil {
		after.Name = strings.TrimSpace(*req.Name)
	}
	if req.Slug != nil && *req.Slug != before.Slug {
		if err := m.ensureProductSlugFree(ctx, uow, *req.Slug, id); err != nil {
			return nil, nil, err
		}
		after.Slug = *req.Slug
	}
	if req.Description != nil {
		after.Description = *req.Description
	}
	if req.LogoURL != nil {
		after.LogoURL = req.LogoURL
	}
	if req.WebsiteURL != nil {
		after.WebsiteURL = req.WebsiteURL
	}
	if req.CategoryId != nil {
		if err := m.ensureCategoryExists(ctx, uow, *req.CategoryId, "categoryId"); err != nil {
			return nil, nil, err
		}
		after.CategoryId = *req.CategoryId
	}
	if req.IsActive != nil {
		after.IsActive = *req.IsActive
	}

	if err := uow.ProductRepository().Update(ctx, &after); err != nil {
		return nil, nil, apperror.Store("update product", err)
	}
	return before, &after, nil
}

// DeleteProduct removes the product with its plans and prices. It refuses while any
// subscription still points at one of its plans.
func (m *Manager) DeleteProduct(ctx context.Context, uow unitofwork.UnitOfWork, id uuid.UUID) (*entity.Product, error) {
	product, err := m.findProduct(ctx, uow, id)
	if err != nil {
		return nil, err
	}

	plans, err := uow.PlanRepository().FindAll(ctx, specification.ByProductID{ProductID: id})
	if err != nil {
		return nil, apperror.Store("find plans", err)
	}
	for _, plan := range plans {
		if err := m.ensurePlanUnused(ctx, uow, plan.Id); err != nil {
			return nil, err
		}
	}
	for _, plan := range plans {
		if err := m.deletePlanCascade(ctx, uow, plan.Id); err != nil {
			return nil, err
		}
	}

	if err := uow.ProductRepository().Delete(ctx, id); err != nil {
		return nil, apperror.Store("delete product", err)
	}
	product.Plans = nil
	product.Category = nil
	return product, nil
}

// --- Plans ---

func (m *Manager) CreatePlan(ctx context.Context, uow unitofwork.UnitOfWork, req dto.CreatePlanRequest) (*entity.Plan, error) {
	if _, err := m.findProduct(ctx, uow, req.ProductId); err != nil {
		return nil, err
	}
	features := req.Features
	if features == nil {
		features = []string{}
	}
	plan := &entity.Plan{
		ProductId:   req.ProductId,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Features:    features,
	}
	if err := uow.PlanRepository().Create(ctx, plan); err != nil {
		return nil, apperror.Store("create plan", err)
	}
	return plan, nil
}

func (m *Manager) UpdatePlan(ctx context.Context, uow unitofwork.UnitOfWork, id uuid.UUID, req dto.UpdatePlanRequest) (*entity.Plan, *entity.Plan, error) {
	before, err := m.findPlan(ctx, uow, id)
	if err != nil {
		return nil, nil, err
	}
	after := *before

	if req.Name != nil {
		after.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		after.Description = req.Description
	}
	if req.Features != nil {
		after.Features = append([]string{}, (*req.Features)...)
	}

	if err := uow.PlanRepository().Update(ctx, &after); err != nil {
		return nil, nil, apperror.Store("update plan", err)
	}
	return before, &after, nil
}

func (m *Manager) DeletePlan(ctx context.Context, uow unitofwork.UnitOfWork, id uuid.UUID) (*entity.Plan, error) {
	plan, err := m.findPlan(ctx, uow, id)
	if err != nil {
		return nil, err
	}
	if err := m.ensurePlanUnused(ctx, uow, id); err != nil {
		return nil, err
	}
	if err := m.deletePlanCascade(ctx, uow, id); err != nil {
		return nil, err
	}
	return plan, nil
}

// --- Prices ---

func (m *Manager) CreatePrice(ctx context.Context, uow unitofwork.UnitOfWork, req dto.CreatePriceRequest) (*entity.Price, error) {
	if req.Amount.IsNegative() {
		return nil, apperror.NewValidation("amount", "must be zero or greater")
	}
	if _, err := m.findPlan(ctx, uow, req.PlanId); err != nil {
		return nil, err
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	price := &entity.Price{
		PlanId:   req.PlanId,
		Amount:   req.Amount,
		Currency: strings.ToUpper(req.Currency),
		Interval: entity.BillingInterval(req.Interval),
		IsActive: isActive,
	}
	if err := uow.PriceRepository().Create(ctx, price); err != nil {
		return nil, apperror.Store("create price", err)
	}
	return price, nil
}

// UpdatePrice appends a PriceHistory row whenever the amount moves.
func (m *Manager) UpdatePrice(ctx context.Context, uow unitofwork.UnitOfWork, id uuid.UUID, req dto.UpdatePriceRequest) (*entity.Price, *entity.Price, error) {
	before, err := m.findPrice(ctx, uow, id)
	if err != nil {
		return nil, nil, err
	}
	after := *before

	if req.Amount != nil {
		if req.Amount.IsNegative() {
			return nil, nil, apperror.NewValidation("amount", "must be zero or greater")
		}
		after.Amount = *req.Amount
	}
	if req.Currency != nil {
		after.Currency = strings.ToUpper(*req.Currency)
	}
	if req.Interval != nil {
		after.Interval = entity.BillingInterval(*req.Interval)
	}
	if req.IsActive != nil {
		after.IsActive = *req.IsActive
	}

	if err := uow.PriceRepository().Update(ctx, &after); err != nil {
		return nil, nil, apperror.Store("update price", err)
	}

	if !after.Amount.Equal(before.Amount) {
		now := m.now()
		history := &entity.PriceHistory{
			PriceId:       id,
			OldAmount:     before.Amount,
			NewAmount:     after.Amount,
			ChangeReason:  req.ChangeReason,
			EffectiveDate: now,
			CreatedAt:     now,
		}
		if err := uow.PriceHistoryRepository().Create(ctx, history); err != nil {
			return nil, nil, apperror.Store("append price history", err)
		}
	}
	return before, &after, nil
}

func (m *Manager) DeletePrice(ctx context.Context, uow unitofwork.UnitOfWork, id uuid.UUID) (*entity.Price, error) {
	price, err := m.findPrice(ctx, uow, id)
	if err != nil {
		return nil, err
	}
	used, err := uow.SubscriptionRepository().Count(ctx, specification.ByPriceID{PriceID: id})
	if err != nil {
		return nil, apperror.Store("count subscriptions", err)
	}
	if used > 0 {
		return nil, apperror.NewValidation("id", "price is used by subscriptions, deactivate it instead")
	}
	if err := uow.PriceRepository().Delete(ctx, id); err != nil {
		return nil, apperror.Store("delete price", err)
	}
	return price, nil
}

// PriceHistory lists a price's changes, newest first
func (m *Manager) PriceHistory(ctx context.Context, uow unitofwork.UnitOfWork, priceId uuid.UUID) ([]*entity.PriceHistory, error) {
	if _, err := m.findPrice(ctx, uow, priceId); err != nil {
		return nil, err
	}
	history, err := uow.PriceHistoryRepository().FindAll(ctx,
		specification.ByPriceID{PriceID: priceId},
		specification.OrderBy{Field: "effective_date", Desc: true},
	)
	if err != nil {
		return nil, apperror.Store("find price history", err)
	}
	return history, nil
}

// --- helpers ---

func (m *Manager) findCategory(ctx context.Context, uow unitofwork.UnitOfWork, id uuid.UUID) (*entity.Category, error) {
	category, err := uow.CategoryRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, apperror.Store("find category", err)
	}
	if category == nil {
		return nil, apperror.NewNotFound("category")
	}
	return category, nil
}

func (m *Manager) findProduct(ctx context.Context, uow unitofwork.UnitOfWork, id uuid.UUID) (*entity.Product, error) {
	product, err := uow.ProductRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, apperror.Store("find product", err)
	}
	if product == nil {
		return nil, apperror.NewNotFound("product")
	}
	return product, nil
}

func (m *Manager) findPlan(ctx context.Context, uow unitofwork.UnitOfWork, id uuid.UUID) (*entity.Plan, error) {
	plan, err := uow.PlanRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, apperror.Store("find plan", err)
	}
	if plan == nil {
		return nil, apperror.NewNotFound("plan")
	}
	return plan, nil
}

func (m *Manager) findPrice(ctx context.Context, uow unitofwork.UnitOfWork, id uuid.UUID) (*entity.Price, error) {
	price, err := uow.PriceRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, apperror.Store("find price", err)
	}
	if price == nil {
		return nil, apperror.NewNotFound("price")
	}
	return price, nil
}

func (m *Manager) ensureCategoryExists(ctx context.Context, uow unitofwork.UnitOfWork, id uuid.UUID, field string) error {
	category, err := uow.CategoryRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return apperror.Store("find category", err)
	}
	if category == nil {
		return apperror.NewValidation(field, "category does not exist")
	}
	return nil
}

func (m *Manager) ensureCategorySlugFree(ctx context.Context, uow unitofwork.UnitOfWork, slug string, self uuid.UUID) error {
	existing, err := uow.CategoryRepository().FindOne(ctx, specification.BySlug{Slug: slug})
	if err != nil {
		return apperror.Store("find category", err)
	}
	if existing != nil && existing.Id != self {
		return apperror.NewValidation("slug", "slug already in use")
	}
	return nil
}

func (m *Manager) ensureProductSlugFree(ctx context.Context, uow unitofwork.UnitOfWork, slug string, self uuid.UUID) error {
	existing, err := uow.ProductRepository().FindOne(ctx, specification.BySlug{Slug: slug})
	if err != nil {
		return apperror.Store("find product", err)
	}
	if existing != nil && existing.Id != self {
		return apperror.NewValidation("slug", "slug already in use")
	}
	return nil
}

func (m *Manager) ensurePlanUnused(ctx context.Context, uow unitofwork.UnitOfWork, planId uuid.UUID) error {
	used, err := uow.SubscriptionRepository().Count(ctx, specification.ByPlanID{PlanID: planId})
	if err != nil {
		return apperror.Store("count subscriptions", err)
	}
	if used > 0 {
		return apperror.NewValidation("id", "plan is used by subscriptions")
	}
	return nil
}

func (m *Manager) deletePlanCascade(ctx context.Context, uow unitofwork.UnitOfWork, planId uuid.UUID) error {
	prices, err := uow.PriceRepository().FindAll(ctx, specification.ByPlanID{PlanID: planId})
	if err != nil {
		return apperror.Store("find prices", err)
	}
	for _, price := range prices {
		if err := uow.PriceRepository().Delete(ctx, price.Id); err != nil {
			return apperror.Store("delete price", err)
		}
	}
	if err := uow.PlanRepository().Delete(ctx, planId); err != nil {
		return apperror.Store("delete plan", err)
	}
	return nil
}
