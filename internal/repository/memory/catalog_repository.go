package memory

import (
	"context"

	"subtracker-be/internal/entity"
	"subtracker-be/internal/repository/contract"
	"subtracker-be/internal/repository/specification"

	"github.com/google/uuid"
)

// Categories

type categoryRepository struct {
	store *Store
}

func NewCategoryRepository(store *Store) contract.CategoryRepository {
	return &categoryRepository{store: store}
}

func categoryRow(c *entity.Category) row {
	return row{
		"id":         c.Id,
		"name":       c.Name,
		"slug":       c.Slug,
		"parent_id":  c.ParentId,
		"created_at": c.CreatedAt,
		"updated_at": c.UpdatedAt,
	}
}

func (r *categoryRepository) Create(ctx context.Context, category *entity.Category) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, existing := range r.store.categories {
		if existing.Slug == category.Slug {
			return errDuplicate("categories", "slug")
		}
	}
	r.store.stamp(&category.Id, &category.CreatedAt, &category.UpdatedAt)
	r.store.categories[category.Id] = cloneCategory(category)
	return nil
}

func (r *categoryRepository) Update(ctx context.Context, category *entity.Category) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for id, existing := range r.store.categories {
		if id != category.Id && existing.Slug == category.Slug {
			return errDuplicate("categories", "slug")
		}
	}
	r.store.stamp(&category.Id, &category.CreatedAt, &category.UpdatedAt)
	r.store.categories[category.Id] = cloneCategory(category)
	return nil
}

func (r *categoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.categories, id)
	return nil
}

func (r *categoryRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Category, error) {
	all, err := r.FindAll(ctx, specs...)
	if err != nil || len(all) == 0 {
		return nil, err
	}
	return all[0], nil
}

func (r *categoryRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Category, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	found, err := query(values(r.store.categories), categoryRow, specs)
	if err != nil {
		return nil, err
	}
	out := make([]*entity.Category, len(found))
	for i, c := range found {
		out[i] = cloneCategory(c)
	}
	return out, nil
}

func (r *categoryRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, err := r.FindAll(ctx, specs...)
	return int64(len(all)), err
}

// Products

type productRepository struct {
	store *Store
}

func NewProductRepository(store *Store) contract.ProductRepository {
	return &productRepository{store: store}
}

func productRow(p *entity.Product) row {
	return row{
		"id":          p.Id,
		"name":        p.Name,
		"slug":        p.Slug,
		"category_id": p.CategoryId,
		"is_active":   p.IsActive,
		"is_custom":   p.IsCustom,
		"created_at":  p.CreatedAt,
		"updated_at":  p.UpdatedAt,
	}
}

func (r *productRepository) Create(ctx context.Context, product *entity.Product) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.categories[product.CategoryId]; !ok {
		return errForeignKey("products", "category_id")
	}
	for _, existing := range r.store.products {
		if existing.Slug == product.Slug {
			return errDuplicate("products", "slug")
		}
	}
	if product.Description == nil {
		product.Description = map[string]string{}
	}
	r.store.stamp(&product.Id, &product.CreatedAt, &product.UpdatedAt)
	r.store.products[product.Id] = cloneProduct(product)
	return nil
}

func (r *productRepository) Update(ctx context.Context, product *entity.Product) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.categories[product.CategoryId]; !ok {
		return errForeignKey("products", "category_id")
	}
	for id, existing := range r.store.products {
		if id != product.Id && existing.Slug == product.Slug {
			return errDuplicate("products", "slug")
		}
	}
	r.store.stamp(&product.Id, &product.CreatedAt, &product.UpdatedAt)
	r.store.products[product.Id] = cloneProduct(product)
	return nil
}

func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, plan := range r.store.plans {
		if plan.ProductId == id {
			return errForeignKey("plans", "product_id")
		}
	}
	delete(r.store.products, id)
	return nil
}

func (r *productRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Product, error) {
	all, err := r.FindAllWithPlans(ctx, specs...)
	if err != nil || len(all) == 0 {
		return nil, err
	}
	return all[0], nil
}

func (r *productRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Product, error) {
	return r.find(specs, false)
}

func (r *productRepository) FindAllWithPlans(ctx context.Context, specs ...specification.Specification) ([]*entity.Product, error) {
	return r.find(specs, true)
}

func (r *productRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, err := r.FindAll(ctx, specs...)
	return int64(len(all)), err
}

func (r *productRepository) find(specs []specification.Specification, withPlans bool) ([]*entity.Product, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	found, err := query(values(r.store.products), productRow, specs)
	if err != nil {
		return nil, err
	}
	out := make([]*entity.Product, len(found))
	for i, p := range found {
		product := cloneProduct(p)
		if withPlans {
			product.Category = cloneCategory(r.store.categories[p.CategoryId])
			product.Plans = r.store.plansOf(p.Id)
		}
		out[i] = product
	}
	return out, nil
}

// plansOf returns the product's plans by name with their active prices. Caller holds the lock.
func (s *Store) plansOf(productId uuid.UUID) []*entity.Plan {
	plans, _ := query(values(s.plans), planRow, []specification.Specification{
		specification.ByProductID{ProductID: productId},
		specification.OrderBy{Field: "name"},
	})
	out := make([]*entity.Plan, len(plans))
	for i, p := range plans {
		plan := clonePlan(p)
		prices, _ := query(values(s.prices), priceRow, []specification.Specification{
			specification.ByPlanID{PlanID: p.Id},
			specification.ActiveOnly{},
		})
		plan.Prices = make([]*entity.Price, len(prices))
		for j, price := range prices {
			plan.Prices[j] = clonePrice(price)
		}
		out[i] = plan
	}
	return out
}

// Plans

type planRepository struct {
	store *Store
}

func NewPlanRepository(store *Store) contract.PlanRepository {
	return &planRepository{store: store}
}

func planRow(p *entity.Plan) row {
	return row{
		"id":         p.Id,
		"product_id": p.ProductId,
		"name":       p.Name,
		"created_at": p.CreatedAt,
		"updated_at": p.UpdatedAt,
	}
}

func (r *planRepository) Create(ctx context.Context, plan *entity.Plan) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.products[plan.ProductId]; !ok {
		return errForeignKey("plans", "product_id")
	}
	if plan.Features == nil {
		plan.Features = []string{}
	}
	r.store.stamp(&plan.Id, &plan.CreatedAt, &plan.UpdatedAt)
	r.store.plans[plan.Id] = clonePlan(plan)
	return nil
}

func (r *planRepository) Update(ctx context.Context, plan *entity.Plan) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.stamp(&plan.Id, &plan.CreatedAt, &plan.UpdatedAt)
	r.store.plans[plan.Id] = clonePlan(plan)
	return nil
}

func (r *planRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, price := range r.store.prices {
		if price.PlanId == id {
			return errForeignKey("prices", "plan_id")
		}
	}
	delete(r.store.plans, id)
	return nil
}

func (r *planRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Plan, error) {
	all, err := r.FindAll(ctx, specs...)
	if err != nil || len(all) == 0 {
		return nil, err
	}
	return all[0], nil
}

func (r *planRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Plan, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	found, err := query(values(r.store.plans), planRow, specs)
	if err != nil {
		return nil, err
	}
	out := make([]*entity.Plan, len(found))
	for i, p := range found {
		out[i] = clonePlan(p)
	}
	return out, nil
}

func (r *planRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, err := r.FindAll(ctx, specs...)
	return int64(len(all)), err
}

// Prices

type priceRepository struct {
	store *Store
}

func NewPriceRepository(store *Store) contract.PriceRepository {
	return &priceRepository{store: store}
}

func priceRow(p *entity.Price) row {
	return row{
		"id":         p.Id,
		"plan_id":    p.PlanId,
		"amount":     p.Amount,
		"currency":   p.Currency,
		"interval":   string(p.Interval),
		"is_active":  p.IsActive,
		"created_at": p.CreatedAt,
		"updated_at": p.UpdatedAt,
	}
}

func (r *priceRepository) Create(ctx context.Context, price *entity.Price) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.plans[price.PlanId]; !ok {
		return errForeignKey("prices", "plan_id")
	}
	r.store.stamp(&price.Id, &price.CreatedAt, &price.UpdatedAt)
	r.store.prices[price.Id] = clonePrice(price)
	return nil
}

func (r *priceRepository) Update(ctx context.Context, price *entity.Price) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.stamp(&price.Id, &price.CreatedAt, &price.UpdatedAt)
	r.store.prices[price.Id] = clonePrice(price)
	return nil
}

func (r *priceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, sub := range r.store.subscriptions {
		if sub.PriceId == id {
			return errForeignKey("subscriptions", "price_id")
		}
	}
	delete(r.store.prices, id)
	return nil
}

func (r *priceRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Price, error) {
	all, err := r.FindAll(ctx, specs...)
	if err != nil || len(all) == 0 {
		return nil, err
	}
	return all[0], nil
}

func (r *priceRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Price, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	found, err := query(values(r.store.prices), priceRow, specs)
	if err != nil {
		return nil, err
	}
	out := make([]*entity.Price, len(found))
	for i, p := range found {
		out[i] = clonePrice(p)
	}
	return out, nil
}

func (r *priceRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, err := r.FindAll(ctx, specs...)
	return int64(len(all)), err
}

// Price history

type priceHistoryRepository struct {
	store *Store
}

func NewPriceHistoryRepository(store *Store) contract.PriceHistoryRepository {
	return &priceHistoryRepository{store: store}
}

func priceHistoryRow(h *entity.PriceHistory) row {
	return row{
		"id":             h.Id,
		"price_id":       h.PriceId,
		"effective_date": h.EffectiveDate,
		"created_at":     h.CreatedAt,
	}
}

func (r *priceHistoryRepository) Create(ctx context.Context, history *entity.PriceHistory) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.prices[history.PriceId]; !ok {
		return errForeignKey("price_history", "price_id")
	}
	r.store.stamp(&history.Id, &history.CreatedAt, nil)
	if history.EffectiveDate.IsZero() {
		history.EffectiveDate = history.CreatedAt
	}
	r.store.priceHistory[history.Id] = clonePriceHistory(history)
	return nil
}

func (r *priceHistoryRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.PriceHistory, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	specs = append(append([]specification.Specification{}, specs...),
		specification.OrderBy{Field: "effective_date", Desc: true},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	found, err := query(values(r.store.priceHistory), priceHistoryRow, specs)
	if err != nil {
		return nil, err
	}
	out := make([]*entity.PriceHistory, len(found))
	for i, h := range found {
		out[i] = clonePriceHistory(h)
	}
	return out, nil
}
