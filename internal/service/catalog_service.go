package service

import (
	"context"
	"encoding/json"
	"time"

	"subtracker-be/internal/dto"
	"subtracker-be/internal/pkg/apperror"
	"subtracker-be/internal/pkg/logger"
	"subtracker-be/internal/repository/contract"
	"subtracker-be/internal/repository/specification"
	"subtracker-be/internal/repository/unitofwork"
	"subtracker-be/pkg/admin/mapper"

	"github.com/google/uuid"
)

type ICatalogService interface {
	ListCategories(ctx context.Context) ([]dto.CategoryResponse, error)
	GetCategory(ctx context.Context, idOrSlug string) (*dto.CategoryResponse, error)
	ListProducts(ctx context.Context, req dto.ProductListRequest) ([]dto.ProductResponse, error)
	GetProduct(ctx context.Context, idOrSlug string) (*dto.ProductResponse, error)
	InvalidateCache(ctx context.Context)
}

type catalogService struct {
	uowFactory unitofwork.RepositoryFactory
	cache      contract.CatalogCache
	cacheTTL   time.Duration
	logger     logger.ILogger
}

// NewCatalogService serves the public catalog. cache may be nil to read straight through.
func NewCatalogService(uowFactory unitofwork.RepositoryFactory, cache contract.CatalogCache, cacheTTL time.Duration, logger logger.ILogger) ICatalogService {
	return &catalogService{
		uowFactory: uowFactory,
		cache:      cache,
		cacheTTL:   cacheTTL,
		logger:     logger,
	}
}

func (s *catalogService) ListCategories(ctx context.Context) ([]dto.CategoryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	categories, err := uow.CategoryRepository().FindAll(ctx, specification.OrderBy{Field: "name"})
	if err != nil {
		s.logger.Error("CATALOG", "Failed to list categories", map[string]interface{}{"error": err.Error()})
		return nil, apperror.Store("list categories", err)
	}
	return mapper.CategoriesToResponse(categories), nil
}

func (s *catalogService) GetCategory(ctx context.Context, idOrSlug string) (*dto.CategoryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	category, err := uow.CategoryRepository().FindOne(ctx, specification.ByIDOrSlug{Value: idOrSlug})
	if err != nil {
		return nil, apperror.Store("find category", err)
	}
	if category == nil {
		return nil, apperror.NewNotFound("category")
	}
	return mapper.CategoryToResponse(category), nil
}

// ListProducts returns active catalog products with their plans, served from the cache
// when warm. User-provisioned products stay out of the listing.
func (s *catalogService) ListProducts(ctx context.Context, req dto.ProductListRequest) ([]dto.ProductResponse, error) {
	specs := []specification.Specification{
		specification.ActiveOnly{},
		specification.Filter("is_custom", false),
	}
	key := "products:all"
	if req.CategoryId != "" {
		categoryId, err := uuid.Parse(req.CategoryId)
		if err != nil {
			return nil, apperror.NewValidation("categoryId", "must be a valid UUID")
		}
		specs = append(specs, specification.ByCategoryID{CategoryID: categoryId})
		key = "products:" + categoryId.String()
	}

	if cached, ok := s.fromCache(ctx, key); ok {
		return cached, nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	products, err := uow.ProductRepository().FindAllWithPlans(ctx, append(specs, specification.OrderBy{Field: "name"})...)
	if err != nil {
		s.logger.Error("CATALOG", "Failed to list products", map[string]interface{}{"error": err.Error()})
		return nil, apperror.Store("list products", err)
	}

	res := mapper.ProductsToResponse(products)
	s.toCache(ctx, key, res)
	return res, nil
}

func (s *catalogService) GetProduct(ctx context.Context, idOrSlug string) (*dto.ProductResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	products, err := uow.ProductRepository().FindAllWithPlans(ctx,
		specification.ByIDOrSlug{Value: idOrSlug},
		specification.ActiveOnly{},
	)
	if err != nil {
		return nil, apperror.Store("find product", err)
	}
	if len(products) == 0 {
		return nil, apperror.NewNotFound("product")
	}
	return mapper.ProductToResponse(products[0]), nil
}

func (s *catalogService) InvalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("CATALOG", "Failed to invalidate catalog cache", map[string]interface{}{"error": err.Error()})
	}
}

func (s *catalogService) fromCache(ctx context.Context, key string) ([]dto.ProductResponse, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, ok := s.cache.Get(ctx, key)
	if !ok {
		return nil, false
	}
	var res []dto.ProductResponse
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, false
	}
	return res, true
}

func (s *catalogService) toCache(ctx context.Context, key string, res []dto.ProductResponse) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(res)
	if err != nil {
		return
	}
	s.cache.Set(ctx, key, raw, s.cacheTTL)
}
