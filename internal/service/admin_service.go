package service

import (
	"context"

	"subtracker-be/internal/dto"
	"subtracker-be/internal/pkg/apperror"
	"subtracker-be/internal/pkg/logger"
	"subtracker-be/internal/repository/specification"
	"subtracker-be/internal/repository/unitofwork"
	"subtracker-be/pkg/admin/catalog"
	"subtracker-be/pkg/admin/dashboard"
	"subtracker-be/pkg/admin/mapper"
	"subtracker-be/pkg/events"

	"github.com/google/uuid"
)

type IAdminService interface {
	GetStats(ctx context.Context) (*dto.AdminStatsResponse, error)

	// Catalog Management
	ListProducts(ctx context.Context) ([]dto.ProductResponse, error)
	CreateCategory(ctx context.Context, actor uuid.UUID, req dto.CreateCategoryRequest) (*dto.CategoryResponse, error)
	UpdateCategory(ctx context.Context, actor, id uuid.UUID, req dto.UpdateCategoryRequest) (*dto.CategoryResponse, error)
	DeleteCategory(ctx context.Context, actor, id uuid.UUID) error
	CreateProduct(ctx context.Context, actor uuid.UUID, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	UpdateProduct(ctx context.Context, actor, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	DeleteProduct(ctx context.Context, actor, id uuid.UUID) error
	CreatePlan(ctx context.Context, actor uuid.UUID, req dto.CreatePlanRequest) (*dto.PlanResponse, error)
	UpdatePlan(ctx context.Context, actor, id uuid.UUID, req dto.UpdatePlanRequest) (*dto.PlanResponse, error)
	DeletePlan(ctx context.Context, actor, id uuid.UUID) error
	CreatePrice(ctx context.Context, actor uuid.UUID, req dto.CreatePriceRequest) (*dto.PriceResponse, error)
	UpdatePrice(ctx context.Context, actor, id uuid.UUID, req dto.UpdatePriceRequest) (*dto.PriceResponse, error)
	DeletePrice(ctx context.Context, actor, id uuid.UUID) error
	GetPriceHistory(ctx context.Context, priceId uuid.UUID) ([]dto.PriceHistoryResponse, error)

	// Logs
	GetAuditLogs(ctx context.Context, req dto.AuditLogListRequest) (*dto.AuditLogListResponse, error)
	GetSystemLogs(ctx context.Context, req dto.SystemLogListRequest) ([]logger.LogEntry, error)
}

type adminService struct {
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger

	// Domain Components
	catalogManager      *catalog.Manager
	dashboardAggregator *dashboard.Aggregator
	publisher           IPublisherService
	catalogService      ICatalogService
}

func NewAdminService(
	uowFactory unitofwork.RepositoryFactory,
	logger logger.ILogger,
	catalogManager *catalog.Manager,
	dashboardAggregator *dashboard.Aggregator,
	publisher IPublisherService,
	catalogService ICatalogService,
) IAdminService {
	return &adminService{
		uowFactory:          uowFactory,
		logger:              logger,
		catalogManager:      catalogManager,
		dashboardAggregator: dashboardAggregator,
		publisher:           publisher,
		catalogService:      catalogService,
	}
}

func (s *adminService) GetStats(ctx context.Context) (*dto.AdminStatsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return s.dashboardAggregator.GetStats(ctx, uow)
}

// ListProducts includes inactive and custom products, unlike the public listing
func (s *adminService) ListProducts(ctx context.Context) ([]dto.ProductResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	products, err := uow.ProductRepository().FindAllWithPlans(ctx, specification.OrderBy{Field: "name"})
	if err != nil {
		return nil, apperror.Store("list products", err)
	}
	return mapper.ProductsToResponse(products), nil
}

// --- Categories ---

func (s *adminService) CreateCategory(ctx context.Context, actor uuid.UUID, req dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	var res *dto.CategoryResponse
	err := s.inTx(ctx, func(uow unitofwork.UnitOfWork) error {
		category, err := s.catalogManager.CreateCategory(ctx, uow, req)
		if err != nil {
			return err
		}
		res = mapper.CategoryToResponse(category)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.catalogChanged(ctx, events.CategoryCreated, actor, "category", res.Id, nil, res)
	return res, nil
}

func (s *adminService) UpdateCategory(ctx context.Context, actor, id uuid.UUID, req dto.UpdateCategoryRequest) (*dto.CategoryResponse, error) {
	var before, after *dto.CategoryResponse
	err := s.inTx(ctx, func(uow unitofwork.UnitOfWork) error {
		old, updated, err := s.catalogManager.UpdateCategory(ctx, uow, id, req)
		if err != nil {
			return err
		}
		before, after = mapper.CategoryToResponse(old), mapper.CategoryToResponse(updated)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.catalogChanged(ctx, events.CategoryUpdated, actor, "category", id, before, after)
	return after, nil
}

func (s *adminService) DeleteCategory(ctx context.Context, actor, id uuid.UUID) error {
	var before *dto.CategoryResponse
	err := s.inTx(ctx, func(uow unitofwork.UnitOfWork) error {
		deleted, err := s.catalogManager.DeleteCategory(ctx, uow, id)
		if err != nil {
			return err
		}
		before = mapper.CategoryToResponse(deleted)
		return nil
	})
	if err != nil {
		return err
	}
	s.catalogChanged(ctx, events.CategoryDeleted, actor, "category", id, before, nil)
	return nil
}

// --- Products ---

func (s *adminService) CreateProduct(ctx context.Context, actor uuid.UUID, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	var res *dto.ProductResponse
	err := s.inTx(ctx, func(uow unitofwork.UnitOfWork) error {
		product, err := s.catalogManager.CreateProduct(ctx, uow, req)
		if err != nil {
			return err
		}
		res = mapper.ProductToResponse(product)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.catalogChanged(ctx, events.ProductCreated, actor, "product", res.Id, nil, res)
	return res, nil
}

func (s *adminService) UpdateProduct(ctx context.Context, actor, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	var before, after *dto.ProductResponse
	err := s.inTx(ctx, func(uow unitofwork.UnitOfWork) error {
		old, updated, err := s.catalogManager.UpdateProduct(ctx, uow, id, req)
		if err != nil {
			return err
		}
		old.Plans, old.Category = nil, nil
		before, after = mapper.ProductToResponse(old), mapper.ProductToResponse(updated)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.catalogChanged(ctx, events.ProductUpdated, actor, "product", id, before, after)
	return after, nil
}

func (s *adminService) DeleteProduct(ctx context.Context, actor, id uuid.UUID) error {
	var before *dto.ProductResponse
	err := s.inTx(ctx, func(uow unitofwork.UnitOfWork) error {
		deleted, err := s.catalogManager.DeleteProduct(ctx, uow, id)
		if err != nil {
			return err
		}
		before = mapper.ProductToResponse(deleted)
		return nil
	})
	if err != nil {
		return err
	}
	s.catalogChanged(ctx, events.ProductDeleted, actor, "product", id, before, nil)
	return nil
}

// --- Plans ---

func (s *adminService) CreatePlan(ctx context.Context, actor uuid.UUID, req dto.CreatePlanRequest) (*dto.PlanResponse, error) {
	var res *dto.PlanResponse
	err := s.inTx(ctx, func(uow unitofwork.UnitOfWork) error {
		plan, err := s.catalogManager.CreatePlan(ctx, uow, req)
		if err != nil {
			return err
		}
		res = mapper.PlanToResponse(plan)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.catalogChanged(ctx, events.PlanCreated, actor, "plan", res.Id, nil, res)
	return res, nil
}

func (s *adminService) UpdatePlan(ctx context.Context, actor, id uuid.UUID, req dto.UpdatePlanRequest) (*dto.PlanResponse, error) {
	var before, after *dto.PlanResponse
	err := s.inTx(ctx, func(uow unitofwork.UnitOfWork) error {
		old, updated, err := s.catalogManager.UpdatePlan(ctx, uow, id, req)
		if err != nil {
			return err
		}
		before, after = mapper.PlanToResponse(old), mapper.PlanToResponse(updated)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.catalogChanged(ctx, events.PlanUpdated, actor, "plan", id, before, after)
	return after, nil
}

func (s *adminService) DeletePlan(ctx context.Context, actor, id uuid.UUID) error {
	var before *dto.PlanResponse
	err := s.inTx(ctx, func(uow unitofwork.UnitOfWork) error {
		deleted, err := s.catalogManager.DeletePlan(ctx, uow, id)
		if err != nil {
			return err
		}
		before = mapper.PlanToResponse(deleted)
		return nil
	})
	if err != nil {
		return err
	}
	s.catalogChanged(ctx, events.PlanDeleted, actor, "plan", id, before, nil)
	return nil
}

// --- Prices ---

func (s *adminService) CreatePrice(ctx context.Context, actor uuid.UUID, req dto.CreatePriceRequest) (*dto.PriceResponse, error) {
	var res *dto.PriceResponse
	err := s.inTx(ctx, func(uow unitofwork.UnitOfWork) error {
		price, err := s.catalogManager.CreatePrice(ctx, uow, req)
		if err != nil {
			return err
		}
		res = mapper.PriceToResponse(price)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.catalogChanged(ctx, events.PriceCreated, actor, "price", res.Id, nil, res)
	return res, nil
}

// UpdatePrice writes the price and its history row in one transaction
func (s *adminService) UpdatePrice(ctx context.Context, actor, id uuid.UUID, req dto.UpdatePriceRequest) (*dto.PriceResponse, error) {
	var before, after *dto.PriceResponse
	err := s.inTx(ctx, func(uow unitofwork.UnitOfWork) error {
		old, updated, err := s.catalogManager.UpdatePrice(ctx, uow, id, req)
		if err != nil {
			return err
		}
		before, after = mapper.PriceToResponse(old), mapper.PriceToResponse(updated)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.catalogChanged(ctx, events.PriceUpdated, actor, "price", id, before, after)
	return after, nil
}

func (s *adminService) DeletePrice(ctx context.Context, actor, id uuid.UUID) error {
	var before *dto.PriceResponse
	err := s.inTx(ctx, func(uow unitofwork.UnitOfWork) error {
		deleted, err := s.catalogManager.DeletePrice(ctx, uow, id)
		if err != nil {
			return err
		}
		before = mapper.PriceToResponse(deleted)
		return nil
	})
	if err != nil {
		return err
	}
	s.catalogChanged(ctx, events.PriceDeleted, actor, "price", id, before, nil)
	return nil
}

func (s *adminService) GetPriceHistory(ctx context.Context, priceId uuid.UUID) ([]dto.PriceHistoryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	history, err := s.catalogManager.PriceHistory(ctx, uow, priceId)
	if err != nil {
		return nil, err
	}
	res := make([]dto.PriceHistoryResponse, 0, len(history))
	for _, h := range history {
		res = append(res, mapper.PriceHistoryToResponse(h))
	}
	return res, nil
}

// --- Logs ---

func (s *adminService) GetAuditLogs(ctx context.Context, req dto.AuditLogListRequest) (*dto.AuditLogListResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return s.dashboardAggregator.GetAuditLogs(ctx, uow, req)
}

func (s *adminService) GetSystemLogs(ctx context.Context, req dto.SystemLogListRequest) ([]logger.LogEntry, error) {
	return s.dashboardAggregator.GetSystemLogs(ctx, req)
}

// --- helpers ---

func (s *adminService) inTx(ctx context.Context, fn func(uow unitofwork.UnitOfWork) error) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return apperror.Store("begin transaction", err)
	}
	defer uow.Rollback()

	if err := fn(uow); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		s.logger.Error("ADMIN", "Failed to commit catalog change", map[string]interface{}{"error": err.Error()})
		return apperror.Store("commit transaction", err)
	}
	return nil
}

// catalogChanged audits a committed write and drops the cached public listing
func (s *adminService) catalogChanged(ctx context.Context, action string, actor uuid.UUID, entityType string, id uuid.UUID, before, after interface{}) {
	var oldValues, newValues map[string]interface{}
	if before != nil {
		oldValues = auditValues(before)
	}
	if after != nil {
		newValues = auditValues(after)
	}
	s.publisher.Audit(ctx, action, &actor, entityType, id, oldValues, newValues)
	s.catalogService.InvalidateCache(ctx)

	s.logger.Info("ADMIN", "Catalog changed", map[string]interface{}{
		"action":    action,
		"entity_id": id.String(),
		"actor":     actor.String(),
	})
}
