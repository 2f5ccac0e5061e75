package dashboard

import (
	"context"

	"subtracker-be/internal/dto"
	"subtracker-be/internal/entity"
	"subtracker-be/internal/pkg/apperror"
	"subtracker-be/internal/pkg/logger"
	"subtracker-be/internal/repository/specification"
	"subtracker-be/internal/repository/unitofwork"
	"subtracker-be/pkg/admin/mapper"
)

// Aggregator handles dashboard statistics
type Aggregator struct {
	logger logger.ILogger
}

// NewAggregator creates a new dashboard aggregator
func NewAggregator(logger logger.ILogger) *Aggregator {
	return &Aggregator{
		logger: logger,
	}
}

// GetStats counts users, subscriptions and catalog rows across the whole store
func (a *Aggregator) GetStats(ctx context.Context, uow unitofwork.UnitOfWork) (*dto.AdminStatsResponse, error) {
	totalUsers, err := uow.UserRepository().Count(ctx)
	if err != nil {
		return nil, apperror.Store("count users", err)
	}

	activeUsers, err := uow.UserRepository().Count(ctx, specification.ActiveUsers{})
	if err != nil {
		return nil, apperror.Store("count active users", err)
	}

	totalSubs, err := uow.SubscriptionRepository().Count(ctx)
	if err != nil {
		return nil, apperror.Store("count subscriptions", err)
	}

	activeSubs, err := uow.SubscriptionRepository().Count(ctx, specification.ByStatus{Status: entity.SubscriptionStatusActive})
	if err != nil {
		return nil, apperror.Store("count active subscriptions", err)
	}

	totalProducts, err := uow.ProductRepository().Count(ctx)
	if err != nil {
		return nil, apperror.Store("count products", err)
	}

	totalCategories, err := uow.CategoryRepository().Count(ctx)
	if err != nil {
		return nil, apperror.Store("count categories", err)
	}

	return &dto.AdminStatsResponse{
		TotalUsers:          totalUsers,
		ActiveUsers:         activeUsers,
		TotalSubscriptions:  totalSubs,
		ActiveSubscriptions: activeSubs,
		TotalProducts:       totalProducts,
		TotalCategories:     totalCategories,
	}, nil
}

// GetAuditLogs retrieves paginated audit entries, newest first
func (a *Aggregator) GetAuditLogs(ctx context.Context, uow unitofwork.UnitOfWork, req dto.AuditLogListRequest) (*dto.AuditLogListResponse, error) {
	page, limit := req.Page, req.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	var filters []specification.Specification
	if req.EntityType != "" {
		filters = append(filters, specification.Filter("entity_type", req.EntityType))
	}
	if req.Action != "" {
		filters = append(filters, specification.Filter("action", req.Action))
	}

	total, err := uow.AuditLogRepository().Count(ctx, filters...)
	if err != nil {
		return nil, apperror.Store("count audit logs", err)
	}

	specs := append(filters,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: (page - 1) * limit},
	)
	logs, err := uow.AuditLogRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, apperror.Store("find audit logs", err)
	}

	res := make([]dto.AuditLogResponse, 0, len(logs))
	for _, l := range logs {
		res = append(res, mapper.AuditLogToResponse(l))
	}
	return &dto.AuditLogListResponse{
		Logs:  res,
		Page:  page,
		Limit: limit,
		Total: total,
	}, nil
}

// GetSystemLogs reads the structured log file back through the logger
func (a *Aggregator) GetSystemLogs(ctx context.Context, req dto.SystemLogListRequest) ([]logger.LogEntry, error) {
	page, limit := req.Page, req.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}
	logs, err := a.logger.GetLogs(req.Level, limit, (page-1)*limit)
	if err != nil {
		return nil, apperror.Store("read system logs", err)
	}
	return logs, nil
}
