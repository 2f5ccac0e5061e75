package service

import (
	"context"

	"subtracker-be/internal/dto"
	"subtracker-be/internal/entity"
	"subtracker-be/internal/pkg/logger"
	"subtracker-be/internal/repository/unitofwork"
	"subtracker-be/pkg/events"
	"subtracker-be/pkg/provisioner"

	"github.com/google/uuid"
)

type ICustomProductService interface {
	Create(ctx context.Context, userId uuid.UUID, req dto.CreateCustomProductRequest) (*dto.CustomProductResponse, error)
}

type customProductService struct {
	uowFactory  unitofwork.RepositoryFactory
	provisioner *provisioner.Provisioner
	publisher   IPublisherService
	logger      logger.ILogger
}

func NewCustomProductService(uowFactory unitofwork.RepositoryFactory, provisioner *provisioner.Provisioner, publisher IPublisherService, logger logger.ILogger) ICustomProductService {
	return &customProductService{
		uowFactory:  uowFactory,
		provisioner: provisioner,
		publisher:   publisher,
		logger:      logger,
	}
}

// Create runs without Begin/Commit: the provisioner compensates its own partial writes.
func (s *customProductService) Create(ctx context.Context, userId uuid.UUID, req dto.CreateCustomProductRequest) (*dto.CustomProductResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	result, err := s.provisioner.CreateCustomProduct(ctx, uow, provisioner.Input{
		ProductName: req.ProductName,
		PlanName:    req.PlanName,
		Amount:      req.Amount,
		Currency:    req.Currency,
		Interval:    entity.BillingInterval(req.Interval),
	})
	if err != nil {
		return nil, err
	}

	res := &dto.CustomProductResponse{
		ProductId: result.ProductId,
		PlanId:    result.PlanId,
		PriceId:   result.PriceId,
	}
	s.publisher.Audit(ctx, events.CustomProductCreated, &userId, "product", result.ProductId, nil, auditValues(res))
	return res, nil
}
