// Package provisioner synthesizes a product, plan and price for subscriptions to
// things the catalog does not list.
package provisioner

import (
	"context"
	"errors"
	"strings"
	"time"

	"subtracker-be/internal/entity"
	"subtracker-be/internal/pkg/apperror"
	"subtracker-be/internal/pkg/logger"
	"subtracker-be/internal/repository/specification"
	"subtracker-be/internal/repository/unitofwork"
	"subtracker-be/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	DefaultPlanName    = "Standard"
	CustomCategoryName = "Custom"
	maxNameLength      = 100
)

const (
	StepProduct = "product"
	StepPlan    = "plan"
	StepPrice   = "price"
)

type Input struct {
	ProductName string
	PlanName    string
	Amount      decimal.Decimal
	Currency    string
	Interval    entity.BillingInterval
}

type Result struct {
	ProductId uuid.UUID
	PlanId    uuid.UUID
	PriceId   uuid.UUID
}

type Provisioner struct {
	logger logger.ILogger
	now    func() time.Time
}

func NewProvisioner(logger logger.ILogger) *Provisioner {
	return &Provisioner{
		logger: logger,
		now:    time.Now,
	}
}

func (p *Provisioner) WithClock(now func() time.Time) *Provisioner {
	p.now = now
	return p
}

// CreateCustomProduct writes product, plan and price one after another. The store gives
// no cross-table transaction here, so a failed step deletes what the earlier steps
// created before the error is returned.
func (p *Provisioner) CreateCustomProduct(ctx context.Context, uow unitofwork.UnitOfWork, in Input) (*Result, error) {
	in, err := normalize(in)
	if err != nil {
		return nil, err
	}

	category, err := p.EnsureCustomCategory(ctx, uow)
	if err != nil {
		return nil, err
	}

	product := &entity.Product{
		Name:        in.ProductName,
		Slug:        utils.UniqueSlug(in.ProductName, p.now()),
		Description: map[string]string{},
		CategoryId:  category.Id,
		IsActive:    true,
		IsCustom:    true,
	}
	if err := uow.ProductRepository().Create(ctx, product); err != nil {
		p.logger.Error("PROVISIONER", "Failed to create custom product", map[string]interface{}{
			"name":  in.ProductName,
			"error": err.Error(),
		})
		return nil, apperror.NewDependencyWrite(StepProduct, err)
	}

	plan := &entity.Plan{
		ProductId: product.Id,
		Name:      in.PlanName,
		Features:  []string{},
	}
	if err := uow.PlanRepository().Create(ctx, plan); err != nil {
		return nil, p.compensate(ctx, uow, StepPlan, err, product.Id, uuid.Nil)
	}

	price := &entity.Price{
		PlanId:   plan.Id,
		Amount:   in.Amount,
		Currency: in.Currency,
		Interval: in.Interval,
		IsActive: true,
	}
	if err := uow.PriceRepository().Create(ctx, price); err != nil {
		return nil, p.compensate(ctx, uow, StepPrice, err, product.Id, plan.Id)
	}

	p.logger.Info("PROVISIONER", "Custom product created", map[string]interface{}{
		"productId": product.Id.String(),
		"planId":    plan.Id.String(),
		"priceId":   price.Id.String(),
	})

	return &Result{
		ProductId: product.Id,
		PlanId:    plan.Id,
		PriceId:   price.Id,
	}, nil
}

// compensate deletes the plan (when planId is set) and then the product. Cleanup
// failures are joined onto the step error so nothing is dropped silently.
func (p *Provisioner) compensate(ctx context.Context, uow unitofwork.UnitOfWork, step string, cause error, productId, planId uuid.UUID) error {
	errs := []error{apperror.NewDependencyWrite(step, cause)}

	if planId != uuid.Nil {
		if err := uow.PlanRepository().Delete(ctx, planId); err != nil {
			errs = append(errs, apperror.Store("compensate plan", err))
		}
	}
	if err := uow.ProductRepository().Delete(ctx, productId); err != nil {
		errs = append(errs, apperror.Store("compensate product", err))
	}

	details := map[string]interface{}{
		"step":      step,
		"productId": productId.String(),
		"error":     cause.Error(),
	}
	if len(errs) > 1 {
		details["compensationErrors"] = len(errs) - 1
		p.logger.Error("PROVISIONER", "Compensation incomplete", details)
		return errors.Join(errs...)
	}
	p.logger.Warn("PROVISIONER", "Rolled back custom product", details)
	return errs[0]
}

// EnsureCustomCategory returns the reserved category, creating it on first use.
func (p *Provisioner) EnsureCustomCategory(ctx context.Context, uow unitofwork.UnitOfWork) (*entity.Category, error) {
	repo := uow.CategoryRepository()
	category, err := repo.FindOne(ctx, specification.BySlug{Slug: entity.CustomCategorySlug})
	if err != nil {
		return nil, apperror.Store("find custom category", err)
	}
	if category != nil {
		return category, nil
	}

	category = &entity.Category{Name: CustomCategoryName, Slug: entity.CustomCategorySlug}
	if err := repo.Create(ctx, category); err != nil {
		// another request may have created it in between
		existing, findErr := repo.FindOne(ctx, specification.BySlug{Slug: entity.CustomCategorySlug})
		if findErr == nil && existing != nil {
			return existing, nil
		}
		return nil, apperror.Store("create custom category", err)
	}
	return category, nil
}

func normalize(in Input) (Input, error) {
	in.ProductName = strings.TrimSpace(in.ProductName)
	in.PlanName = strings.TrimSpace(in.PlanName)
	in.Currency = strings.ToUpper(strings.TrimSpace(in.Currency))

	if in.ProductName == "" {
		return in, apperror.NewValidation("productName", "is required")
	}
	if len([]rune(in.ProductName)) > maxNameLength {
		return in, apperror.NewValidation("productName", "must be at most 100 characters")
	}
	if in.PlanName == "" {
		in.PlanName = DefaultPlanName
	}
	if len([]rune(in.PlanName)) > maxNameLength {
		return in, apperror.NewValidation("planName", "must be at most 100 characters")
	}
	if in.Amount.IsNegative() {
		return in, apperror.NewValidation("amount", "must not be negative")
	}
	if len(in.Currency) != 3 {
		return in, apperror.NewValidation("currency", "must be a 3-letter code")
	}
	if !in.Interval.IsValid() {
		return in, apperror.NewValidation("interval", "must be one of weekly, monthly, quarterly, yearly")
	}
	return in, nil
}
