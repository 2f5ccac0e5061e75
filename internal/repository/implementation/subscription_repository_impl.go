package implementation

import (
	"context"
	"errors"

	"subtracker-be/internal/entity"
	"subtracker-be/internal/mapper"
	"subtracker-be/internal/model"
	"subtracker-be/internal/repository/contract"
	"subtracker-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SubscriptionRepositoryImpl struct {
	db            *gorm.DB
	mapper        *mapper.SubscriptionMapper
	catalogMapper *mapper.CatalogMapper
}

func NewSubscriptionRepository(db *gorm.DB) contract.SubscriptionRepository {
	return &SubscriptionRepositoryImpl{
		db:            db,
		mapper:        mapper.NewSubscriptionMapper(),
		catalogMapper: mapper.NewCatalogMapper(),
	}
}

func (r *SubscriptionRepositoryImpl) Create(ctx context.Context, subscription *entity.Subscription) error {
	m := r.mapper.ToModel(subscription)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(m).Error; err != nil {
		return err
	}
	*subscription = *r.mapper.ToEntity(m)
	return nil
}

func (r *SubscriptionRepositoryImpl) Update(ctx context.Context, subscription *entity.Subscription) error {
	m := r.mapper.ToModel(subscription)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(m).Error; err != nil {
		return err
	}
	*subscription = *r.mapper.ToEntity(m)
	return nil
}

func (r *SubscriptionRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Subscription{}, "id = ?", id).Error
}

func (r *SubscriptionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Subscription, error) {
	var m model.Subscription
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Preload("Plan").Preload("Price").First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *SubscriptionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Subscription, error) {
	var models []*model.Subscription
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Subscription, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *SubscriptionRepositoryImpl) FindAllDetailed(ctx context.Context, specs ...specification.Specification) ([]*entity.Subscription, error) {
	var models []*model.Subscription
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Preload("Plan").Preload("Price").Find(&models).Error; err != nil {
		return nil, err
	}

	// Products are resolved in one batch instead of a nested preload on every plan.
	productIds := make([]uuid.UUID, 0, len(models))
	seen := make(map[uuid.UUID]bool)
	for _, m := range models {
		if m.Plan != nil && !seen[m.Plan.ProductId] {
			seen[m.Plan.ProductId] = true
			productIds = append(productIds, m.Plan.ProductId)
		}
	}

	products := make(map[uuid.UUID]*entity.Product, len(productIds))
	if len(productIds) > 0 {
		var productModels []*model.Product
		if err := r.db.WithContext(ctx).Preload("Category").Where("id IN ?", productIds).Find(&productModels).Error; err != nil {
			return nil, err
		}
		for _, p := range productModels {
			products[p.Id] = r.catalogMapper.ProductToEntity(p)
		}
	}

	entities := make([]*entity.Subscription, len(models))
	for i, m := range models {
		e := r.mapper.ToEntity(m)
		if e.Plan != nil {
			e.Product = products[e.Plan.ProductId]
		}
		entities[i] = e
	}
	return entities, nil
}

func (r *SubscriptionRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.Subscription{}), specs...)
	err := query.Count(&count).Error
	return count, err
}
