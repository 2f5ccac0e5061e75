package implementation

import (
	"context"
	"errors"

	"subtracker-be/internal/entity"
	"subtracker-be/internal/mapper"
	"subtracker-be/internal/model"
	"subtracker-be/internal/repository/contract"
	"subtracker-be/internal/repository/scope"
	"subtracker-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PriceRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CatalogMapper
}

func NewPriceRepository(db *gorm.DB) contract.PriceRepository {
	return &PriceRepositoryImpl{
		db:     db,
		mapper: mapper.NewCatalogMapper(),
	}
}

func (r *PriceRepositoryImpl) Create(ctx context.Context, price *entity.Price) error {
	m := r.mapper.PriceToModel(price)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*price = *r.mapper.PriceToEntity(m)
	return nil
}

func (r *PriceRepositoryImpl) Update(ctx context.Context, price *entity.Price) error {
	m := r.mapper.PriceToModel(price)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*price = *r.mapper.PriceToEntity(m)
	return nil
}

func (r *PriceRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Price{}, "id = ?", id).Error
}

func (r *PriceRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Price, error) {
	var m model.Price
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.PriceToEntity(&m), nil
}

func (r *PriceRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Price, error) {
	var models []*model.Price
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Price, len(models))
	for i, m := range models {
		entities[i] = r.mapper.PriceToEntity(m)
	}
	return entities, nil
}

func (r *PriceRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.Price{}), specs...)
	err := query.Count(&count).Error
	return count, err
}

type PriceHistoryRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CatalogMapper
}

func NewPriceHistoryRepository(db *gorm.DB) contract.PriceHistoryRepository {
	return &PriceHistoryRepositoryImpl{
		db:     db,
		mapper: mapper.NewCatalogMapper(),
	}
}

func (r *PriceHistoryRepositoryImpl) Create(ctx context.Context, history *entity.PriceHistory) error {
	m := r.mapper.PriceHistoryToModel(history)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*history = *r.mapper.PriceHistoryToEntity(m)
	return nil
}

func (r *PriceHistoryRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.PriceHistory, error) {
	var models []*model.PriceHistory
	query := applySpecifications(r.db.WithContext(ctx), specs...).Scopes(scope.OrderByEffectiveDateDesc)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.PriceHistory, len(models))
	for i, m := range models {
		entities[i] = r.mapper.PriceHistoryToEntity(m)
	}
	return entities, nil
}
