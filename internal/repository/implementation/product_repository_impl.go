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

type ProductRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CatalogMapper
}

func NewProductRepository(db *gorm.DB) contract.ProductRepository {
	return &ProductRepositoryImpl{
		db:     db,
		mapper: mapper.NewCatalogMapper(),
	}
}

func (r *ProductRepositoryImpl) Create(ctx context.Context, product *entity.Product) error {
	m := r.mapper.ProductToModel(product)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(m).Error; err != nil {
		return err
	}
	*product = *r.mapper.ProductToEntity(m)
	return nil
}

func (r *ProductRepositoryImpl) Update(ctx context.Context, product *entity.Product) error {
	m := r.mapper.ProductToModel(product)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(m).Error; err != nil {
		return err
	}
	*product = *r.mapper.ProductToEntity(m)
	return nil
}

func (r *ProductRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Product{}, "id = ?", id).Error
}

func (r *ProductRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Product, error) {
	var m model.Product
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	query = r.preloadCatalog(query)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ProductToEntity(&m), nil
}

func (r *ProductRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Product, error) {
	return r.find(applySpecifications(r.db.WithContext(ctx), specs...))
}

func (r *ProductRepositoryImpl) FindAllWithPlans(ctx context.Context, specs ...specification.Specification) ([]*entity.Product, error) {
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	return r.find(r.preloadCatalog(query))
}

func (r *ProductRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.Product{}), specs...)
	err := query.Count(&count).Error
	return count, err
}

func (r *ProductRepositoryImpl) find(query *gorm.DB) ([]*entity.Product, error) {
	var models []*model.Product
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Product, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ProductToEntity(m)
	}
	return entities, nil
}

func (r *ProductRepositoryImpl) preloadCatalog(query *gorm.DB) *gorm.DB {
	return query.
		Preload("Category").
		Preload("Plans", func(db *gorm.DB) *gorm.DB {
			return db.Order("plans.name ASC")
		}).
		Preload("Plans.Prices", "is_active = ?", true)
}
