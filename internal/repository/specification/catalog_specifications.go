package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BySlug struct {
	Slug string
}

func (s BySlug) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("slug = ?", s.Slug)
}

// ByIDOrSlug matches the id when Value parses as a UUID, the slug otherwise.
type ByIDOrSlug struct {
	Value string
}

func (s ByIDOrSlug) Apply(db *gorm.DB) *gorm.DB {
	if id, err := uuid.Parse(s.Value); err == nil {
		return db.Where("id = ?", id)
	}
	return db.Where("slug = ?", s.Value)
}

type ByCategoryID struct {
	CategoryID uuid.UUID
}

func (s ByCategoryID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("category_id = ?", s.CategoryID)
}

type ByProductID struct {
	ProductID uuid.UUID
}

func (s ByProductID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("product_id = ?", s.ProductID)
}

type ByPlanID struct {
	PlanID uuid.UUID
}

func (s ByPlanID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("plan_id = ?", s.PlanID)
}

type ByPriceID struct {
	PriceID uuid.UUID
}

func (s ByPriceID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("price_id = ?", s.PriceID)
}

// ActiveOnly keeps rows whose is_active flag is set (products, prices)
type ActiveOnly struct{}

func (s ActiveOnly) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("is_active = ?", true)
}
