package mapper

import (
	"subtracker-be/internal/entity"
	"subtracker-be/internal/model"

	"gorm.io/datatypes"
)

type CatalogMapper struct{}

func NewCatalogMapper() *CatalogMapper {
	return &CatalogMapper{}
}

func (m *CatalogMapper) CategoryToEntity(c *model.Category) *entity.Category {
	if c == nil {
		return nil
	}
	return &entity.Category{
		Id:        c.Id,
		Name:      c.Name,
		Slug:      c.Slug,
		Icon:      c.Icon,
		Color:     c.Color,
		ParentId:  c.ParentId,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func (m *CatalogMapper) CategoryToModel(c *entity.Category) *model.Category {
	if c == nil {
		return nil
	}
	return &model.Category{
		Id:        c.Id,
		Name:      c.Name,
		Slug:      c.Slug,
		Icon:      c.Icon,
		Color:     c.Color,
		ParentId:  c.ParentId,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func (m *CatalogMapper) ProductToEntity(p *model.Product) *entity.Product {
	if p == nil {
		return nil
	}
	description := p.Description.Data()
	if description == nil {
		description = map[string]string{}
	}

	plans := make([]*entity.Plan, 0, len(p.Plans))
	for _, plan := range p.Plans {
		plans = append(plans, m.PlanToEntity(plan))
	}

	return &entity.Product{
		Id:          p.Id,
		Name:        p.Name,
		Slug:        p.Slug,
		Description: description,
		LogoURL:     p.LogoURL,
		WebsiteURL:  p.WebsiteURL,
		CategoryId:  p.CategoryId,
		IsActive:    p.IsActive,
		IsCustom:    p.IsCustom,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		Category:    m.CategoryToEntity(p.Category),
		Plans:       plans,
	}
}

// ProductToModel drops relations; they are written through their own repositories.
func (m *CatalogMapper) ProductToModel(p *entity.Product) *model.Product {
	if p == nil {
		return nil
	}
	return &model.Product{
		Id:          p.Id,
		Name:        p.Name,
		Slug:        p.Slug,
		Description: datatypes.NewJSONType(p.Description),
		LogoURL:     p.LogoURL,
		WebsiteURL:  p.WebsiteURL,
		CategoryId:  p.CategoryId,
		IsActive:    p.IsActive,
		IsCustom:    p.IsCustom,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (m *CatalogMapper) PlanToEntity(p *model.Plan) *entity.Plan {
	if p == nil {
		return nil
	}
	features := []string(p.Features)
	if features == nil {
		features = []string{}
	}

	prices := make([]*entity.Price, 0, len(p.Prices))
	for _, price := range p.Prices {
		prices = append(prices, m.PriceToEntity(price))
	}

	return &entity.Plan{
		Id:          p.Id,
		ProductId:   p.ProductId,
		Name:        p.Name,
		Description: p.Description,
		Features:    features,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		Prices:      prices,
	}
}

func (m *CatalogMapper) PlanToModel(p *entity.Plan) *model.Plan {
	if p == nil {
		return nil
	}
	return &model.Plan{
		Id:          p.Id,
		ProductId:   p.ProductId,
		Name:        p.Name,
		Description: p.Description,
		Features:    datatypes.JSONSlice[string](p.Features),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (m *CatalogMapper) PriceToEntity(p *model.Price) *entity.Price {
	if p == nil {
		return nil
	}
	return &entity.Price{
		Id:        p.Id,
		PlanId:    p.PlanId,
		Amount:    p.Amount,
		Currency:  p.Currency,
		Interval:  entity.BillingInterval(p.Interval),
		IsActive:  p.IsActive,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func (m *CatalogMapper) PriceToModel(p *entity.Price) *model.Price {
	if p == nil {
		return nil
	}
	return &model.Price{
		Id:        p.Id,
		PlanId:    p.PlanId,
		Amount:    p.Amount,
		Currency:  p.Currency,
		Interval:  string(p.Interval),
		IsActive:  p.IsActive,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func (m *CatalogMapper) PriceHistoryToEntity(h *model.PriceHistory) *entity.PriceHistory {
	if h == nil {
		return nil
	}
	return &entity.PriceHistory{
		Id:            h.Id,
		PriceId:       h.PriceId,
		OldAmount:     h.OldAmount,
		NewAmount:     h.NewAmount,
		ChangeReason:  h.ChangeReason,
		EffectiveDate: h.EffectiveDate,
		CreatedAt:     h.CreatedAt,
	}
}

func (m *CatalogMapper) PriceHistoryToModel(h *entity.PriceHistory) *model.PriceHistory {
	if h == nil {
		return nil
	}
	return &model.PriceHistory{
		Id:            h.Id,
		PriceId:       h.PriceId,
		OldAmount:     h.OldAmount,
		NewAmount:     h.NewAmount,
		ChangeReason:  h.ChangeReason,
		EffectiveDate: h.EffectiveDate,
		CreatedAt:     h.CreatedAt,
	}
}
