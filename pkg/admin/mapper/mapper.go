package mapper

import (
	"subtracker-be/internal/dto"
	"subtracker-be/internal/entity"
)

// CategoryToResponse converts entity to category response DTO
func CategoryToResponse(c *entity.Category) *dto.CategoryResponse {
	if c == nil {
		return nil
	}
	return &dto.CategoryResponse{
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

func CategoriesToResponse(categories []*entity.Category) []dto.CategoryResponse {
	res := make([]dto.CategoryResponse, 0, len(categories))
	for _, c := range categories {
		res = append(res, *CategoryToResponse(c))
	}
	return res
}

func PriceToResponse(p *entity.Price) *dto.PriceResponse {
	if p == nil {
		return nil
	}
	return &dto.PriceResponse{
		Id:       p.Id,
		PlanId:   p.PlanId,
		Amount:   p.Amount,
		Currency: p.Currency,
		Interval: string(p.Interval),
		IsActive: p.IsActive,
	}
}

// PlanToResponse includes whatever prices the plan was loaded with
func PlanToResponse(p *entity.Plan) *dto.PlanResponse {
	if p == nil {
		return nil
	}
	features := p.Features
	if features == nil {
		features = []string{}
	}
	prices := make([]dto.PriceResponse, 0, len(p.Prices))
	for _, price := range p.Prices {
		prices = append(prices, *PriceToResponse(price))
	}
	return &dto.PlanResponse{
		Id:          p.Id,
		ProductId:   p.ProductId,
		Name:        p.Name,
		Description: p.Description,
		Features:    features,
		Prices:      prices,
	}
}

// ProductToResponse converts entity to product response DTO, nesting loaded plans
func ProductToResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	description := p.Description
	if description == nil {
		description = map[string]string{}
	}
	plans := make([]dto.PlanResponse, 0, len(p.Plans))
	for _, plan := range p.Plans {
		plans = append(plans, *PlanToResponse(plan))
	}
	return &dto.ProductResponse{
		Id:          p.Id,
		Name:        p.Name,
		Slug:        p.Slug,
		Description: description,
		LogoURL:     p.LogoURL,
		WebsiteURL:  p.WebsiteURL,
		CategoryId:  p.CategoryId,
		IsActive:    p.IsActive,
		IsCustom:    p.IsCustom,
		Category:    CategoryToResponse(p.Category),
		Plans:       plans,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func ProductsToResponse(products []*entity.Product) []dto.ProductResponse {
	res := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		res = append(res, *ProductToResponse(p))
	}
	return res
}

func PriceHistoryToResponse(h *entity.PriceHistory) dto.PriceHistoryResponse {
	return dto.PriceHistoryResponse{
		Id:            h.Id,
		PriceId:       h.PriceId,
		OldAmount:     h.OldAmount,
		NewAmount:     h.NewAmount,
		ChangeReason:  h.ChangeReason,
		EffectiveDate: h.EffectiveDate,
		CreatedAt:     h.CreatedAt,
	}
}

// SubscriptionToResponse converts entity to subscription response DTO.
// Relations are included only when the subscription was read with them.
func SubscriptionToResponse(s *entity.Subscription) *dto.SubscriptionResponse {
	if s == nil {
		return nil
	}
	res := &dto.SubscriptionResponse{
		Id:                       s.Id,
		UserId:                   s.UserId,
		PlanId:                   s.PlanId,
		PriceId:                  s.PriceId,
		Status:                   string(s.Status),
		StartDate:                s.StartDate,
		EndDate:                  s.EndDate,
		NextBillingDate:          s.NextBillingDate,
		CancellationDate:         s.CancellationDate,
		CancellationNoticePeriod: s.CancellationNoticePeriod,
		CustomAmount:             s.CustomAmount,
		CustomCurrency:           s.CustomCurrency,
		Notes:                    s.Notes,
		CreatedAt:                s.CreatedAt,
		UpdatedAt:                s.UpdatedAt,
		Price:                    PriceToResponse(s.Price),
	}
	if s.Plan != nil {
		res.Plan = &dto.PlanSummary{Id: s.Plan.Id, Name: s.Plan.Name}
	}
	if s.Product != nil {
		res.Product = &dto.ProductSummary{
			Id:       s.Product.Id,
			Name:     s.Product.Name,
			Slug:     s.Product.Slug,
			LogoURL:  s.Product.LogoURL,
			Category: CategoryToResponse(s.Product.Category),
		}
	}
	return res
}

func SubscriptionsToResponse(subs []*entity.Subscription) []dto.SubscriptionResponse {
	res := make([]dto.SubscriptionResponse, 0, len(subs))
	for _, s := range subs {
		res = append(res, *SubscriptionToResponse(s))
	}
	return res
}

func AuditLogToResponse(a *entity.AuditLog) dto.AuditLogResponse {
	return dto.AuditLogResponse{
		Id:         a.Id,
		UserId:     a.UserId,
		Action:     a.Action,
		EntityType: a.EntityType,
		EntityId:   a.EntityId,
		OldValues:  a.OldValues,
		NewValues:  a.NewValues,
		CreatedAt:  a.CreatedAt,
	}
}
