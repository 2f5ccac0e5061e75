package mapper

import (
	"subtracker-be/internal/entity"
	"subtracker-be/internal/model"
)

type SubscriptionMapper struct {
	catalogMapper *CatalogMapper
}

func NewSubscriptionMapper() *SubscriptionMapper {
	return &SubscriptionMapper{
		catalogMapper: NewCatalogMapper(),
	}
}

func (m *SubscriptionMapper) ToEntity(s *model.Subscription) *entity.Subscription {
	if s == nil {
		return nil
	}
	e := &entity.Subscription{
		Id:                       s.Id,
		UserId:                   s.UserId,
		PlanId:                   s.PlanId,
		PriceId:                  s.PriceId,
		Status:                   entity.SubscriptionStatus(s.Status),
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
		Plan:                     m.catalogMapper.PlanToEntity(s.Plan),
		Price:                    m.catalogMapper.PriceToEntity(s.Price),
	}
	return e
}

func (m *SubscriptionMapper) ToModel(s *entity.Subscription) *model.Subscription {
	if s == nil {
		return nil
	}
	return &model.Subscription{
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
	}
}
