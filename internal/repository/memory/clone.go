package memory

import (
	"subtracker-be/internal/entity"
)

func cloneCategory(c *entity.Category) *entity.Category {
	if c == nil {
		return nil
	}
	out := *c
	return &out
}

// cloneProduct copies the row only; relations are attached per read.
func cloneProduct(p *entity.Product) *entity.Product {
	out := *p
	out.Description = make(map[string]string, len(p.Description))
	for k, v := range p.Description {
		out.Description[k] = v
	}
	out.Category = nil
	out.Plans = nil
	return &out
}

func clonePlan(p *entity.Plan) *entity.Plan {
	out := *p
	out.Features = append([]string{}, p.Features...)
	out.Prices = nil
	return &out
}

func clonePrice(p *entity.Price) *entity.Price {
	if p == nil {
		return nil
	}
	out := *p
	return &out
}

func clonePriceHistory(h *entity.PriceHistory) *entity.PriceHistory {
	out := *h
	return &out
}

func cloneSubscription(s *entity.Subscription) *entity.Subscription {
	out := *s
	out.Plan = nil
	out.Price = nil
	out.Product = nil
	return &out
}

func cloneUser(u *entity.User) *entity.User {
	out := *u
	return &out
}

func cloneAuditLog(a *entity.AuditLog) *entity.AuditLog {
	out := *a
	return &out
}
