package catalog

import (
	"context"

	"subtracker-be/internal/dto"
	"subtracker-be/internal/entity"
	"subtracker-be/internal/pkg/apperror"
	"subtracker-be/internal/repository/unitofwork"

	"github.com/shopspring/decimal"
)

type SeedPrice struct {
	Amount   string
	Currency string
	Interval entity.BillingInterval
}

type SeedPlan struct {
	Name     string
	Features []string
	Prices   []SeedPrice
}

type SeedProduct struct {
	Name       string
	Slug       string
	WebsiteURL string
	Plans      []SeedPlan
}

type SeedCategory struct {
	Name     string
	Slug     string
	Icon     string
	Color    string
	Products []SeedProduct
}

type SeedResult struct {
	Skipped    bool
	Categories int
	Products   int
	Plans      int
	Prices     int
}

func monthlyAndYearly(usd, usdYearly, eur, eurYearly string) []SeedPrice {
	return []SeedPrice{
		{Amount: usd, Currency: "USD", Interval: entity.BillingIntervalMonthly},
		{Amount: usdYearly, Currency: "USD", Interval: entity.BillingIntervalYearly},
		{Amount: eur, Currency: "EUR", Interval: entity.BillingIntervalMonthly},
		{Amount: eurYearly, Currency: "EUR", Interval: entity.BillingIntervalYearly},
	}
}

// DefaultCatalog is the starter catalog loaded by `ctl seed`.
var DefaultCatalog = []SeedCategory{
	{Name: "Streaming", Slug: "streaming", Icon: "tv", Color: "#E50914", Products: []SeedProduct{
		{Name: "Netflix", Slug: "netflix", WebsiteURL: "https://www.netflix.com", Plans: []SeedPlan{
			{Name: "Standard", Features: []string{"Full HD", "2 screens"}, Prices: monthlyAndYearly("15.49", "185.88", "13.49", "161.88")},
			{Name: "Premium", Features: []string{"4K + HDR", "4 screens"}, Prices: monthlyAndYearly("22.99", "275.88", "19.99", "239.88")},
		}},
		{Name: "Disney+", Slug: "disney-plus", WebsiteURL: "https://www.disneyplus.com", Plans: []SeedPlan{
			{Name: "Standard", Features: []string{"Full HD", "2 screens"}, Prices: monthlyAndYearly("9.99", "99.99", "9.99", "99.90")},
		}},
	}},
	{Name: "Music", Slug: "music", Icon: "music", Color: "#1DB954", Products: []SeedProduct{
		{Name: "Spotify", Slug: "spotify", WebsiteURL: "https://www.spotify.com", Plans: []SeedPlan{
			{Name: "Individual", Features: []string{"Ad-free music"}, Prices: monthlyAndYearly("11.99", "143.88", "10.99", "131.88")},
			{Name: "Family", Features: []string{"Up to 6 accounts"}, Prices: monthlyAndYearly("19.99", "239.88", "17.99", "215.88")},
		}},
	}},
	{Name: "Software", Slug: "software", Icon: "code", Color: "#0078D4", Products: []SeedProduct{
		{Name: "Microsoft 365", Slug: "microsoft-365", WebsiteURL: "https://www.microsoft.com/microsoft-365", Plans: []SeedPlan{
			{Name: "Personal", Features: []string{"1 TB cloud storage"}, Prices: monthlyAndYearly("9.99", "99.99", "10.00", "99.00")},
		}},
		{Name: "GitHub", Slug: "github", WebsiteURL: "https://github.com", Plans: []SeedPlan{
			{Name: "Pro", Features: []string{"Unlimited private repositories"}, Prices: monthlyAndYearly("4.00", "48.00", "4.00", "48.00")},
		}},
	}},
	{Name: "Cloud Storage", Slug: "cloud-storage", Icon: "cloud", Color: "#4285F4", Products: []SeedProduct{
		{Name: "Google One", Slug: "google-one", WebsiteURL: "https://one.google.com", Plans: []SeedPlan{
			{Name: "Basic", Features: []string{"100 GB storage"}, Prices: monthlyAndYearly("1.99", "19.99", "1.99", "19.99")},
		}},
	}},
}

// Seed loads catalog unless the store already holds a category other than the reserved one.
func (m *Manager) Seed(ctx context.Context, uow unitofwork.UnitOfWork, catalog []SeedCategory) (*SeedResult, error) {
	existing, err := uow.CategoryRepository().FindAll(ctx)
	if err != nil {
		return nil, apperror.Store("find categories", err)
	}
	for _, c := range existing {
		if c.Slug != entity.CustomCategorySlug {
			return &SeedResult{Skipped: true}, nil
		}
	}

	res := &SeedResult{}
	active := true
	for _, sc := range catalog {
		category, err := m.CreateCategory(ctx, uow, dto.CreateCategoryRequest{
			Name:  sc.Name,
			Slug:  sc.Slug,
			Icon:  optional(sc.Icon),
			Color: optional(sc.Color),
		})
		if err != nil {
			return res, err
		}
		res.Categories++

		for _, sp := range sc.Products {
			product, err := m.CreateProduct(ctx, uow, dto.CreateProductRequest{
				Name:       sp.Name,
				Slug:       sp.Slug,
				WebsiteURL: optional(sp.WebsiteURL),
				CategoryId: category.Id,
				IsActive:   &active,
			})
			if err != nil {
				return res, err
			}
			res.Products++

			for _, spl := range sp.Plans {
				plan, err := m.CreatePlan(ctx, uow, dto.CreatePlanRequest{
					ProductId: product.Id,
					Name:      spl.Name,
					Features:  spl.Features,
				})
				if err != nil {
					return res, err
				}
				res.Plans++

				for _, price := range spl.Prices {
					amount, err := decimal.NewFromString(price.Amount)
					if err != nil {
						return res, apperror.NewValidation("amount", "invalid seed amount "+price.Amount)
					}
					if _, err := m.CreatePrice(ctx, uow, dto.CreatePriceRequest{
						PlanId:   plan.Id,
						Amount:   amount,
						Currency: price.Currency,
						Interval: string(price.Interval),
						IsActive: &active,
					}); err != nil {
						return res, err
					}
					res.Prices++
				}
			}
		}
	}
	return res, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
