package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- Public catalog ---

type ProductListRequest struct {
	CategoryId string `query:"categoryId"`
}

type CategoryResponse struct {
	Id        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Slug      string     `json:"slug"`
	Icon      *string    `json:"icon"`
	Color     *string    `json:"color"`
	ParentId  *uuid.UUID `json:"parentId"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

type PriceResponse struct {
	Id       uuid.UUID       `json:"id"`
	PlanId   uuid.UUID       `json:"planId"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
	Interval string          `json:"interval"`
	IsActive bool            `json:"isActive"`
}

type PlanResponse struct {
	Id          uuid.UUID       `json:"id"`
	ProductId   uuid.UUID       `json:"productId"`
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	Features    []string        `json:"features"`
	Prices      []PriceResponse `json:"prices"`
}

type ProductResponse struct {
	Id          uuid.UUID         `json:"id"`
	Name        string            `json:"name"`
	Slug        string            `json:"slug"`
	Description map[string]string `json:"description"`
	LogoURL     *string           `json:"logoUrl"`
	WebsiteURL  *string           `json:"websiteUrl"`
	CategoryId  uuid.UUID         `json:"categoryId"`
	IsActive    bool              `json:"isActive"`
	IsCustom    bool              `json:"isCustom"`
	Category    *CategoryResponse `json:"category,omitempty"`
	Plans       []PlanResponse    `json:"plans"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// --- Custom products ---

type CreateCustomProductRequest struct {
	ProductName string          `json:"productName" validate:"required,max=100"`
	PlanName    string          `json:"planName" validate:"omitempty,max=100"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency" validate:"required,currency"`
	Interval    string          `json:"interval" validate:"required,interval"`
}

type CustomProductResponse struct {
	ProductId uuid.UUID `json:"productId"`
	PlanId    uuid.UUID `json:"planId"`
	PriceId   uuid.UUID `json:"priceId"`
}

// --- Admin catalog writes ---

type CreateCategoryRequest struct {
	Name     string     `json:"name" validate:"required,min=1,max=100"`
	Slug     string     `json:"slug" validate:"required,max=100,slug"`
	Icon     *string    `json:"icon" validate:"omitempty,max=50"`
	Color    *string    `json:"color" validate:"omitempty,hexcolor"`
	ParentId *uuid.UUID `json:"parentId"`
}

type UpdateCategoryRequest struct {
	Name     *string    `json:"name" validate:"omitempty,min=1,max=100"`
	Slug     *string    `json:"slug" validate:"omitempty,max=100,slug"`
	Icon     *string    `json:"icon" validate:"omitempty,max=50"`
	Color    *string    `json:"color" validate:"omitempty,hexcolor"`
	ParentId *uuid.UUID `json:"parentId"`
}

type CreateProductRequest struct {
	Name        string            `json:"name" validate:"required,min=1,max=100"`
	Slug        string            `json:"slug" validate:"required,max=100,slug"`
	Description map[string]string `json:"description"`
	LogoURL     *string           `json:"logoUrl" validate:"omitempty,url"`
	WebsiteURL  *string           `json:"websiteUrl" validate:"omitempty,url"`
	CategoryId  uuid.UUID         `json:"categoryId" validate:"required"`
	IsActive    *bool             `json:"isActive"`
}

type UpdateProductRequest struct {
	Name        *string            `json:"name" validate:"omitempty,min=1,max=100"`
	Slug        *string            `json:"slug" validate:"omitempty,max=100,slug"`
	Description *map[string]string `json:"description"`
	LogoURL     *string            `json:"logoUrl" validate:"omitempty,url"`
	WebsiteURL  *string            `json:"websiteUrl" validate:"omitempty,url"`
	CategoryId  *uuid.UUID         `json:"categoryId"`
	IsActive    *bool              `json:"isActive"`
}

type CreatePlanRequest struct {
	ProductId   uuid.UUID `json:"productId" validate:"required"`
	Name        string    `json:"name" validate:"required,min=1,max=100"`
	Description *string   `json:"description" validate:"omitempty,max=500"`
	Features    []string  `json:"features" validate:"omitempty,dive,max=200"`
}

type UpdatePlanRequest struct {
	Name        *string   `json:"name" validate:"omitempty,min=1,max=100"`
	Description *string   `json:"description" validate:"omitempty,max=500"`
	Features    *[]string `json:"features"`
}

type CreatePriceRequest struct {
	PlanId   uuid.UUID       `json:"planId" validate:"required"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency" validate:"required,currency"`
	Interval string          `json:"interval" validate:"required,interval"`
	IsActive *bool           `json:"isActive"`
}

type UpdatePriceRequest struct {
	Amount       *decimal.Decimal `json:"amount"`
	Currency     *string          `json:"currency" validate:"omitempty,currency"`
	Interval     *string          `json:"interval" validate:"omitempty,interval"`
	IsActive     *bool            `json:"isActive"`
	ChangeReason *string          `json:"changeReason" validate:"omitempty,max=255"`
}

type PriceHistoryResponse struct {
	Id            uuid.UUID       `json:"id"`
	PriceId       uuid.UUID       `json:"priceId"`
	OldAmount     decimal.Decimal `json:"oldAmount"`
	NewAmount     decimal.Decimal `json:"newAmount"`
	ChangeReason  *string         `json:"changeReason"`
	EffectiveDate time.Time       `json:"effectiveDate"`
	CreatedAt     time.Time       `json:"createdAt"`
}
