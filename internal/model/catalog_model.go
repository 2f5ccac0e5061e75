package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type Category struct {
	Id        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string     `gorm:"type:varchar(100);not null"`
	Slug      string     `gorm:"type:varchar(100);uniqueIndex;not null"`
	Icon      *string    `gorm:"type:varchar(100)"`
	Color     *string    `gorm:"type:varchar(20)"`
	ParentId  *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt time.Time  `gorm:"autoCreateTime"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime"`
}

func (Category) TableName() string {
	return "categories"
}

type Product struct {
	Id          uuid.UUID                            `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string                               `gorm:"type:varchar(100);not null"`
	Slug        string                               `gorm:"type:varchar(150);uniqueIndex;not null"`
	Description datatypes.JSONType[map[string]string] `gorm:"type:jsonb"`
	LogoURL     *string                              `gorm:"column:logo_url;type:text"`
	WebsiteURL  *string                              `gorm:"column:website_url;type:text"`
	CategoryId  uuid.UUID                            `gorm:"type:uuid;not null;index"`
	IsActive    bool                                 `gorm:"default:true"`
	IsCustom    bool                                 `gorm:"default:false"`
	CreatedAt   time.Time                            `gorm:"autoCreateTime"`
	UpdatedAt   time.Time                            `gorm:"autoUpdateTime"`

	Category *Category `gorm:"foreignKey:CategoryId"`
	Plans    []*Plan   `gorm:"foreignKey:ProductId"`
}

func (Product) TableName() string {
	return "products"
}

type Plan struct {
	Id          uuid.UUID                   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductId   uuid.UUID                   `gorm:"type:uuid;not null;index"`
	Name        string                      `gorm:"type:varchar(100);not null"`
	Description *string                     `gorm:"type:varchar(500)"`
	Features    datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	CreatedAt   time.Time                   `gorm:"autoCreateTime"`
	UpdatedAt   time.Time                   `gorm:"autoUpdateTime"`

	Prices []*Price `gorm:"foreignKey:PlanId"`
}

func (Plan) TableName() string {
	return "plans"
}

type Price struct {
	Id        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PlanId    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount    decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Currency  string          `gorm:"type:char(3);not null"`
	Interval  string          `gorm:"type:billing_interval;not null"`
	IsActive  bool            `gorm:"default:true"`
	CreatedAt time.Time       `gorm:"autoCreateTime"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime"`
}

func (Price) TableName() string {
	return "prices"
}

type PriceHistory struct {
	Id            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PriceId       uuid.UUID       `gorm:"type:uuid;not null;index"`
	OldAmount     decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	NewAmount     decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	ChangeReason  *string         `gorm:"type:text"`
	EffectiveDate time.Time       `gorm:"not null"`
	CreatedAt     time.Time       `gorm:"autoCreateTime"`
}

func (PriceHistory) TableName() string {
	return "price_history"
}
