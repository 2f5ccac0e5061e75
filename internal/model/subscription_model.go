package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Subscription struct {
	Id                       uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId                   uuid.UUID        `gorm:"type:uuid;not null;index"`
	PlanId                   uuid.UUID        `gorm:"type:uuid;not null;index"`
	PriceId                  uuid.UUID        `gorm:"type:uuid;not null;index"`
	Status                   string           `gorm:"type:subscription_status;not null;default:'active';index"`
	StartDate                time.Time        `gorm:"not null"`
	EndDate                  *time.Time
	NextBillingDate          *time.Time       `gorm:"index"`
	CancellationDate         *time.Time
	CancellationNoticePeriod int              `gorm:"default:0"`
	CustomAmount             *decimal.Decimal `gorm:"type:numeric(12,2)"`
	CustomCurrency           *string          `gorm:"type:char(3)"`
	Notes                    *string          `gorm:"type:varchar(500)"`
	CreatedAt                time.Time        `gorm:"autoCreateTime"`
	UpdatedAt                time.Time        `gorm:"autoUpdateTime"`

	Plan  *Plan  `gorm:"foreignKey:PlanId"`
	Price *Price `gorm:"foreignKey:PriceId"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}
