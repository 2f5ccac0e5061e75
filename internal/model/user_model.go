package model

import (
	"time"

	"github.com/google/uuid"
)

// User rows are created by the auth provider's signup hook; this service only reads them.
type User struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email     string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	FullName  *string   `gorm:"type:varchar(255)"`
	Role      string    `gorm:"type:user_role;not null;default:'end_user'"`
	Status    string    `gorm:"type:varchar(50);not null;default:'active'"`
	Currency  string    `gorm:"type:char(3);not null;default:'USD'"`
	Locale    string    `gorm:"type:varchar(10);not null;default:'en'"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}
