package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type AuditLog struct {
	Id         uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId     *uuid.UUID        `gorm:"type:uuid;index"`
	Action     string            `gorm:"type:varchar(50);not null"`
	EntityType string            `gorm:"type:varchar(50);not null;index"`
	EntityId   uuid.UUID         `gorm:"type:uuid;not null"`
	OldValues  datatypes.JSONMap `gorm:"type:jsonb"`
	NewValues  datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt  time.Time         `gorm:"default:now();not null;index"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
