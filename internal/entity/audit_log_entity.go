package entity

import (
	"time"

	"github.com/google/uuid"
)

type AuditLog struct {
	Id         uuid.UUID
	UserId     *uuid.UUID
	Action     string
	EntityType string
	EntityId   uuid.UUID
	OldValues  map[string]interface{}
	NewValues  map[string]interface{}
	CreatedAt  time.Time
}
