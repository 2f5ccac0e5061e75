package dto

import (
	"time"

	"github.com/google/uuid"
)

type AdminStatsResponse struct {
	TotalUsers          int64 `json:"totalUsers"`
	ActiveUsers         int64 `json:"activeUsers"`
	TotalSubscriptions  int64 `json:"totalSubscriptions"`
	ActiveSubscriptions int64 `json:"activeSubscriptions"`
	TotalProducts       int64 `json:"totalProducts"`
	TotalCategories     int64 `json:"totalCategories"`
}

type AuditLogListRequest struct {
	Page       int    `query:"page" validate:"gte=0"`
	Limit      int    `query:"limit" validate:"gte=0,lte=100"`
	EntityType string `query:"entityType"`
	Action     string `query:"action"`
}

type AuditLogResponse struct {
	Id         uuid.UUID              `json:"id"`
	UserId     *uuid.UUID             `json:"userId"`
	Action     string                 `json:"action"`
	EntityType string                 `json:"entityType"`
	EntityId   uuid.UUID              `json:"entityId"`
	OldValues  map[string]interface{} `json:"oldValues,omitempty"`
	NewValues  map[string]interface{} `json:"newValues,omitempty"`
	CreatedAt  time.Time              `json:"createdAt"`
}

type AuditLogListResponse struct {
	Logs  []AuditLogResponse
	Page  int
	Limit int
	Total int64
}

type SystemLogListRequest struct {
	Level string `query:"level" validate:"omitempty,oneof=DEBUG INFO WARN ERROR"`
	Page  int    `query:"page" validate:"gte=0"`
	Limit int    `query:"limit" validate:"gte=0,lte=100"`
}
