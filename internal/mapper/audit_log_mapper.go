package mapper

import (
	"subtracker-be/internal/entity"
	"subtracker-be/internal/model"

	"gorm.io/datatypes"
)

type AuditLogMapper struct{}

func NewAuditLogMapper() *AuditLogMapper {
	return &AuditLogMapper{}
}

func (m *AuditLogMapper) ToEntity(a *model.AuditLog) *entity.AuditLog {
	if a == nil {
		return nil
	}
	return &entity.AuditLog{
		Id:         a.Id,
		UserId:     a.UserId,
		Action:     a.Action,
		EntityType: a.EntityType,
		EntityId:   a.EntityId,
		OldValues:  map[string]interface{}(a.OldValues),
		NewValues:  map[string]interface{}(a.NewValues),
		CreatedAt:  a.CreatedAt,
	}
}

func (m *AuditLogMapper) ToModel(a *entity.AuditLog) *model.AuditLog {
	if a == nil {
		return nil
	}
	return &model.AuditLog{
		Id:         a.Id,
		UserId:     a.UserId,
		Action:     a.Action,
		EntityType: a.EntityType,
		EntityId:   a.EntityId,
		OldValues:  datatypes.JSONMap(a.OldValues),
		NewValues:  datatypes.JSONMap(a.NewValues),
		CreatedAt:  a.CreatedAt,
	}
}
