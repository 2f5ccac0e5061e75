package memory

import (
	"context"

	"subtracker-be/internal/entity"
	"subtracker-be/internal/repository/contract"
	"subtracker-be/internal/repository/specification"
)

type auditLogRepository struct {
	store *Store
}

func NewAuditLogRepository(store *Store) contract.AuditLogRepository {
	return &auditLogRepository{store: store}
}

func auditLogRow(a *entity.AuditLog) row {
	return row{
		"id":          a.Id,
		"user_id":     a.UserId,
		"action":      a.Action,
		"entity_type": a.EntityType,
		"entity_id":   a.EntityId,
		"created_at":  a.CreatedAt,
	}
}

func (r *auditLogRepository) Create(ctx context.Context, log *entity.AuditLog) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.stamp(&log.Id, &log.CreatedAt, nil)
	r.store.auditLogs[log.Id] = cloneAuditLog(log)
	return nil
}

func (r *auditLogRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AuditLog, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	specs = append(append([]specification.Specification{}, specs...), specification.OrderBy{Field: "created_at", Desc: true})
	found, err := query(values(r.store.auditLogs), auditLogRow, specs)
	if err != nil {
		return nil, err
	}
	out := make([]*entity.AuditLog, len(found))
	for i, a := range found {
		out[i] = cloneAuditLog(a)
	}
	return out, nil
}

func (r *auditLogRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, err := r.FindAll(ctx, specs...)
	return int64(len(all)), err
}
