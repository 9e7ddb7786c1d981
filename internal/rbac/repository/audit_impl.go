package repository

import (
	"context"
	"time"

	"journal/internal/rbac/adapter"
	"journal/internal/rbac/model"
)

// AuditEntry is a helper for building audit log records.
type AuditEntry struct {
	ActorID    string
	Action     string
	EntityType string
	EntityID   string
	Meta       map[string]any
}

// ToAuditLogEntry stamps the entry with ts.
func (e *AuditEntry) ToAuditLogEntry(ts time.Time) *model.AuditLogEntry {
	return &model.AuditLogEntry{
		ActorID:    e.ActorID,
		Action:     e.Action,
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		Meta:       e.Meta,
		Timestamp:  ts,
	}
}

func (r *DocumentRepository) CreateAuditLog(ctx context.Context, entry *model.AuditLogEntry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = r.Store.Now()
	}
	id, err := r.Store.Add(ctx, r.Collections.AuditLogs, entry)
	if err != nil {
		return err
	}
	entry.ID = id
	return nil
}

func (r *DocumentRepository) FindAuditLogs(ctx context.Context, req model.GetAuditLogsReq) ([]*model.AuditLogEntry, int64, error) {
	var where []adapter.Where
	if req.ActorID != "" {
		where = append(where, adapter.Eq("actorId", req.ActorID))
	}
	if req.Action != "" {
		where = append(where, adapter.Eq("action", req.Action))
	}
	if req.EntityType != "" {
		where = append(where, adapter.Eq("entityType", req.EntityType))
	}
	if req.EntityID != "" {
		where = append(where, adapter.Eq("entityId", req.EntityID))
	}
	if req.StartTime != nil {
		where = append(where, adapter.Gte("timestamp", *req.StartTime))
	}
	if req.EndTime != nil {
		where = append(where, adapter.Lte("timestamp", *req.EndTime))
	}

	total, err := r.Store.Count(ctx, r.Collections.AuditLogs, where)
	if err != nil {
		return nil, 0, err
	}

	snaps, err := r.Store.Find(ctx, r.Collections.AuditLogs, adapter.Query{
		Where:   where,
		OrderBy: "timestamp",
		Desc:    true,
		Offset:  (req.Page - 1) * req.Size,
		Limit:   req.Size,
	})
	if err != nil {
		return nil, 0, err
	}

	results, err := decodeAll[model.AuditLogEntry](snaps)
	if err != nil {
		return nil, 0, err
	}
	return results, total, nil
}
