package model

import "time"

// AuditLogEntry is append-only. The core writes entries and never reads them back.
type AuditLogEntry struct {
	ID         string         `bson:"_id,omitempty" json:"id"`
	ActorID    string         `bson:"actorId" json:"actor_id"`
	Action     string         `bson:"action" json:"action"` // role:assign, blog:publish, ...
	EntityType string         `bson:"entityType" json:"entity_type"`
	EntityID   string         `bson:"entityId" json:"entity_id"`
	Meta       map[string]any `bson:"meta,omitempty" json:"meta,omitempty"`
	Timestamp  time.Time      `bson:"timestamp" json:"timestamp"`
}
