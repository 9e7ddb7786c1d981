package model

import (
	"strings"
	"time"
)

// GetAuditLogsReq filters the audit trail for the operator view.
type GetAuditLogsReq struct {
	ActorID    string `query:"actor_id" validate:"omitempty,max=128"`
	Action     string `query:"action" validate:"omitempty,max=50"`
	EntityType string `query:"entity_type" validate:"omitempty,oneof=user role post"`
	EntityID   string `query:"entity_id" validate:"omitempty,max=128"`

	// Time Filter
	StartTime *time.Time `query:"start_time"`
	EndTime   *time.Time `query:"end_time"`

	// Pagination
	Page int `query:"page" validate:"omitempty,min=1"`
	Size int `query:"size" validate:"omitempty,min=1,max=1000"`
}

func (r *GetAuditLogsReq) Validate() error {
	r.ActorID = strings.TrimSpace(r.ActorID)
	r.Action = strings.ToLower(strings.TrimSpace(r.Action))
	r.EntityType = strings.ToLower(strings.TrimSpace(r.EntityType))
	r.EntityID = strings.TrimSpace(r.EntityID)

	if r.Page <= 0 {
		r.Page = 1
	}
	if r.Size <= 0 {
		r.Size = 100
	}
	if r.Size > 1000 {
		r.Size = 1000
	}

	if err := GetValidator().Struct(r); err != nil {
		return FormatValidationError(err)
	}

	if r.StartTime != nil && r.EndTime != nil && r.EndTime.Before(*r.StartTime) {
		return &ErrorDetail{Code: "bad_request", Message: "end_time must not be before start_time"}
	}

	return nil
}

type GetAuditLogsResp struct {
	Data       []*AuditLogEntry `json:"data"`
	Page       int              `json:"page"`
	Size       int              `json:"size"`
	TotalCount int64            `json:"total_count"`
}
