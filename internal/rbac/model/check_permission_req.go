package model

import "strings"

type CheckPermissionReq struct {
	Permission string `json:"permission" validate:"required,max=50"`
	// UserID defaults to the caller. Checking someone else requires admin access.
	UserID string `json:"user_id" validate:"omitempty,max=128"`
}

func (r *CheckPermissionReq) Validate() error {
	r.Permission = strings.TrimSpace(r.Permission)
	r.UserID = strings.TrimSpace(r.UserID)

	if err := GetValidator().Struct(r); err != nil {
		return FormatValidationError(err)
	}

	if _, ok := ParsePermission(r.Permission); !ok {
		return &ErrorDetail{Code: "bad_request", Message: "unknown permission: " + r.Permission}
	}
	return nil
}
