package model

import "strings"

// UserIDReq carries the :user_id path parameter.
type UserIDReq struct {
	UserID string `param:"user_id" validate:"required,min=1,max=128"`
}

func (r *UserIDReq) Validate() error {
	r.UserID = strings.TrimSpace(r.UserID)
	if err := GetValidator().Struct(r); err != nil {
		return FormatValidationError(err)
	}
	return nil
}

type ChangeUserRoleReq struct {
	UserID string `param:"user_id" validate:"required,min=1,max=128"`
	RoleID string `json:"role_id" validate:"required,min=1,max=50"`
}

func (r *ChangeUserRoleReq) Validate() error {
	r.UserID = strings.TrimSpace(r.UserID)
	r.RoleID = strings.ToLower(strings.TrimSpace(r.RoleID))

	if err := GetValidator().Struct(r); err != nil {
		return FormatValidationError(err)
	}

	if r.RoleID == RoleGuest {
		return &ErrorDetail{Code: "bad_request", Message: "guest role cannot be assigned"}
	}
	if !AssignableRoles[r.RoleID] {
		return &ErrorDetail{Code: "bad_request", Message: "invalid role: must be one of [owner, admin, verified_user, unverified_user]"}
	}
	return nil
}
