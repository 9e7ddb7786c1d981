package model

import "time"

// Role is a catalog entry in the roles collection.
type Role struct {
	ID          string       `bson:"_id,omitempty" json:"id"`
	Name        string       `bson:"name" json:"name"`
	Level       int          `bson:"level" json:"level"`
	Description string       `bson:"description,omitempty" json:"description,omitempty"`
	Permissions []Permission `bson:"permissions" json:"permissions"`
	CreatedAt   time.Time    `bson:"createdAt,omitempty" json:"created_at,omitempty"`
	UpdatedAt   time.Time    `bson:"updatedAt,omitempty" json:"updated_at,omitempty"`
}

// UserRoleAssignment is a row in userRoles. Rows are replaced, never updated.
type UserRoleAssignment struct {
	ID         string    `bson:"_id,omitempty" json:"id"`
	UserID     string    `bson:"userId" json:"user_id"`
	RoleID     string    `bson:"roleId" json:"role_id"`
	AssignedBy string    `bson:"assignedBy" json:"assigned_by"`
	AssignedAt time.Time `bson:"assignedAt" json:"assigned_at"`
}

// UserRole is an assignment joined with its catalog role.
type UserRole struct {
	AssignmentID string `json:"assignment_id"`
	UserID       string `json:"user_id,omitempty"`
	RoleID       string `json:"role_id"`
	Role         *Role  `json:"role"`
}

// ErrorResponse for consistent error handling
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func (e *ErrorDetail) Error() string {
	return e.Message
}

type PermissionSummary struct {
	UserID              string       `json:"user_id,omitempty"`
	Roles               []*UserRole  `json:"roles"`
	Level               int          `json:"level"`
	RoleName            string       `json:"role_name"`
	Permissions         []Permission `json:"permissions"`
	CanAccessAdmin      bool         `json:"can_access_admin"`
	CanManageAllContent bool         `json:"can_manage_all_content"`
	IsOwner             bool         `json:"is_owner"`
}

type CheckPermissionResponse struct {
	Allowed bool `json:"allowed"`
	// RequiredRoles lists catalog roles that would grant the permission
	RequiredRoles []string `json:"required_roles,omitempty"`
}

type SeedRolesResponse struct {
	Roles []string `json:"roles"`
}

type AssignRoleResponse struct {
	AssignmentID string `json:"assignment_id"`
	RoleID       string `json:"role_id"`
}

type CleanupResponse struct {
	Deleted int `json:"deleted"`
}

type SeedPostsResponse struct {
	PostIDs []string `json:"post_ids"`
}
