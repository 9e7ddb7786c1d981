package handler

import (
	"net/http"

	"journal/internal/rbac/model"

	"github.com/labstack/echo/v4"
)

// PostSetupRoles handles POST /setup/roles
func (h *Handler) PostSetupRoles(c echo.Context) error {
	roles, err := h.Service.SeedRoles(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, model.SeedRolesResponse{Roles: roles})
}

// PostSetupOwner handles POST /setup/owner
func (h *Handler) PostSetupOwner(c echo.Context) error {
	id, err := h.Service.MakeCurrentUserOwner(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, model.AssignRoleResponse{AssignmentID: id, RoleID: model.RoleOwner})
}

// PostSetupSamplePosts handles POST /setup/sample_posts
func (h *Handler) PostSetupSamplePosts(c echo.Context) error {
	ids, err := h.Service.SeedSamplePosts(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, model.SeedPostsResponse{PostIDs: ids})
}

// GetUserRoles handles GET /user_roles
func (h *Handler) GetUserRoles(c echo.Context) error {
	roles, err := h.Service.ListAssignments(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, roles)
}

// GetUserRolesByUser handles GET /user_roles/:user_id
func (h *Handler) GetUserRolesByUser(c echo.Context) error {
	var req model.UserIDReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, badRequest("Invalid parameters"))
	}
	if err := req.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, validationError(err))
	}

	roles, err := h.Service.ViewUserRoles(c.Request().Context(), req.UserID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, roles)
}

// PutUserRole handles PUT /user_roles/:user_id
func (h *Handler) PutUserRole(c echo.Context) error {
	var req model.ChangeUserRoleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, badRequest("Invalid body"))
	}
	if err := req.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, validationError(err))
	}

	id, err := h.Service.ChangeUserRole(c.Request().Context(), req.UserID, req.RoleID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, model.AssignRoleResponse{AssignmentID: id, RoleID: req.RoleID})
}

// DeleteUserRoles handles DELETE /user_roles/:user_id
func (h *Handler) DeleteUserRoles(c echo.Context) error {
	var req model.UserIDReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, badRequest("Invalid parameters"))
	}
	if err := req.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, validationError(err))
	}

	removed, err := h.Service.RevokeUserRoles(c.Request().Context(), req.UserID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, model.CleanupResponse{Deleted: removed})
}

// PostCleanupUserRoles handles POST /user_roles/cleanup
func (h *Handler) PostCleanupUserRoles(c echo.Context) error {
	deleted, err := h.Service.CleanupDuplicateRoles(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, model.CleanupResponse{Deleted: deleted})
}

// GetAuditLogs handles GET /audit_logs
func (h *Handler) GetAuditLogs(c echo.Context) error {
	var req model.GetAuditLogsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, badRequest("Invalid parameters"))
	}
	if err := req.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, validationError(err))
	}

	result, err := h.Service.GetAuditLogs(c.Request().Context(), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, result)
}
