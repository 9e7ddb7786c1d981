package handler

import (
	"net/http"
	"strconv"

	"journal/internal/rbac/identity"
	"journal/internal/rbac/model"

	"github.com/labstack/echo/v4"
)

func HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// GetMyPermissions handles GET /me/permissions. Guests get the guest summary.
func (h *Handler) GetMyPermissions(c echo.Context) error {
	userID := callerID(c)
	if refresh, _ := strconv.ParseBool(c.QueryParam("refresh")); refresh {
		h.Service.InvalidateUser(userID)
	}
	return h.mySummary(c, userID)
}

// PostMyDefaultRole handles POST /me/role/default
func (h *Handler) PostMyDefaultRole(c echo.Context) error {
	userID := callerID(c)
	if _, err := h.Service.AssignDefaultRole(c.Request().Context(), userID); err != nil {
		return h.fail(c, err)
	}
	return h.mySummary(c, userID)
}

// PostMyRoleSync handles POST /me/role/sync
func (h *Handler) PostMyRoleSync(c echo.Context) error {
	userID := callerID(c)
	if err := h.Service.UpdateRoleByVerificationStatus(c.Request().Context(), userID); err != nil {
		return h.fail(c, err)
	}
	return h.mySummary(c, userID)
}

// PostMyRoleReset handles POST /me/role/reset
func (h *Handler) PostMyRoleReset(c echo.Context) error {
	if _, err := h.Service.ResetToDefaultRole(c.Request().Context()); err != nil {
		return h.fail(c, err)
	}
	return h.mySummary(c, callerID(c))
}

// PostSignOut handles POST /me/sign_out. The next request counts as a new sign-in.
func (h *Handler) PostSignOut(c echo.Context) error {
	id, _ := identity.FromContext(c.Request().Context())
	if h.Sessions != nil {
		h.Sessions.SignOut(id)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) mySummary(c echo.Context, userID string) error {
	summary, err := h.Service.Summary(c.Request().Context(), userID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, summary)
}

func (h *Handler) PostPermissionsCheck(c echo.Context) error {
	var req model.CheckPermissionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, badRequest("Invalid body"))
	}

	if err := req.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, validationError(err))
	}

	resp, err := h.Service.CheckPermission(c.Request().Context(), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}
