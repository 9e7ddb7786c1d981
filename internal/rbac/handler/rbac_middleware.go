package handler

import (
	"journal/internal/rbac/service"

	"github.com/labstack/echo/v4"
)

// Route guards. They run after Identity and only decide coarse access;
// services repeat the fine-grained checks.

func (h *Handler) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if callerID(c) == "" {
			return h.fail(c, service.ErrUnauthenticated)
		}
		return next(c)
	}
}

func (h *Handler) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return h.guard(func(c echo.Context, userID string) bool {
		return h.Service.CanAccessAdmin(c.Request().Context(), userID)
	}, next)
}

func (h *Handler) RequireOwner(next echo.HandlerFunc) echo.HandlerFunc {
	return h.guard(func(c echo.Context, userID string) bool {
		return h.Service.IsOwner(c.Request().Context(), userID)
	}, next)
}

// RequireSetupAccess admits allow-listed emails before any owner exists.
func (h *Handler) RequireSetupAccess(next echo.HandlerFunc) echo.HandlerFunc {
	return h.guard(func(c echo.Context, _ string) bool {
		return h.Service.CanRunSetup(c.Request().Context())
	}, next)
}

func (h *Handler) guard(allow func(c echo.Context, userID string) bool, next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID := callerID(c)
		if userID == "" {
			return h.fail(c, service.ErrUnauthenticated)
		}
		if !allow(c, userID) {
			return h.fail(c, service.ErrUnauthorized)
		}
		return next(c)
	}
}
