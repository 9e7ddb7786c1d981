package router

import (
	"journal/internal/rbac/handler"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func RegisterRoutes(e *echo.Echo, h *handler.Handler, metrics *handler.HTTPMetrics) {
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{echo.GET, echo.PUT, echo.POST, echo.DELETE, echo.OPTIONS},
		AllowHeaders: []string{
			echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization,
			handler.HeaderUserID, handler.HeaderUserEmail, handler.HeaderEmailVerified,
		},
	}))
	if metrics != nil {
		e.Use(metrics.Instrument)
	}

	// Health Check
	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	v1 := e.Group("/api/v1")
	v1.Use(handler.RequestIDMiddleware)
	v1.Use(h.Identity)

	// Setup
	v1.POST("/setup/roles", h.PostSetupRoles, h.RequireSetupAccess)
	v1.POST("/setup/owner", h.PostSetupOwner, h.RequireAuth)
	v1.POST("/setup/sample_posts", h.PostSetupSamplePosts, h.RequireOwner)

	// Current user
	v1.GET("/me/permissions", h.GetMyPermissions)
	v1.POST("/me/role/default", h.PostMyDefaultRole, h.RequireAuth)
	v1.POST("/me/role/sync", h.PostMyRoleSync, h.RequireAuth)
	v1.POST("/me/role/reset", h.PostMyRoleReset, h.RequireAuth)
	v1.POST("/me/sign_out", h.PostSignOut, h.RequireAuth)

	// Guests may check their own permissions
	v1.POST("/permissions/check", h.PostPermissionsCheck)

	// Role administration
	v1.GET("/user_roles", h.GetUserRoles, h.RequireAdmin)
	v1.POST("/user_roles/cleanup", h.PostCleanupUserRoles, h.RequireOwner)
	v1.GET("/user_roles/:user_id", h.GetUserRolesByUser, h.RequireAuth)
	v1.PUT("/user_roles/:user_id", h.PutUserRole, h.RequireAdmin)
	v1.DELETE("/user_roles/:user_id", h.DeleteUserRoles, h.RequireAdmin)
	v1.GET("/audit_logs", h.GetAuditLogs, h.RequireOwner)

	// Posts
	v1.GET("/posts", h.GetPosts)
	v1.POST("/posts", h.PostPost, h.RequireAuth)
	v1.GET("/posts/slug/:slug", h.GetPostBySlug)
	v1.GET("/posts/:id", h.GetPost)
	v1.PUT("/posts/:id", h.PutPost, h.RequireAuth)
	v1.DELETE("/posts/:id", h.DeletePost, h.RequireAuth)
	v1.POST("/posts/:id/publish", h.PostPublish, h.RequireAuth)
	v1.POST("/posts/:id/unpublish", h.PostUnpublish, h.RequireAuth)
	v1.POST("/posts/:id/like", h.PostToggleLike, h.RequireAuth)
	v1.PUT("/posts/:id/like", h.PutLike, h.RequireAuth)
	v1.DELETE("/posts/:id/like", h.DeleteLike, h.RequireAuth)
	v1.GET("/posts/:id/likes", h.GetLikes)

	// Passport map
	v1.GET("/map_points", h.GetMapPoints)
	v1.POST("/map_points", h.PostMapPoint, h.RequireAdmin)
	v1.GET("/map_points/:id", h.GetMapPoint)
	v1.PUT("/map_points/:id", h.PutMapPoint, h.RequireAdmin)
	v1.DELETE("/map_points/:id", h.DeleteMapPoint, h.RequireAdmin)
}
