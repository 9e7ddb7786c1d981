package handler

import (
	"log/slog"

	"journal/internal/rbac/identity"
	"journal/internal/rbac/service"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	Service  *service.Service
	Sessions *identity.ContextProvider
	Logger   *slog.Logger

	// Tokens verifies bearer tokens. When nil the identity headers are trusted,
	// which is only suitable behind a gateway that sets them.
	Tokens *identity.TokenVerifier
}

func NewHandler(s *service.Service, sessions *identity.ContextProvider, tokens *identity.TokenVerifier, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{Service: s, Sessions: sessions, Tokens: tokens, Logger: logger}
}

// callerID is set by the Identity middleware; empty means guest.
func callerID(c echo.Context) string {
	id, _ := identity.FromContext(c.Request().Context())
	return id.UserID
}
