package handler

import (
	"net/http"
	"strconv"
	"strings"

	"journal/internal/rbac/identity"
	"journal/internal/rbac/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	HeaderUserID        = "x-user-id"
	HeaderUserEmail     = "x-user-email"
	HeaderEmailVerified = "x-email-verified"
)

func RequestIDMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		reqID := c.Request().Header.Get(echo.HeaderXRequestID)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Response().Header().Set(echo.HeaderXRequestID, reqID)
		return next(c)
	}
}

// Identity attaches the caller to the request context and reports the
// sighting to the session tracker. Requests without credentials continue as
// guests; a bad bearer token is rejected.
func (h *Handler) Identity(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := h.identify(c.Request())
		if err != nil {
			return h.fail(c, service.ErrUnauthenticated)
		}
		if !id.Authenticated() {
			return next(c)
		}

		if h.Sessions != nil {
			// a failed role sync is logged by the service and retried on the next request
			_ = h.Sessions.Observe(id)
		}
		c.SetRequest(c.Request().WithContext(identity.WithIdentity(c.Request().Context(), id)))
		return next(c)
	}
}

func (h *Handler) identify(r *http.Request) (identity.Identity, error) {
	if h.Tokens != nil {
		auth := r.Header.Get(echo.HeaderAuthorization)
		if auth == "" {
			return identity.Identity{}, nil
		}
		token, ok := strings.CutPrefix(auth, "Bearer ")
		if !ok {
			return identity.Identity{}, identity.ErrInvalidToken
		}
		return h.Tokens.Verify(token)
	}

	verified, _ := strconv.ParseBool(r.Header.Get(HeaderEmailVerified))
	return identity.Identity{
		UserID:        strings.TrimSpace(r.Header.Get(HeaderUserID)),
		Email:         strings.ToLower(strings.TrimSpace(r.Header.Get(HeaderUserEmail))),
		EmailVerified: verified,
	}, nil
}
