package testutil

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"journal/internal/rbac/identity"

	"github.com/labstack/echo/v4"
)

// DiscardLogger drops everything; tests assert on behaviour, not log lines.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// As returns a context carrying a signed-in identity with email <userID>@example.com.
func As(userID string, verified bool) context.Context {
	return identity.WithIdentity(context.Background(), identity.Identity{
		UserID:        userID,
		Email:         userID + "@example.com",
		EmailVerified: verified,
	})
}

// SteppingClock returns a clock that advances by step on every call, so
// records written back to back get distinct timestamps.
func SteppingClock(start time.Time, step time.Duration) func() time.Time {
	var mu sync.Mutex
	now := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(step)
		return now
	}
}

// UserHeaders builds the identity headers the server reads when no JWT secret is set.
func UserHeaders(userID, email string, verified bool) map[string]string {
	h := map[string]string{"x-user-id": userID}
	if email != "" {
		h["x-user-email"] = email
	}
	if verified {
		h["x-email-verified"] = "true"
	}
	return h
}

func PerformRequest(e *echo.Echo, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var bodyReader *strings.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		bodyReader = strings.NewReader(string(b))
	} else {
		bodyReader = strings.NewReader("")
	}

	req := httptest.NewRequest(method, path, bodyReader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}
