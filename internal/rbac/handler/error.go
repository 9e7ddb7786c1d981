package handler

import (
	"errors"
	"net/http"
	"strings"

	"journal/internal/rbac/model"
	"journal/internal/rbac/service"

	"github.com/labstack/echo/v4"
)

// Helper to map errors to HTTP status and body
func httpError(err error) (int, model.ErrorResponse) {
	var detail *model.ErrorDetail
	if errors.As(err, &detail) {
		return http.StatusBadRequest, model.ErrorResponse{Error: *detail}
	}

	var code string
	var msg string
	var status int

	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		status = http.StatusUnauthorized
		code = "unauthorized"
		msg = "Sign in required"
	case errors.Is(err, service.ErrUnauthorized):
		status = http.StatusForbidden
		code = "forbidden"
		msg = "Permission denied"
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
		code = "not_found"
		msg = "Not found"
	// ErrConflict wraps ErrValidation, so it is matched first.
	case errors.Is(err, service.ErrConflict):
		status = http.StatusConflict
		code = "conflict"
		msg = reason(err, service.ErrConflict)
	case errors.Is(err, service.ErrValidation):
		status = http.StatusBadRequest
		code = "bad_request"
		msg = reason(err, service.ErrValidation)
	case errors.Is(err, service.ErrStoreUnavailable):
		status = http.StatusServiceUnavailable
		code = "store_unavailable"
		msg = "Storage is temporarily unavailable"
	default:
		status = http.StatusInternalServerError
		code = "internal_error"
		msg = "Internal error"
	}

	return status, model.ErrorResponse{
		Error: model.ErrorDetail{Code: code, Message: msg},
	}
}

// reason strips the sentinel prefix so clients see only the rule that failed.
func reason(err, sentinel error) string {
	msg := err.Error()
	if i := strings.LastIndex(msg, sentinel.Error()+": "); i >= 0 {
		return msg[i+len(sentinel.Error())+2:]
	}
	return msg
}

func validationError(err error) model.ErrorResponse {
	var detail *model.ErrorDetail
	if errors.As(err, &detail) {
		return model.ErrorResponse{Error: *detail}
	}
	return model.ErrorResponse{
		Error: model.ErrorDetail{Code: "bad_request", Message: err.Error()},
	}
}

func badRequest(msg string) model.ErrorResponse {
	return model.ErrorResponse{
		Error: model.ErrorDetail{Code: "bad_request", Message: msg},
	}
}

// fail writes err as JSON, tagging the body with the request id.
func (h *Handler) fail(c echo.Context, err error) error {
	status, body := httpError(err)
	body.Error.RequestID = c.Response().Header().Get(echo.HeaderXRequestID)
	if status >= http.StatusInternalServerError {
		h.Logger.Error("request failed", "path", c.Path(), "request_id", body.Error.RequestID, "error", err)
	}
	return c.JSON(status, body)
}
