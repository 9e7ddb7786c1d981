package service

import (
	"errors"
	"fmt"

	"journal/internal/rbac/adapter"
)

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("validation failed")
	// ErrConflict is a validation failure caused by a uniqueness rule.
	ErrConflict         = fmt.Errorf("%w: conflict", ErrValidation)
	ErrStoreUnavailable = errors.New("store unavailable")
)

func validationError(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}

func conflictError(msg string) error {
	return fmt.Errorf("%w: %s", ErrConflict, msg)
}

// storeError classifies a repository failure. Missing documents become
// ErrNotFound; everything else is reported as ErrStoreUnavailable with the
// driver error kept in the chain.
func storeError(op string, err error) error {
	if errors.Is(err, adapter.ErrNotFound) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
}
