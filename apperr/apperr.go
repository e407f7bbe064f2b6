package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound is the generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput is the generic sentinel for malformed requests.
	ErrInvalidInput = errors.New("invalid input")
	// ErrStoreUnavailable marks a transient failure of the relational store.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrCacheUnavailable marks a cache failure. It is recovered locally and never
	// returned to callers of the services package.
	ErrCacheUnavailable = errors.New("cache unavailable")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("forbidden")

	ErrSkillNotFound    = fmt.Errorf("skill %w", ErrNotFound)
	ErrQuestionNotFound = fmt.Errorf("question %w", ErrNotFound)
	ErrAttemptNotFound  = fmt.Errorf("quiz attempt %w", ErrNotFound)
	ErrNoQuestions      = fmt.Errorf("no questions available for this skill: %w", ErrNotFound)
)

// Unavailable wraps a driver error so that it matches ErrStoreUnavailable
// while keeping the cause inspectable.
func Unavailable(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
}

// Status maps an error to the HTTP status the handlers reply with.
func Status(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
