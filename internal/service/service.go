// Package service holds the application rules sitting between the HTTP
// handlers and the stores: ownership checks, the invitation status
// transitions, field validation, and the bulk operators. Every call takes the
// acting user's id explicitly and returns typed errors the handlers map to
// status codes.
package service

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotFound means no row exists with the given id.
	ErrNotFound = errors.New("not found")
	// ErrForbidden means the row exists but belongs to another user.
	ErrForbidden = errors.New("forbidden")
)

// ValidationError reports malformed input with a message safe to show the
// caller.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationf(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// today returns the current date at UTC midnight, the granularity the
// invitation date columns carry.
func today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
