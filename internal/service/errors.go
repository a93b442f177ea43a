// Package service holds the application's business rules: the booking
// protocol, the room directory, popularity statistics and authentication.
// Services return the error types below; the HTTP layer maps them onto
// status codes.
package service

import (
	"errors"

	"github.com/iliyamo/study-room-reservation/internal/validation"
)

// ErrForbidden is returned when the caller lacks the admin role.
var ErrForbidden = errors.New("forbidden")

// ValidationError reports malformed or missing input on a single field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Field + ": " + e.Message }

// ConflictError reports a duplicate room or an already booked slot.
type ConflictError struct{ Message string }

func (e *ConflictError) Error() string { return e.Message }

// NotFoundError reports an operation on a nonexistent reservation or room.
type NotFoundError struct{ Message string }

func (e *NotFoundError) Error() string { return e.Message }

// UnauthorizedError reports a failed or incomplete login.
type UnauthorizedError struct{ Message string }

func (e *UnauthorizedError) Error() string { return e.Message }

// fromResult turns the first validation problem into a ValidationError.
func fromResult(res validation.Result) error {
	if fe, ok := res.First(); ok {
		return &ValidationError{Field: fe.Field, Message: fe.Message}
	}
	return nil
}
