package booking

import (
	"errors"
	"fmt"
)

// CapacityError is raised when available seats are fewer than requested.
// It aborts the attempt before any pricing, persistence or notification.
type CapacityError struct {
	Code    string
	Message string
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewCapacityError(msg string) error {
	return &CapacityError{
		Code:    "capacityError",
		Message: msg,
	}
}

// IsCapacityError reports whether err is (or wraps) a CapacityError.
func IsCapacityError(err error) bool {
	var ce *CapacityError
	return errors.As(err, &ce)
}

// ValidationError is raised when a booking request violates the
// coordinator's preconditions.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewValidationError(msg string) error {
	return &ValidationError{
		Code:    "validationError",
		Message: msg,
	}
}

// IsValidationError reports whether err is (or wraps) a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
