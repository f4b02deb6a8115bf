package model

import (
	"errors"
	"fmt"
)

var (
	// ErrAlertNotFound is returned when an alert does not exist.
	ErrAlertNotFound = errors.New("reorder alert not found")

	// ErrInvalidStatusTransition is returned for an illegal status change.
	ErrInvalidStatusTransition = errors.New("invalid alert status transition")
)

// NewInvalidTransitionError names the rejected transition.
func NewInvalidTransitionError(from, to Status) error {
	return fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, from, to)
}

// IsNotFoundError reports whether err is an alert not-found error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrAlertNotFound)
}

// IsValidationError reports whether err is an alert validation error.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidStatusTransition)
}
