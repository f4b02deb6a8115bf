package model

import (
	"errors"
	"fmt"
)

var (
	// ErrOrderNotFound is returned when a purchase order does not exist.
	ErrOrderNotFound = errors.New("purchase order not found")

	// ErrAttachmentNotFound is returned when an attachment does not exist.
	ErrAttachmentNotFound = errors.New("attachment not found")

	// ErrInvalidOrder is returned for malformed order input.
	ErrInvalidOrder = errors.New("invalid purchase order")

	// ErrInvalidStatusTransition is returned for an illegal state change,
	// including deleting or editing an order that left borrador.
	ErrInvalidStatusTransition = errors.New("invalid order status transition")

	// ErrConcurrentModification is returned when a stale version tries to
	// mutate an order that changed underneath it.
	ErrConcurrentModification = errors.New("purchase order was modified concurrently")

	// ErrReceiveExceedsOrdered is returned when a received quantity would
	// overshoot a line's remaining ordered quantity.
	ErrReceiveExceedsOrdered = errors.New("received quantity exceeds remaining ordered quantity")
)

// NewInvalidTransitionError names the rejected transition.
func NewInvalidTransitionError(from, to Status) error {
	return fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, from, to)
}

// IsNotFoundError reports whether err is a purchase not-found error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrOrderNotFound) || errors.Is(err, ErrAttachmentNotFound)
}

// IsValidationError reports whether err is a purchase validation error.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidOrder) || errors.Is(err, ErrReceiveExceedsOrdered)
}

// IsConflictError reports whether err should map to HTTP 409.
func IsConflictError(err error) bool {
	return errors.Is(err, ErrInvalidStatusTransition) || errors.Is(err, ErrConcurrentModification)
}
