package model

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientStock is returned when a movement would drive a
	// position's quantity below zero. The movement is rejected, never clamped.
	ErrInsufficientStock = errors.New("insufficient stock for movement")

	// ErrInvalidMovement is returned for malformed movement input.
	ErrInvalidMovement = errors.New("invalid movement")

	// ErrMissingReason is returned when a manual adjustment carries no reason.
	ErrMissingReason = errors.New("reason is required for manual adjustments")

	// ErrSignMismatch is returned when the delta sign contradicts the kind.
	ErrSignMismatch = errors.New("quantity delta sign does not match movement kind")

	// ErrInvalidPagination is returned for malformed history pagination input.
	ErrInvalidPagination = errors.New("invalid pagination")
)

// NewInsufficientStockError reports the shortfall for one key.
func NewInsufficientStockError(current, delta int64) error {
	return fmt.Errorf("%w: on hand %d, delta %d", ErrInsufficientStock, current, delta)
}

// IsValidationError reports whether err is a movement validation error.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidMovement) ||
		errors.Is(err, ErrMissingReason) ||
		errors.Is(err, ErrSignMismatch) ||
		errors.Is(err, ErrInvalidPagination)
}
