package model

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrProfileNotFound is returned when a treatment has no profile.
	ErrProfileNotFound = errors.New("consumption profile not found")

	// ErrInvalidProfile is returned for malformed profile input.
	ErrInvalidProfile = errors.New("invalid consumption profile")

	// ErrDuplicateProduct is returned when one call lists a product twice.
	ErrDuplicateProduct = errors.New("duplicate product in consumption profile")
)

// NewDuplicateProductError names the offending product.
func NewDuplicateProductError(id uuid.UUID) error {
	return fmt.Errorf("%w: %s", ErrDuplicateProduct, id)
}

// IsNotFoundError reports whether err is a treatment not-found error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrProfileNotFound)
}

// IsValidationError reports whether err is a treatment validation error.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidProfile) || errors.Is(err, ErrDuplicateProduct)
}
