package model

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrProductNotFound is returned when a product does not exist.
	ErrProductNotFound = errors.New("product not found")

	// ErrSupplierNotFound is returned when a supplier does not exist.
	ErrSupplierNotFound = errors.New("supplier not found")

	// ErrSKUAlreadyExists is returned when creating a product with a taken SKU.
	ErrSKUAlreadyExists = errors.New("a product with this SKU already exists")

	// ErrSKUImmutable is returned when an update tries to change a SKU.
	ErrSKUImmutable = errors.New("SKU cannot be changed after creation")

	// ErrInvalidProduct is returned for malformed product input.
	ErrInvalidProduct = errors.New("invalid product")
)

// NewProductNotFoundError adds the looked-up ID to the sentinel.
func NewProductNotFoundError(id uuid.UUID) error {
	return fmt.Errorf("%w: id=%s", ErrProductNotFound, id)
}

// IsNotFoundError reports whether err is a catalog not-found error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrProductNotFound) || errors.Is(err, ErrSupplierNotFound)
}

// IsValidationError reports whether err is a catalog validation error.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidProduct) ||
		errors.Is(err, ErrSKUAlreadyExists) ||
		errors.Is(err, ErrSKUImmutable)
}
