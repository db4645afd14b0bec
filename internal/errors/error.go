// Package errors provides custom error types for inventory operations.
package errors

import "errors"

// Product validation failures.
var (
	ErrInvalidIdentifier = errors.New("product id must be a positive integer")
	ErrInvalidName       = errors.New("product name must not be blank")
	ErrInvalidQuantity   = errors.New("product quantity must be a non-negative integer")
	ErrInvalidPrice      = errors.New("product price must be a non-negative number")
)

var (
	ErrDuplicateIdentifier = errors.New("product with this id already exists")
	ErrProductNotFound     = errors.New("product not found")
	ErrStorageFailure      = errors.New("storage failure")
	ErrInventoryClosed     = errors.New("inventory is closed")
)

// IsValidation reports whether err is one of the product validation failures.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidIdentifier) ||
		errors.Is(err, ErrInvalidName) ||
		errors.Is(err, ErrInvalidQuantity) ||
		errors.Is(err, ErrInvalidPrice)
}
