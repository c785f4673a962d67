// Package errs defines the domain error kinds shared by services and
// controllers. Services return one of these sentinels (usually wrapped with
// fmt.Errorf and %w to add detail); controllers map them onto HTTP statuses
// with errors.Is. Anything that doesn't match a sentinel is a server error.
package errs

import "errors"

var (
	// ErrNotFound — an entity id did not resolve to a record.
	ErrNotFound = errors.New("not found")

	// ErrForbidden — the authenticated user does not own the resource.
	ErrForbidden = errors.New("forbidden")

	// ErrInsufficientStock — requested quantity exceeds available stock.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrEmptyCart — checkout was attempted with no cart lines.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrValidation — malformed or missing required input.
	ErrValidation = errors.New("validation failed")
)

// Kind names the sentinel an error wraps, for metric labels and log fields.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, ErrEmptyCart):
		return "empty_cart"
	case errors.Is(err, ErrValidation):
		return "validation"
	default:
		return "internal"
	}
}
