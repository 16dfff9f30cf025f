package domain

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrCartNotFound means the remote system no longer knows the cart (expired or checked out).
	ErrCartNotFound = errors.New("cart not found")
	// ErrInvalidQuantity is returned when a caller passes a quantity below one.
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	// ErrMutationInFlight is returned when a cart mutation starts while another one is running.
	ErrMutationInFlight = errors.New("another cart update is in progress")

	ErrVariantRequired    = errors.New("no variant selected")
	ErrVariantUnavailable = errors.New("variant is not available for sale")
	ErrComingSoon         = errors.New("variant is coming soon")
	ErrExceedsAvailable   = errors.New("quantity exceeds available stock")
)

// UserError is a validation failure reported by the commerce backend.
type UserError struct {
	Field   []string
	Message string
}

func (e *UserError) Error() string {
	if len(e.Field) == 0 {
		return e.Message
	}
	return strings.Join(e.Field, ".") + ": " + e.Message
}

// UserErrors joins several backend validation failures into one error.
// It returns nil when list is empty.
func UserErrors(list []UserError) error {
	if len(list) == 0 {
		return nil
	}
	errs := make([]error, 0, len(list))
	for i := range list {
		ue := list[i]
		errs = append(errs, &ue)
	}
	return errors.Join(errs...)
}
