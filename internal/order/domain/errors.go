package domain

import (
	"fmt"

	"shop-core/pkg/errors"
)

// Domain-specific errors
var (
	ErrEmptyCheckout         = errors.NewValidation("checkout item list is empty", nil)
	ErrInvalidQuantity       = errors.NewValidation("quantity must be greater than 0", nil)
	ErrAddressRequired       = errors.NewValidation("address_id is required", nil)
	ErrInvalidAddress        = errors.NewValidation("delivery address does not exist or is not yours", nil)
	ErrCartSelectionMismatch = errors.NewConflict("selected cart items no longer match the cart")
)

// NewOrderNotFound creates a not found error with the order ID
func NewOrderNotFound(id string) error {
	return errors.NewNotFound("order", id)
}

// NewVariantNotFound creates a not found error for a missing variant
func NewVariantNotFound(id string) error {
	return errors.NewNotFound("variant", id)
}

// NewInsufficientStock signals that a variant ran out of stock during
// checkout; the whole order is rolled back
func NewInsufficientStock(productName string) error {
	return errors.NewConflict(fmt.Sprintf("not enough stock for %q", productName))
}

// NewInvalidTransition rejects an illegal status change, naming both states
func NewInvalidTransition(from, to OrderStatus) error {
	return errors.NewConflict(fmt.Sprintf("cannot transition order from %s to %s", from, to))
}

// NewUnknownStatus rejects an unrecognized status string
func NewUnknownStatus(s string) error {
	return errors.NewValidation(fmt.Sprintf("unknown order status %q", s), nil)
}
