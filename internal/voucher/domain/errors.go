package domain

import (
	"fmt"

	"shop-core/pkg/errors"
)

// Domain-specific errors
var (
	ErrCodeRequired         = errors.NewValidation("code is required", nil)
	ErrInvalidDiscountType  = errors.NewValidation("discount_type must be 'fixed' or 'percentage'", nil)
	ErrInvalidDiscountValue = errors.NewValidation("discount_value is out of range", nil)
	ErrInvalidUsageLimit    = errors.NewValidation("usage_limit must be greater than 0", nil)
	ErrInvalidWindow        = errors.NewValidation("end_date must not precede start_date", nil)

	ErrVoucherNotYetActive = errors.NewConflict("voucher is not active yet")
	ErrVoucherExpired      = errors.NewConflict("voucher has expired")
	ErrVoucherExhausted    = errors.NewConflict("voucher usage limit reached")
)

// NewVoucherNotFound creates a not found error with the voucher code
func NewVoucherNotFound(code string) error {
	return errors.NewNotFound("voucher", code)
}

// NewOrderBelowMinimum signals a subtotal below the voucher's threshold
func NewOrderBelowMinimum(min int64) error {
	return errors.NewConflict(fmt.Sprintf("order subtotal is below the voucher minimum of %d", min))
}
