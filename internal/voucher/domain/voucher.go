package domain

import (
	"time"
)

// DiscountType distinguishes flat-amount vouchers from percentage vouchers
type DiscountType string

const (
	DiscountFixed      DiscountType = "fixed"
	DiscountPercentage DiscountType = "percentage"
)

// Voucher represents a promotional code with a usage budget. Amounts are in
// the smallest currency unit; DiscountValue is the flat amount for fixed
// vouchers and the percentage (0-100) for percentage vouchers.
type Voucher struct {
	ID                string
	Code              string
	Description       string
	DiscountType      DiscountType
	DiscountValue     int64
	MaxDiscountAmount int64 // 0 means no cap
	MinOrderValue     int64
	StartDate         time.Time
	EndDate           time.Time
	UsageLimit        int
	UsedCount         int
	IsActive          bool
	CreatedAt         time.Time
}

// Validate validates the voucher configuration
func (v *Voucher) Validate() error {
	if v.Code == "" {
		return ErrCodeRequired
	}
	if v.DiscountType != DiscountFixed && v.DiscountType != DiscountPercentage {
		return ErrInvalidDiscountType
	}
	if v.DiscountValue <= 0 {
		return ErrInvalidDiscountValue
	}
	if v.DiscountType == DiscountPercentage && v.DiscountValue > 100 {
		return ErrInvalidDiscountValue
	}
	if v.UsageLimit <= 0 {
		return ErrInvalidUsageLimit
	}
	if v.EndDate.Before(v.StartDate) {
		return ErrInvalidWindow
	}
	return nil
}

// Quote computes the discount this voucher grants on the given subtotal, or
// rejects it. Both window bounds are inclusive. The read-time usage check
// here is advisory; the authoritative budget enforcement is the conditional
// increment at redemption time.
func (v *Voucher) Quote(subtotal int64, now time.Time) (int64, error) {
	if now.Before(v.StartDate) {
		return 0, ErrVoucherNotYetActive
	}
	if now.After(v.EndDate) {
		return 0, ErrVoucherExpired
	}
	if v.UsedCount >= v.UsageLimit {
		return 0, ErrVoucherExhausted
	}
	if subtotal < v.MinOrderValue {
		return 0, NewOrderBelowMinimum(v.MinOrderValue)
	}

	var discount int64
	if v.DiscountType == DiscountFixed {
		discount = v.DiscountValue
	} else {
		// Integer division floors to the smallest currency unit
		discount = subtotal * v.DiscountValue / 100
		if v.MaxDiscountAmount > 0 && discount > v.MaxDiscountAmount {
			discount = v.MaxDiscountAmount
		}
	}

	// A voucher worth more than the order is capped to the order value
	if discount > subtotal {
		discount = subtotal
	}

	return discount, nil
}
