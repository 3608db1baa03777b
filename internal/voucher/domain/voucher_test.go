package domain

import (
	"errors"
	"testing"
	"time"
)

var (
	start = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end   = time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC)
	now   = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
)

func activeVoucher() *Voucher {
	return &Voucher{
		ID:            "voucher-1",
		Code:          "SALE10",
		DiscountType:  DiscountPercentage,
		DiscountValue: 10,
		StartDate:     start,
		EndDate:       end,
		UsageLimit:    100,
		IsActive:      true,
	}
}

func TestQuote_PercentageFloors(t *testing.T) {
	v := activeVoucher()

	// 10% of 199 floors to 19
	discount, err := v.Quote(199, now)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if discount != 19 {
		t.Errorf("expected discount 19, got %d", discount)
	}
}

func TestQuote_PercentageCap(t *testing.T) {
	v := activeVoucher()
	v.MaxDiscountAmount = 15

	discount, err := v.Quote(1000, now)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if discount != 15 {
		t.Errorf("expected discount capped at 15, got %d", discount)
	}
}

func TestQuote_PercentageNoCapWhenZero(t *testing.T) {
	v := activeVoucher()
	v.MaxDiscountAmount = 0

	discount, err := v.Quote(1000, now)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if discount != 100 {
		t.Errorf("expected discount 100, got %d", discount)
	}
}

func TestQuote_FixedClampedToSubtotal(t *testing.T) {
	v := activeVoucher()
	v.DiscountType = DiscountFixed
	v.DiscountValue = 500

	discount, err := v.Quote(300, now)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if discount != 300 {
		t.Errorf("expected discount clamped to 300, got %d", discount)
	}
}

func TestQuote_WindowBoundsInclusive(t *testing.T) {
	v := activeVoucher()

	if _, err := v.Quote(100, start); err != nil {
		t.Errorf("expected start date to be valid, got %v", err)
	}
	if _, err := v.Quote(100, end); err != nil {
		t.Errorf("expected end date to be valid, got %v", err)
	}
}

func TestQuote_NotYetActive(t *testing.T) {
	v := activeVoucher()

	_, err := v.Quote(100, start.Add(-time.Hour))
	if !errors.Is(err, ErrVoucherNotYetActive) {
		t.Errorf("expected ErrVoucherNotYetActive, got %v", err)
	}
}

func TestQuote_Expired(t *testing.T) {
	v := activeVoucher()

	_, err := v.Quote(100, end.Add(time.Hour))
	if !errors.Is(err, ErrVoucherExpired) {
		t.Errorf("expected ErrVoucherExpired, got %v", err)
	}
}

func TestQuote_Exhausted(t *testing.T) {
	v := activeVoucher()
	v.UsedCount = v.UsageLimit

	_, err := v.Quote(100, now)
	if !errors.Is(err, ErrVoucherExhausted) {
		t.Errorf("expected ErrVoucherExhausted, got %v", err)
	}
}

func TestQuote_BelowMinimum(t *testing.T) {
	v := activeVoucher()
	v.MinOrderValue = 500

	if _, err := v.Quote(499, now); err == nil {
		t.Error("expected error for subtotal below minimum")
	}
	if _, err := v.Quote(500, now); err != nil {
		t.Errorf("expected subtotal at minimum to pass, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	v := activeVoucher()
	if err := v.Validate(); err != nil {
		t.Fatalf("expected valid voucher, got %v", err)
	}

	bad := activeVoucher()
	bad.DiscountValue = 150
	if err := bad.Validate(); !errors.Is(err, ErrInvalidDiscountValue) {
		t.Errorf("expected ErrInvalidDiscountValue for 150%%, got %v", err)
	}

	bad = activeVoucher()
	bad.EndDate = bad.StartDate.Add(-time.Hour)
	if err := bad.Validate(); !errors.Is(err, ErrInvalidWindow) {
		t.Errorf("expected ErrInvalidWindow, got %v", err)
	}

	bad = activeVoucher()
	bad.UsageLimit = 0
	if err := bad.Validate(); !errors.Is(err, ErrInvalidUsageLimit) {
		t.Errorf("expected ErrInvalidUsageLimit, got %v", err)
	}
}
