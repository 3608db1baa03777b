package ports

import (
	"context"

	"shop-core/internal/voucher/domain"
)

// VoucherRepository defines the interface for voucher persistence
type VoucherRepository interface {
	// FindByCode retrieves an active voucher by its code
	FindByCode(ctx context.Context, code string) (*domain.Voucher, error)

	// FindByID retrieves a voucher by ID
	FindByID(ctx context.Context, id string) (*domain.Voucher, error)

	// List retrieves all vouchers, newest first
	List(ctx context.Context) ([]*domain.Voucher, error)

	// Create creates a new voucher
	Create(ctx context.Context, voucher *domain.Voucher) error

	// Update updates an existing voucher
	Update(ctx context.Context, voucher *domain.Voucher) error

	// Delete deletes a voucher by ID
	Delete(ctx context.Context, id string) error

	// IncrementUsage consumes one usage slot. The increment and the budget
	// check are one conditional statement; ErrVoucherExhausted is returned
	// when no slot remains.
	IncrementUsage(ctx context.Context, id string) error
}
