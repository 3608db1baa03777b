package application

import (
	"context"
	"time"

	"go.uber.org/zap"

	"shop-core/internal/voucher/domain"
	"shop-core/internal/voucher/ports"
	"shop-core/pkg/logger"
)

// VoucherUseCase handles voucher business logic
type VoucherUseCase struct {
	repo ports.VoucherRepository
	log  *logger.Logger
	now  func() time.Time
}

// NewVoucherUseCase creates a new voucher use case
func NewVoucherUseCase(repo ports.VoucherRepository, log *logger.Logger) *VoucherUseCase {
	return &VoucherUseCase{
		repo: repo,
		log:  log,
		now:  time.Now,
	}
}

// QuoteOutput is the result of validating a voucher against a subtotal
type QuoteOutput struct {
	VoucherID      string
	Code           string
	DiscountAmount int64
}

// ValidateAndQuote checks the code against its window, budget and minimum
// order value, and computes the discount for the given subtotal. Read-only:
// the usage slot is consumed later by RecordRedemption.
func (uc *VoucherUseCase) ValidateAndQuote(ctx context.Context, code string, subtotal int64) (*QuoteOutput, error) {
	voucher, err := uc.repo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	discount, err := voucher.Quote(subtotal, uc.now())
	if err != nil {
		return nil, err
	}

	return &QuoteOutput{
		VoucherID:      voucher.ID,
		Code:           voucher.Code,
		DiscountAmount: discount,
	}, nil
}

// RecordRedemption consumes one usage slot after the owning order has
// committed. Exhaustion here is an accepted race outcome: the caller logs it
// and keeps the order.
func (uc *VoucherUseCase) RecordRedemption(ctx context.Context, voucherID string) error {
	return uc.repo.IncrementUsage(ctx, voucherID)
}

// CreateVoucherInput carries the fields of a new voucher
type CreateVoucherInput struct {
	Code              string
	Description       string
	DiscountType      string
	DiscountValue     int64
	MaxDiscountAmount int64
	MinOrderValue     int64
	StartDate         time.Time
	EndDate           time.Time
	UsageLimit        int
}

// Create creates a new voucher
func (uc *VoucherUseCase) Create(ctx context.Context, input CreateVoucherInput) (*domain.Voucher, error) {
	voucher := &domain.Voucher{
		Code:              input.Code,
		Description:       input.Description,
		DiscountType:      domain.DiscountType(input.DiscountType),
		DiscountValue:     input.DiscountValue,
		MaxDiscountAmount: input.MaxDiscountAmount,
		MinOrderValue:     input.MinOrderValue,
		StartDate:         input.StartDate,
		EndDate:           input.EndDate,
		UsageLimit:        input.UsageLimit,
		IsActive:          true,
	}

	if err := voucher.Validate(); err != nil {
		return nil, err
	}

	if err := uc.repo.Create(ctx, voucher); err != nil {
		return nil, err
	}

	uc.log.WithContext(ctx).Info("voucher created",
		zap.String("voucher_id", voucher.ID),
		zap.String("code", voucher.Code),
	)

	return voucher, nil
}

// UpdateVoucherInput carries the mutable fields of a voucher
type UpdateVoucherInput struct {
	Description       *string
	DiscountValue     *int64
	MaxDiscountAmount *int64
	MinOrderValue     *int64
	StartDate         *time.Time
	EndDate           *time.Time
	UsageLimit        *int
	IsActive          *bool
}

// Update applies the provided fields to an existing voucher
func (uc *VoucherUseCase) Update(ctx context.Context, id string, input UpdateVoucherInput) (*domain.Voucher, error) {
	voucher, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Description != nil {
		voucher.Description = *input.Description
	}
	if input.DiscountValue != nil {
		voucher.DiscountValue = *input.DiscountValue
	}
	if input.MaxDiscountAmount != nil {
		voucher.MaxDiscountAmount = *input.MaxDiscountAmount
	}
	if input.MinOrderValue != nil {
		voucher.MinOrderValue = *input.MinOrderValue
	}
	if input.StartDate != nil {
		voucher.StartDate = *input.StartDate
	}
	if input.EndDate != nil {
		voucher.EndDate = *input.EndDate
	}
	if input.UsageLimit != nil {
		voucher.UsageLimit = *input.UsageLimit
	}
	if input.IsActive != nil {
		voucher.IsActive = *input.IsActive
	}

	if err := voucher.Validate(); err != nil {
		return nil, err
	}

	if err := uc.repo.Update(ctx, voucher); err != nil {
		return nil, err
	}

	return voucher, nil
}

// Get retrieves a voucher by ID
func (uc *VoucherUseCase) Get(ctx context.Context, id string) (*domain.Voucher, error) {
	return uc.repo.FindByID(ctx, id)
}

// List retrieves all vouchers
func (uc *VoucherUseCase) List(ctx context.Context) ([]*domain.Voucher, error) {
	return uc.repo.List(ctx)
}

// Delete deletes a voucher
func (uc *VoucherUseCase) Delete(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}
