package adapters

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"shop-core/internal/voucher/domain"
	apperrors "shop-core/pkg/errors"
)

// VoucherModel is the GORM model for vouchers (persistence layer)
type VoucherModel struct {
	ID                string    `gorm:"type:uuid;primaryKey"`
	Code              string    `gorm:"size:64;uniqueIndex;not null"`
	Description       string    `gorm:"size:255"`
	DiscountType      string    `gorm:"size:16;not null"`
	DiscountValue     int64     `gorm:"not null"`
	MaxDiscountAmount int64     `gorm:"not null;default:0"`
	MinOrderValue     int64     `gorm:"not null;default:0"`
	StartDate         time.Time `gorm:"not null"`
	EndDate           time.Time `gorm:"not null"`
	UsageLimit        int       `gorm:"not null"`
	UsedCount         int       `gorm:"not null;default:0"`
	IsActive          bool      `gorm:"not null;default:true"`
	CreatedAt         time.Time `gorm:"autoCreateTime"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime"`
}

// TableName returns the table name for GORM
func (VoucherModel) TableName() string {
	return "vouchers"
}

// BeforeCreate assigns a uuid primary key
func (v *VoucherModel) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}

// PostgresVoucherRepository implements VoucherRepository using PostgreSQL
type PostgresVoucherRepository struct {
	db *gorm.DB
}

// NewPostgresVoucherRepository creates a new PostgreSQL voucher repository
func NewPostgresVoucherRepository(db *gorm.DB) *PostgresVoucherRepository {
	return &PostgresVoucherRepository{db: db}
}

// Migrate runs auto-migration for the voucher model
func (r *PostgresVoucherRepository) Migrate() error {
	return r.db.AutoMigrate(&VoucherModel{})
}

// FindByCode retrieves an active voucher by code
func (r *PostgresVoucherRepository) FindByCode(ctx context.Context, code string) (*domain.Voucher, error) {
	var model VoucherModel

	result := r.db.WithContext(ctx).
		Where("code = ? AND is_active = true", code).
		First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.NewVoucherNotFound(code)
		}
		return nil, apperrors.NewInternal("failed to get voucher", result.Error)
	}

	return toDomain(&model), nil
}

// FindByID retrieves a voucher by ID
func (r *PostgresVoucherRepository) FindByID(ctx context.Context, id string) (*domain.Voucher, error) {
	var model VoucherModel

	result := r.db.WithContext(ctx).First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.NewVoucherNotFound(id)
		}
		return nil, apperrors.NewInternal("failed to get voucher", result.Error)
	}

	return toDomain(&model), nil
}

// List retrieves all vouchers, newest first
func (r *PostgresVoucherRepository) List(ctx context.Context) ([]*domain.Voucher, error) {
	var models []VoucherModel

	result := r.db.WithContext(ctx).Order("created_at DESC").Find(&models)
	if result.Error != nil {
		return nil, apperrors.NewInternal("failed to list vouchers", result.Error)
	}

	vouchers := make([]*domain.Voucher, len(models))
	for i := range models {
		vouchers[i] = toDomain(&models[i])
	}
	return vouchers, nil
}

// Create creates a new voucher
func (r *PostgresVoucherRepository) Create(ctx context.Context, voucher *domain.Voucher) error {
	model := toModel(voucher)

	result := r.db.WithContext(ctx).Create(model)
	if result.Error != nil {
		return apperrors.NewInternal("failed to create voucher", result.Error)
	}

	voucher.ID = model.ID
	voucher.CreatedAt = model.CreatedAt
	return nil
}

// Update updates an existing voucher
func (r *PostgresVoucherRepository) Update(ctx context.Context, voucher *domain.Voucher) error {
	model := toModel(voucher)

	result := r.db.WithContext(ctx).Save(model)
	if result.Error != nil {
		return apperrors.NewInternal("failed to update voucher", result.Error)
	}
	return nil
}

// Delete deletes a voucher by ID
func (r *PostgresVoucherRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&VoucherModel{}, "id = ?", id)
	if result.Error != nil {
		return apperrors.NewInternal("failed to delete voucher", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewVoucherNotFound(id)
	}
	return nil
}

// IncrementUsage consumes one usage slot. The guard and the increment are a
// single UPDATE so concurrent redemptions can never push used_count past
// usage_limit; a zero-row result means the budget ran out.
func (r *PostgresVoucherRepository) IncrementUsage(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Model(&VoucherModel{}).
		Where("id = ? AND used_count < usage_limit", id).
		UpdateColumn("used_count", gorm.Expr("used_count + 1"))
	if result.Error != nil {
		return apperrors.NewInternal("failed to increment voucher usage", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrVoucherExhausted
	}
	return nil
}

// toModel converts a domain entity to a GORM model
func toModel(voucher *domain.Voucher) *VoucherModel {
	return &VoucherModel{
		ID:                voucher.ID,
		Code:              voucher.Code,
		Description:       voucher.Description,
		DiscountType:      string(voucher.DiscountType),
		DiscountValue:     voucher.DiscountValue,
		MaxDiscountAmount: voucher.MaxDiscountAmount,
		MinOrderValue:     voucher.MinOrderValue,
		StartDate:         voucher.StartDate,
		EndDate:           voucher.EndDate,
		UsageLimit:        voucher.UsageLimit,
		UsedCount:         voucher.UsedCount,
		IsActive:          voucher.IsActive,
		CreatedAt:         voucher.CreatedAt,
	}
}

// toDomain converts a GORM model to a domain entity
func toDomain(model *VoucherModel) *domain.Voucher {
	return &domain.Voucher{
		ID:                model.ID,
		Code:              model.Code,
		Description:       model.Description,
		DiscountType:      domain.DiscountType(model.DiscountType),
		DiscountValue:     model.DiscountValue,
		MaxDiscountAmount: model.MaxDiscountAmount,
		MinOrderValue:     model.MinOrderValue,
		StartDate:         model.StartDate,
		EndDate:           model.EndDate,
		UsageLimit:        model.UsageLimit,
		UsedCount:         model.UsedCount,
		IsActive:          model.IsActive,
		CreatedAt:         model.CreatedAt,
	}
}
