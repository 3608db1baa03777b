// Package address stores delivery addresses. The order path only reads one
// address to freeze it into a shipping snapshot; it never writes here.
package address

import (
	"errors"
	"time"

	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "shop-core/pkg/errors"
)

// AddressModel is the GORM model for delivery addresses
type AddressModel struct {
	ID             string    `gorm:"type:uuid;primaryKey"`
	UserID         string    `gorm:"type:uuid;index;not null"`
	RecipientName  string    `gorm:"size:128;not null"`
	RecipientPhone string    `gorm:"size:32;not null"`
	Province       string    `gorm:"size:128"`
	District       string    `gorm:"size:128"`
	Ward           string    `gorm:"size:128"`
	AddressDetail  string    `gorm:"size:255"`
	IsDefault      bool      `gorm:"not null;default:false"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`
}

// TableName returns the table name for GORM
func (AddressModel) TableName() string {
	return "user_addresses"
}

// BeforeCreate assigns a uuid primary key
func (a *AddressModel) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// FullAddress formats the address the way it is frozen into order snapshots
func (a *AddressModel) FullAddress() string {
	return a.AddressDetail + ", " + a.Ward + ", " + a.District + ", " + a.Province
}

// PostgresStore implements address persistence using PostgreSQL
type PostgresStore struct {
	db *gorm.DB
}

// NewPostgresStore creates a new address store
func NewPostgresStore(db *gorm.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate runs auto-migration for the address model
func (s *PostgresStore) Migrate() error {
	return s.db.AutoMigrate(&AddressModel{})
}

// Find returns the address only if it belongs to the given user
func (s *PostgresStore) Find(ctx context.Context, addressID, userID string) (*AddressModel, error) {
	var addr AddressModel
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", addressID, userID).
		First(&addr).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("address", addressID)
		}
		return nil, apperrors.NewInternal("failed to load address", err)
	}
	return &addr, nil
}

// List returns the user's addresses, default first
func (s *PostgresStore) List(ctx context.Context, userID string) ([]AddressModel, error) {
	var addrs []AddressModel
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_default DESC, created_at DESC").
		Find(&addrs).Error
	if err != nil {
		return nil, apperrors.NewInternal("failed to list addresses", err)
	}
	return addrs, nil
}

// Create stores a new address. The user's first address becomes the default
// automatically; marking an address default clears the flag on the others.
func (s *PostgresStore) Create(ctx context.Context, addr *AddressModel) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&AddressModel{}).Where("user_id = ?", addr.UserID).Count(&count).Error; err != nil {
			return apperrors.NewInternal("failed to count addresses", err)
		}

		if count == 0 {
			addr.IsDefault = true
		}
		if addr.IsDefault {
			err := tx.Model(&AddressModel{}).
				Where("user_id = ?", addr.UserID).
				UpdateColumn("is_default", false).Error
			if err != nil {
				return apperrors.NewInternal("failed to reset default address", err)
			}
		}

		if err := tx.Create(addr).Error; err != nil {
			return apperrors.NewInternal("failed to create address", err)
		}
		return nil
	})
}

// Delete removes the user's address
func (s *PostgresStore) Delete(ctx context.Context, addressID, userID string) error {
	result := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", addressID, userID).
		Delete(&AddressModel{})
	if result.Error != nil {
		return apperrors.NewInternal("failed to delete address", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFound("address", addressID)
	}
	return nil
}
