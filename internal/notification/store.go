// Package notification stores per-user notifications fed by the order event
// stream. Delivery is at-least-once, so a redelivered event may produce a
// duplicate notification; that is accepted.
package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "shop-core/pkg/errors"
)

// NotificationModel is the GORM model for notifications
type NotificationModel struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	UserID    string    `gorm:"type:uuid;index;not null"`
	Type      string    `gorm:"size:32;not null"`
	Title     string    `gorm:"size:255;not null"`
	Message   string    `gorm:"size:500;not null"`
	OrderID   string    `gorm:"type:uuid"`
	IsRead    bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
}

// TableName returns the table name for GORM
func (NotificationModel) TableName() string {
	return "notifications"
}

// BeforeCreate assigns a uuid primary key
func (n *NotificationModel) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}

// PostgresStore implements notification persistence using PostgreSQL
type PostgresStore struct {
	db *gorm.DB
}

// NewPostgresStore creates a new notification store
func NewPostgresStore(db *gorm.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate runs auto-migration for the notification model
func (s *PostgresStore) Migrate() error {
	return s.db.AutoMigrate(&NotificationModel{})
}

// Create persists a notification
func (s *PostgresStore) Create(ctx context.Context, n *NotificationModel) error {
	if err := s.db.WithContext(ctx).Create(n).Error; err != nil {
		return apperrors.NewInternal("failed to create notification", err)
	}
	return nil
}

// ListByUser returns the user's notifications, newest first
func (s *PostgresStore) ListByUser(ctx context.Context, userID string, limit int) ([]NotificationModel, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	var notifications []NotificationModel
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&notifications).Error
	if err != nil {
		return nil, apperrors.NewInternal("failed to list notifications", err)
	}
	return notifications, nil
}

// MarkRead flags one of the user's notifications as read
func (s *PostgresStore) MarkRead(ctx context.Context, id, userID string) error {
	result := s.db.WithContext(ctx).
		Model(&NotificationModel{}).
		Where("id = ? AND user_id = ?", id, userID).
		UpdateColumn("is_read", true)
	if result.Error != nil {
		return apperrors.NewInternal("failed to mark notification read", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFound("notification", id)
	}
	return nil
}
