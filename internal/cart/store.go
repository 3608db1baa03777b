// Package cart holds the transient pre-order state: one cart per user, one
// line per variant. Lines are either consumed (deleted) by a checkout or
// left untouched; the deletion happens inside the order-creation transaction
// through the Tx helpers below.
package cart

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "shop-core/pkg/errors"
)

// CartModel is the GORM model for carts
type CartModel struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	UserID    string    `gorm:"type:uuid;uniqueIndex;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// TableName returns the table name for GORM
func (CartModel) TableName() string {
	return "carts"
}

// BeforeCreate assigns a uuid primary key
func (c *CartModel) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// CartItemModel is the GORM model for cart lines
type CartItemModel struct {
	ID               string    `gorm:"type:uuid;primaryKey"`
	CartID           string    `gorm:"type:uuid;not null;uniqueIndex:idx_cart_variant"`
	ProductVariantID string    `gorm:"type:uuid;not null;uniqueIndex:idx_cart_variant"`
	Quantity         int       `gorm:"not null"`
	CreatedAt        time.Time `gorm:"autoCreateTime"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime"`
}

// TableName returns the table name for GORM
func (CartItemModel) TableName() string {
	return "cart_items"
}

// BeforeCreate assigns a uuid primary key
func (i *CartItemModel) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

// Line is a cart line joined with live variant and product data
type Line struct {
	ID               string `json:"id"`
	ProductVariantID string `json:"product_variant_id"`
	ProductID        string `json:"product_id"`
	ProductName      string `json:"product_name"`
	Color            string `json:"color"`
	Size             string `json:"size"`
	Quantity         int    `json:"quantity"`
	UnitPrice        int64  `json:"unit_price"`
	StockQuantity    int    `json:"stock_quantity"`
}

// PostgresStore implements cart persistence using PostgreSQL
type PostgresStore struct {
	db *gorm.DB
}

// NewPostgresStore creates a new cart store
func NewPostgresStore(db *gorm.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate runs auto-migration for the cart models
func (s *PostgresStore) Migrate() error {
	return s.db.AutoMigrate(&CartModel{}, &CartItemModel{})
}

// LoadCart returns the user's cart lines joined with current variant price,
// stock and product name
func (s *PostgresStore) LoadCart(ctx context.Context, userID string) ([]Line, error) {
	var lines []Line
	err := s.db.WithContext(ctx).
		Table("cart_items AS ci").
		Select("ci.id, ci.product_variant_id, ci.quantity, v.price AS unit_price, v.stock_quantity, v.color, v.size, p.id AS product_id, p.name AS product_name").
		Joins("JOIN carts c ON c.id = ci.cart_id").
		Joins("JOIN product_variants v ON v.id = ci.product_variant_id").
		Joins("JOIN products p ON p.id = v.product_id").
		Where("c.user_id = ?", userID).
		Order("ci.created_at DESC").
		Scan(&lines).Error
	if err != nil {
		return nil, apperrors.NewInternal("failed to load cart", err)
	}
	return lines, nil
}

// findOrCreate returns the user's cart, creating it on first use
func (s *PostgresStore) findOrCreate(ctx context.Context, userID string) (*CartModel, error) {
	var cart CartModel
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&cart).Error
	if err == nil {
		return &cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewInternal("failed to load cart", err)
	}

	cart = CartModel{UserID: userID}
	if err := s.db.WithContext(ctx).Create(&cart).Error; err != nil {
		return nil, apperrors.NewInternal("failed to create cart", err)
	}
	return &cart, nil
}

// AddItem upserts a line: an existing line for the same variant has its
// quantity increased instead of duplicating the row
func (s *PostgresStore) AddItem(ctx context.Context, userID, variantID string, quantity int) (*CartItemModel, error) {
	cart, err := s.findOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	item := CartItemModel{
		CartID:           cart.ID,
		ProductVariantID: variantID,
		Quantity:         quantity,
	}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "cart_id"}, {Name: "product_variant_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":   gorm.Expr("cart_items.quantity + EXCLUDED.quantity"),
			"updated_at": time.Now(),
		}),
	}).Create(&item).Error
	if err != nil {
		return nil, apperrors.NewInternal("failed to add cart item", err)
	}
	return &item, nil
}

// UpdateQuantity sets a line's quantity
func (s *PostgresStore) UpdateQuantity(ctx context.Context, userID, itemID string, quantity int) error {
	result := s.db.WithContext(ctx).
		Model(&CartItemModel{}).
		Where("id = ? AND cart_id IN (?)", itemID, s.cartIDQuery(userID)).
		Updates(map[string]interface{}{"quantity": quantity, "updated_at": time.Now()})
	if result.Error != nil {
		return apperrors.NewInternal("failed to update cart item", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFound("cart item", itemID)
	}
	return nil
}

// RemoveItem deletes a single line from the user's cart
func (s *PostgresStore) RemoveItem(ctx context.Context, userID, itemID string) error {
	result := s.db.WithContext(ctx).
		Where("id = ? AND cart_id IN (?)", itemID, s.cartIDQuery(userID)).
		Delete(&CartItemModel{})
	if result.Error != nil {
		return apperrors.NewInternal("failed to remove cart item", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFound("cart item", itemID)
	}
	return nil
}

// Clear deletes every line in the user's cart
func (s *PostgresStore) Clear(ctx context.Context, userID string) error {
	err := s.db.WithContext(ctx).
		Where("cart_id IN (?)", s.cartIDQuery(userID)).
		Delete(&CartItemModel{}).Error
	if err != nil {
		return apperrors.NewInternal("failed to clear cart", err)
	}
	return nil
}

func (s *PostgresStore) cartIDQuery(userID string) *gorm.DB {
	return s.db.Model(&CartModel{}).Select("id").Where("user_id = ?", userID)
}

// DeleteLinesTx deletes an explicit set of the user's cart lines inside the
// caller's transaction. Used by checkout to consume a partial selection.
func DeleteLinesTx(tx *gorm.DB, userID string, lineIDs []string) error {
	return tx.
		Where("id IN ? AND cart_id IN (?)", lineIDs,
			tx.Session(&gorm.Session{NewDB: true}).Model(&CartModel{}).Select("id").Where("user_id = ?", userID)).
		Delete(&CartItemModel{}).Error
}

// ClearTx deletes all of the user's cart lines inside the caller's
// transaction. Used by checkout when the whole cart was bought.
func ClearTx(tx *gorm.DB, userID string) error {
	return tx.
		Where("cart_id IN (?)",
			tx.Session(&gorm.Session{NewDB: true}).Model(&CartModel{}).Select("id").Where("user_id = ?", userID)).
		Delete(&CartItemModel{}).Error
}
