// Package catalog provides read access to products and their purchasable
// variants. Catalog administration (creating products, pricing, images) is
// owned by a separate surface; the order path only ever reads from here.
package catalog

import (
	"context"

	"gorm.io/gorm"

	apperrors "shop-core/pkg/errors"
)

// Variant is a purchasable SKU joined with its parent product
type Variant struct {
	ID            string
	ProductID     string
	ProductName   string
	Color         string
	Size          string
	Price         int64
	StockQuantity int
}

// PostgresStore implements catalog reads using PostgreSQL
type PostgresStore struct {
	db *gorm.DB
}

// NewPostgresStore creates a new catalog store
func NewPostgresStore(db *gorm.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate runs auto-migration for the catalog models
func (s *PostgresStore) Migrate() error {
	return s.db.AutoMigrate(&ProductModel{}, &VariantModel{})
}

// FindVariantsByIDs returns the variants with the given ids, joined with the
// owning product. Price and stock come from this read; client-supplied
// prices are never trusted.
func (s *PostgresStore) FindVariantsByIDs(ctx context.Context, ids []string) ([]Variant, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var variants []Variant
	err := s.db.WithContext(ctx).
		Table("product_variants AS v").
		Select("v.id, v.product_id, p.name AS product_name, v.color, v.size, v.price, v.stock_quantity").
		Joins("JOIN products p ON p.id = v.product_id").
		Where("v.id IN ?", ids).
		Scan(&variants).Error
	if err != nil {
		return nil, apperrors.NewInternal("failed to load variants", err)
	}

	return variants, nil
}
