// Package inventory owns the stock counter per variant and the aggregate
// sold-unit counter per product. Every mutation here is a single conditional
// or unconditional UPDATE executed inside the caller's transaction; the
// check-and-decrement is one atomic statement, so there is no read-then-write
// window for concurrent buyers to race through.
package inventory

import (
	"errors"

	"gorm.io/gorm"
)

// ErrInsufficientStock is returned when a conditional decrement matches no
// row, i.e. the variant does not exist or has fewer units than requested.
var ErrInsufficientStock = errors.New("insufficient stock")

// variantStock maps the stock column of product_variants
type variantStock struct {
	ID            string `gorm:"type:uuid;primaryKey"`
	ProductID     string `gorm:"type:uuid"`
	StockQuantity int
}

func (variantStock) TableName() string {
	return "product_variants"
}

// productSales maps the sold counter of products
type productSales struct {
	ID        string `gorm:"type:uuid;primaryKey"`
	SoldCount int64
}

func (productSales) TableName() string {
	return "products"
}

// Ledger performs stock and sold-count mutations. All methods take the
// transaction they must run in; the ledger never opens its own.
type Ledger struct{}

// NewLedger creates an inventory ledger
func NewLedger() *Ledger {
	return &Ledger{}
}

// Reserve decrements the variant's stock by quantity, only if enough stock
// remains. Returns the owning product id. A zero-row update means the
// reservation lost to concurrent buyers (or the variant is gone) and the
// whole enclosing transaction must be rolled back.
func (l *Ledger) Reserve(tx *gorm.DB, variantID string, quantity int) (string, error) {
	result := tx.Model(&variantStock{}).
		Where("id = ? AND stock_quantity >= ?", variantID, quantity).
		UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", quantity))
	if result.Error != nil {
		return "", result.Error
	}
	if result.RowsAffected == 0 {
		return "", ErrInsufficientStock
	}

	var v variantStock
	if err := tx.Select("id", "product_id").First(&v, "id = ?", variantID).Error; err != nil {
		return "", err
	}
	return v.ProductID, nil
}

// Restore returns quantity units to the variant's stock. Used when an order
// is cancelled; restoring stock cannot violate any invariant, so the update
// is unconditional.
func (l *Ledger) Restore(tx *gorm.DB, variantID string, quantity int) error {
	return tx.Model(&variantStock{}).
		Where("id = ?", variantID).
		UpdateColumn("stock_quantity", gorm.Expr("stock_quantity + ?", quantity)).Error
}

// CreditSold adds quantity to the product's sold counter. Called exactly once
// per order, when it transitions into the completed state.
func (l *Ledger) CreditSold(tx *gorm.DB, productID string, quantity int) error {
	return tx.Model(&productSales{}).
		Where("id = ?", productID).
		UpdateColumn("sold_count", gorm.Expr("sold_count + ?", quantity)).Error
}

// DebitSold reverses a previous credit. Only reachable if an order ever
// leaves the completed state, which the transition table currently forbids;
// the ledger still supports the reversal so the compensation path stays
// symmetric.
func (l *Ledger) DebitSold(tx *gorm.DB, productID string, quantity int) error {
	return tx.Model(&productSales{}).
		Where("id = ?", productID).
		UpdateColumn("sold_count", gorm.Expr("sold_count - ?", quantity)).Error
}
