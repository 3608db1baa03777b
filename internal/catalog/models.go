package catalog

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductModel is the GORM model for products (persistence layer)
type ProductModel struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"size:255;not null"`
	Slug      string    `gorm:"size:255;uniqueIndex"`
	SoldCount int64     `gorm:"not null;default:0"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// BeforeCreate assigns a uuid primary key
func (p *ProductModel) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// VariantModel is the GORM model for purchasable SKUs
type VariantModel struct {
	ID            string    `gorm:"type:uuid;primaryKey"`
	ProductID     string    `gorm:"type:uuid;index;not null"`
	SKU           string    `gorm:"size:64;uniqueIndex"`
	Color         string    `gorm:"size:64"`
	Size          string    `gorm:"size:32"`
	Price         int64     `gorm:"not null"`
	StockQuantity int       `gorm:"not null;default:0"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`
}

// TableName returns the table name for GORM
func (VariantModel) TableName() string {
	return "product_variants"
}

// BeforeCreate assigns a uuid primary key
func (v *VariantModel) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}
