package adapters

import (
	"context"

	"shop-core/internal/address"
	"shop-core/internal/cart"
	"shop-core/internal/catalog"
	"shop-core/internal/order/ports"
	voucherapp "shop-core/internal/voucher/application"
)

// CartAdapter exposes the cart store through the checkout port
type CartAdapter struct {
	store *cart.PostgresStore
}

// NewCartAdapter creates a cart adapter
func NewCartAdapter(store *cart.PostgresStore) *CartAdapter {
	return &CartAdapter{store: store}
}

// LoadCart returns the user's cart lines
func (a *CartAdapter) LoadCart(ctx context.Context, userID string) ([]ports.CartLine, error) {
	lines, err := a.store.LoadCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]ports.CartLine, len(lines))
	for i, line := range lines {
		out[i] = ports.CartLine{
			ID:            line.ID,
			VariantID:     line.ProductVariantID,
			ProductID:     line.ProductID,
			ProductName:   line.ProductName,
			Color:         line.Color,
			Size:          line.Size,
			Quantity:      line.Quantity,
			UnitPrice:     line.UnitPrice,
			StockQuantity: line.StockQuantity,
		}
	}
	return out, nil
}

// CatalogAdapter exposes the catalog store through the checkout port
type CatalogAdapter struct {
	store *catalog.PostgresStore
}

// NewCatalogAdapter creates a catalog adapter
func NewCatalogAdapter(store *catalog.PostgresStore) *CatalogAdapter {
	return &CatalogAdapter{store: store}
}

// FindVariantsByIDs resolves variants with their current price and stock
func (a *CatalogAdapter) FindVariantsByIDs(ctx context.Context, ids []string) ([]ports.Variant, error) {
	variants, err := a.store.FindVariantsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]ports.Variant, len(variants))
	for i, v := range variants {
		out[i] = ports.Variant{
			ID:            v.ID,
			ProductID:     v.ProductID,
			ProductName:   v.ProductName,
			Color:         v.Color,
			Size:          v.Size,
			Price:         v.Price,
			StockQuantity: v.StockQuantity,
		}
	}
	return out, nil
}

// AddressAdapter exposes the address store through the checkout port
type AddressAdapter struct {
	store *address.PostgresStore
}

// NewAddressAdapter creates an address adapter
func NewAddressAdapter(store *address.PostgresStore) *AddressAdapter {
	return &AddressAdapter{store: store}
}

// Find resolves an address owned by the user
func (a *AddressAdapter) Find(ctx context.Context, addressID, userID string) (*ports.Address, error) {
	addr, err := a.store.Find(ctx, addressID, userID)
	if err != nil {
		return nil, err
	}

	return &ports.Address{
		ID:             addr.ID,
		RecipientName:  addr.RecipientName,
		RecipientPhone: addr.RecipientPhone,
		FullAddress:    addr.FullAddress(),
	}, nil
}

// VoucherAdapter exposes the voucher use case through the checkout port
type VoucherAdapter struct {
	useCase *voucherapp.VoucherUseCase
}

// NewVoucherAdapter creates a voucher adapter
func NewVoucherAdapter(useCase *voucherapp.VoucherUseCase) *VoucherAdapter {
	return &VoucherAdapter{useCase: useCase}
}

// ValidateAndQuote validates the code and computes the discount
func (a *VoucherAdapter) ValidateAndQuote(ctx context.Context, code string, subtotal int64) (*ports.VoucherQuote, error) {
	quote, err := a.useCase.ValidateAndQuote(ctx, code, subtotal)
	if err != nil {
		return nil, err
	}
	return &ports.VoucherQuote{
		VoucherID:      quote.VoucherID,
		DiscountAmount: quote.DiscountAmount,
	}, nil
}

// RecordRedemption consumes one usage slot of the voucher
func (a *VoucherAdapter) RecordRedemption(ctx context.Context, voucherID string) error {
	return a.useCase.RecordRedemption(ctx, voucherID)
}
