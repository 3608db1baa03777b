package ports

import (
	"context"

	"shop-core/internal/order/domain"
)

// CartCleanup tells the repository which cart lines to consume inside the
// order transaction. A buy-now order leaves the cart untouched.
type CartCleanup struct {
	FromCart bool
	LineIDs  []string
}

// OrderRepository defines the persistence interface for orders
type OrderRepository interface {
	// Create persists the order, reserves stock for every line and consumes
	// the cart lines, all inside one transaction. On success it fills in the
	// generated IDs and timestamps.
	Create(ctx context.Context, order *domain.Order, cleanup CartCleanup) error

	// GetByID loads an order with its lines. An empty userID skips the
	// ownership check (operator access).
	GetByID(ctx context.Context, id, userID string) (*domain.Order, error)

	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Order, error)
	ListAll(ctx context.Context, limit, offset int) ([]*domain.Order, error)

	// TransitionStatus moves the order to a new status under a row lock.
	// The lifecycle table always applies; allowedFrom further restricts the
	// accepted current states for this caller (empty means table-only).
	// Stock and sold-count compensation run in the same transaction.
	TransitionStatus(ctx context.Context, orderID, userID string, to domain.OrderStatus, allowedFrom ...domain.OrderStatus) (*domain.Order, error)
}

// CartLine is a cart row joined with its live variant data
type CartLine struct {
	ID            string
	VariantID     string
	ProductID     string
	ProductName   string
	Color         string
	Size          string
	Quantity      int
	UnitPrice     int64
	StockQuantity int
}

// CartStore reads the caller's cart for checkout
type CartStore interface {
	LoadCart(ctx context.Context, userID string) ([]CartLine, error)
}

// Variant is a catalog variant as seen by checkout
type Variant struct {
	ID            string
	ProductID     string
	ProductName   string
	Color         string
	Size          string
	Price         int64
	StockQuantity int
}

// CatalogStore resolves variants for buy-now checkout
type CatalogStore interface {
	FindVariantsByIDs(ctx context.Context, ids []string) ([]Variant, error)
}

// Address is the delivery target resolved at checkout
type Address struct {
	ID             string
	RecipientName  string
	RecipientPhone string
	FullAddress    string
}

// AddressStore resolves a delivery address owned by the user
type AddressStore interface {
	Find(ctx context.Context, addressID, userID string) (*Address, error)
}

// VoucherQuote is the discount granted by a validated voucher
type VoucherQuote struct {
	VoucherID      string
	DiscountAmount int64
}

// VoucherService validates vouchers at checkout and records redemptions
// after the order is committed
type VoucherService interface {
	ValidateAndQuote(ctx context.Context, code string, subtotal int64) (*VoucherQuote, error)
	RecordRedemption(ctx context.Context, voucherID string) error
}

// EventPublisher publishes order lifecycle events
type EventPublisher interface {
	PublishOrderCreated(ctx context.Context, order *domain.Order) error
	PublishOrderCancelled(ctx context.Context, order *domain.Order) error
	PublishOrderCompleted(ctx context.Context, order *domain.Order) error
}
