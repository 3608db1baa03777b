package domain

import (
	"time"
)

// OrderStatus represents the lifecycle state of an order
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipping  OrderStatus = "shipping"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// transitions is the single source of truth for legal status changes.
// completed and cancelled are terminal: they have no outgoing edges.
var transitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed: {OrderStatusShipping, OrderStatusCompleted, OrderStatusCancelled},
	OrderStatusShipping:  {OrderStatusCompleted},
	OrderStatusCompleted: {},
	OrderStatusCancelled: {},
}

// CanTransition reports whether an order may move from one status to another
func CanTransition(from, to OrderStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ParseStatus converts a request string into a known status
func ParseStatus(s string) (OrderStatus, error) {
	switch OrderStatus(s) {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusShipping,
		OrderStatusCompleted, OrderStatusCancelled:
		return OrderStatus(s), nil
	}
	return "", NewUnknownStatus(s)
}

// ShippingInfo is the delivery snapshot frozen into the order at creation.
// It is copied from the live address record once and never re-derived, so
// later address edits cannot change where a placed order ships.
type ShippingInfo struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	FullAddress string `json:"full_address"`
}

// OrderLine is one purchased variant with its price and descriptor frozen at
// purchase time. Immutable after creation.
type OrderLine struct {
	ID          string
	VariantID   string
	ProductID   string
	ProductName string
	Color       string
	Size        string
	Quantity    int
	UnitPrice   int64
	TotalPrice  int64
}

// Order represents the order domain entity
type Order struct {
	ID             string
	UserID         string
	ShippingInfo   ShippingInfo
	SubtotalAmount int64
	ShippingFee    int64
	DiscountAmount int64
	TotalAmount    int64
	PaymentMethod  string
	PaymentStatus  string
	Note           string
	VoucherID      *string
	Status         OrderStatus
	Lines          []OrderLine
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
