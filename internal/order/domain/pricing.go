package domain

// ShippingFee is the flat delivery fee charged on every order. There is no
// carrier-rate computation in this system.
const ShippingFee int64 = 30000

// CheckoutCandidate is a resolved line ready to become an order line: the
// variant with its current catalog price and the requested quantity.
type CheckoutCandidate struct {
	VariantID     string
	ProductID     string
	ProductName   string
	Color         string
	Size          string
	Quantity      int
	UnitPrice     int64
	StockQuantity int
}

// NewOrderLines turns checkout candidates into frozen order lines and
// returns the subtotal. The actual stock reservation happens later, inside
// the order transaction; this only validates shape.
func NewOrderLines(candidates []CheckoutCandidate) ([]OrderLine, int64, error) {
	if len(candidates) == 0 {
		return nil, 0, ErrEmptyCheckout
	}

	lines := make([]OrderLine, 0, len(candidates))
	var subtotal int64
	for _, c := range candidates {
		if c.Quantity <= 0 {
			return nil, 0, ErrInvalidQuantity
		}
		total := c.UnitPrice * int64(c.Quantity)
		subtotal += total
		lines = append(lines, OrderLine{
			VariantID:   c.VariantID,
			ProductID:   c.ProductID,
			ProductName: c.ProductName,
			Color:       c.Color,
			Size:        c.Size,
			Quantity:    c.Quantity,
			UnitPrice:   c.UnitPrice,
			TotalPrice:  total,
		})
	}

	return lines, subtotal, nil
}

// Quote is the priced summary of a checkout
type Quote struct {
	SubtotalAmount int64
	ShippingFee    int64
	DiscountAmount int64
	TotalAmount    int64
}

// NewQuote combines the subtotal with a discount. A discount larger than the
// subtotal is clamped, never rejected, so total = subtotal + fee - discount
// always holds with discount <= subtotal.
func NewQuote(subtotal, discount int64) Quote {
	if discount > subtotal {
		discount = subtotal
	}
	if discount < 0 {
		discount = 0
	}
	return Quote{
		SubtotalAmount: subtotal,
		ShippingFee:    ShippingFee,
		DiscountAmount: discount,
		TotalAmount:    subtotal + ShippingFee - discount,
	}
}
