package application

import (
	"context"

	"go.uber.org/zap"

	"shop-core/internal/order/domain"
	"shop-core/internal/order/ports"
	apperrors "shop-core/pkg/errors"
	"shop-core/pkg/logger"
)

// Order types accepted at checkout
const (
	OrderTypeCart   = "cart"
	OrderTypeBuyNow = "buy_now"
)

// OrderUseCase handles order business logic
type OrderUseCase struct {
	repo      ports.OrderRepository
	cart      ports.CartStore
	catalog   ports.CatalogStore
	addresses ports.AddressStore
	vouchers  ports.VoucherService
	publisher ports.EventPublisher
	log       *logger.Logger
}

// NewOrderUseCase creates a new order use case. The publisher may be nil
// when messaging is disabled.
func NewOrderUseCase(
	repo ports.OrderRepository,
	cart ports.CartStore,
	catalog ports.CatalogStore,
	addresses ports.AddressStore,
	vouchers ports.VoucherService,
	publisher ports.EventPublisher,
	log *logger.Logger,
) *OrderUseCase {
	return &OrderUseCase{
		repo:      repo,
		cart:      cart,
		catalog:   catalog,
		addresses: addresses,
		vouchers:  vouchers,
		publisher: publisher,
		log:       log,
	}
}

// BuyNowItem is a variant purchased directly, bypassing the cart
type BuyNowItem struct {
	VariantID string
	Quantity  int
}

// CreateOrderInput carries the checkout request
type CreateOrderInput struct {
	AddressID     string
	PaymentMethod string
	Note          string
	VoucherCode   string
	OrderType     string
	CartLineIDs   []string
	BuyNowItems   []BuyNowItem
}

// Create places an order. It resolves the checkout lines (from the cart or
// from buy-now items), prices them with the current catalog prices, applies
// the voucher quote and hands the whole thing to the repository as one
// transaction. The voucher usage slot is consumed only after the commit.
func (uc *OrderUseCase) Create(ctx context.Context, userID string, input CreateOrderInput) (*domain.Order, error) {
	if input.AddressID == "" {
		return nil, domain.ErrAddressRequired
	}

	candidates, fromCart, err := uc.resolveCandidates(ctx, userID, input)
	if err != nil {
		return nil, err
	}

	lines, subtotal, err := domain.NewOrderLines(candidates)
	if err != nil {
		return nil, err
	}

	var voucherID *string
	var discount int64
	if input.VoucherCode != "" {
		quote, err := uc.vouchers.ValidateAndQuote(ctx, input.VoucherCode, subtotal)
		if err != nil {
			return nil, err
		}
		voucherID = &quote.VoucherID
		discount = quote.DiscountAmount
	}

	addr, err := uc.addresses.Find(ctx, input.AddressID, userID)
	if err != nil {
		if apperrors.Is(err, apperrors.CodeNotFound) {
			return nil, domain.ErrInvalidAddress
		}
		return nil, err
	}

	quote := domain.NewQuote(subtotal, discount)

	paymentMethod := input.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = "cod"
	}

	order := &domain.Order{
		UserID: userID,
		ShippingInfo: domain.ShippingInfo{
			Name:        addr.RecipientName,
			Phone:       addr.RecipientPhone,
			FullAddress: addr.FullAddress,
		},
		SubtotalAmount: quote.SubtotalAmount,
		ShippingFee:    quote.ShippingFee,
		DiscountAmount: quote.DiscountAmount,
		TotalAmount:    quote.TotalAmount,
		PaymentMethod:  paymentMethod,
		PaymentStatus:  "unpaid",
		Note:           input.Note,
		VoucherID:      voucherID,
		Status:         domain.OrderStatusPending,
		Lines:          lines,
	}

	cleanup := ports.CartCleanup{FromCart: fromCart, LineIDs: input.CartLineIDs}
	if err := uc.repo.Create(ctx, order, cleanup); err != nil {
		return nil, err
	}

	// The order is committed at this point. A voucher that ran out of budget
	// in the meantime is logged and tolerated, never unwound.
	if voucherID != nil {
		if err := uc.vouchers.RecordRedemption(ctx, *voucherID); err != nil {
			uc.log.WithContext(ctx).Warn("voucher redemption not recorded",
				zap.String("order_id", order.ID),
				zap.String("voucher_id", *voucherID),
				zap.Error(err),
			)
		}
	}

	uc.log.WithContext(ctx).Info("order created",
		zap.String("order_id", order.ID),
		zap.String("user_id", userID),
		zap.Int64("total_amount", order.TotalAmount),
		zap.Int("lines", len(order.Lines)),
	)

	uc.publishEvent(ctx, order)

	return order, nil
}

// resolveCandidates builds the checkout line set. Buy-now resolves variants
// straight from the catalog; cart checkout loads the user's cart and
// optionally narrows it to the selected line ids.
func (uc *OrderUseCase) resolveCandidates(ctx context.Context, userID string, input CreateOrderInput) ([]domain.CheckoutCandidate, bool, error) {
	if input.OrderType == OrderTypeBuyNow {
		if len(input.BuyNowItems) == 0 {
			return nil, false, domain.ErrEmptyCheckout
		}

		ids := make([]string, len(input.BuyNowItems))
		for i, item := range input.BuyNowItems {
			ids[i] = item.VariantID
		}

		variants, err := uc.catalog.FindVariantsByIDs(ctx, ids)
		if err != nil {
			return nil, false, err
		}
		byID := make(map[string]ports.Variant, len(variants))
		for _, v := range variants {
			byID[v.ID] = v
		}

		candidates := make([]domain.CheckoutCandidate, 0, len(input.BuyNowItems))
		for _, item := range input.BuyNowItems {
			v, ok := byID[item.VariantID]
			if !ok {
				return nil, false, domain.NewVariantNotFound(item.VariantID)
			}
			candidates = append(candidates, domain.CheckoutCandidate{
				VariantID:     v.ID,
				ProductID:     v.ProductID,
				ProductName:   v.ProductName,
				Color:         v.Color,
				Size:          v.Size,
				Quantity:      item.Quantity,
				UnitPrice:     v.Price,
				StockQuantity: v.StockQuantity,
			})
		}
		return candidates, false, nil
	}

	cartLines, err := uc.cart.LoadCart(ctx, userID)
	if err != nil {
		return nil, false, err
	}

	selected := cartLines
	if len(input.CartLineIDs) > 0 {
		wanted := make(map[string]bool, len(input.CartLineIDs))
		for _, id := range input.CartLineIDs {
			wanted[id] = true
		}
		filtered := make([]ports.CartLine, 0, len(input.CartLineIDs))
		for _, line := range cartLines {
			if wanted[line.ID] {
				filtered = append(filtered, line)
			}
		}
		if len(filtered) != len(input.CartLineIDs) {
			return nil, false, domain.ErrCartSelectionMismatch
		}
		selected = filtered
	}

	candidates := make([]domain.CheckoutCandidate, 0, len(selected))
	for _, line := range selected {
		candidates = append(candidates, domain.CheckoutCandidate{
			VariantID:     line.VariantID,
			ProductID:     line.ProductID,
			ProductName:   line.ProductName,
			Color:         line.Color,
			Size:          line.Size,
			Quantity:      line.Quantity,
			UnitPrice:     line.UnitPrice,
			StockQuantity: line.StockQuantity,
		})
	}
	return candidates, true, nil
}

// Cancel lets a customer cancel their own order. Only pending orders
// qualify; a confirmed order is already being prepared and needs an
// operator. Reserved stock is restored in the same transaction.
func (uc *OrderUseCase) Cancel(ctx context.Context, orderID, userID string) (*domain.Order, error) {
	order, err := uc.repo.TransitionStatus(ctx, orderID, userID, domain.OrderStatusCancelled, domain.OrderStatusPending)
	if err != nil {
		return nil, err
	}

	uc.log.WithContext(ctx).Info("order cancelled",
		zap.String("order_id", order.ID),
		zap.String("user_id", order.UserID),
	)

	uc.publishEvent(ctx, order)

	return order, nil
}

// Complete marks an order delivered. Sold counters are credited here, in the
// same transaction as the status change, so a double completion can never
// double-credit. An empty userID is operator access.
func (uc *OrderUseCase) Complete(ctx context.Context, orderID, userID string) (*domain.Order, error) {
	order, err := uc.repo.TransitionStatus(ctx, orderID, userID, domain.OrderStatusCompleted,
		domain.OrderStatusConfirmed, domain.OrderStatusShipping)
	if err != nil {
		return nil, err
	}

	uc.log.WithContext(ctx).Info("order completed",
		zap.String("order_id", order.ID),
		zap.Int64("total_amount", order.TotalAmount),
	)

	uc.publishEvent(ctx, order)

	return order, nil
}

// UpdateStatus is the operator entry point for moving an order along its
// lifecycle. The transition table is the only gate.
func (uc *OrderUseCase) UpdateStatus(ctx context.Context, orderID string, to domain.OrderStatus) (*domain.Order, error) {
	if to == domain.OrderStatusCompleted {
		return uc.Complete(ctx, orderID, "")
	}

	order, err := uc.repo.TransitionStatus(ctx, orderID, "", to)
	if err != nil {
		return nil, err
	}

	uc.log.WithContext(ctx).Info("order status updated",
		zap.String("order_id", order.ID),
		zap.String("status", string(order.Status)),
	)

	uc.publishEvent(ctx, order)

	return order, nil
}

// Get retrieves an order with its lines, scoped to the owner
func (uc *OrderUseCase) Get(ctx context.Context, orderID, userID string) (*domain.Order, error) {
	return uc.repo.GetByID(ctx, orderID, userID)
}

// ListForUser retrieves the user's orders, newest first
func (uc *OrderUseCase) ListForUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Order, error) {
	return uc.repo.ListByUser(ctx, userID, limit, offset)
}

// ListAll retrieves all orders for the operator view
func (uc *OrderUseCase) ListAll(ctx context.Context, limit, offset int) ([]*domain.Order, error) {
	return uc.repo.ListAll(ctx, limit, offset)
}

// publishEvent emits the lifecycle event matching the order's status.
// Publishing is best effort: the state change already committed.
func (uc *OrderUseCase) publishEvent(ctx context.Context, order *domain.Order) {
	if uc.publisher == nil {
		return
	}

	var err error
	switch order.Status {
	case domain.OrderStatusPending:
		err = uc.publisher.PublishOrderCreated(ctx, order)
	case domain.OrderStatusCancelled:
		err = uc.publisher.PublishOrderCancelled(ctx, order)
	case domain.OrderStatusCompleted:
		err = uc.publisher.PublishOrderCompleted(ctx, order)
	default:
		return
	}

	if err != nil {
		uc.log.WithContext(ctx).Warn("failed to publish order event",
			zap.String("order_id", order.ID),
			zap.String("status", string(order.Status)),
			zap.Error(err),
		)
	}
}
