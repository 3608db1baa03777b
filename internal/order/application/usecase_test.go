package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"shop-core/internal/order/domain"
	"shop-core/internal/order/ports"
	apperrors "shop-core/pkg/errors"
	"shop-core/pkg/logger"
)

// MockInventory mimics the conditional stock updates: check and decrement
// happen under one lock, like the single UPDATE statement in production.
type MockInventory struct {
	mu        sync.Mutex
	stock     map[string]int
	sold      map[string]int
	productOf map[string]string
}

func NewMockInventory() *MockInventory {
	return &MockInventory{
		stock:     make(map[string]int),
		sold:      make(map[string]int),
		productOf: make(map[string]string),
	}
}

func (m *MockInventory) SetStock(variantID, productID string, qty int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stock[variantID] = qty
	m.productOf[variantID] = productID
}

func (m *MockInventory) Stock(variantID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stock[variantID]
}

func (m *MockInventory) Sold(productID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sold[productID]
}

// reserve must be called with mu held
func (m *MockInventory) reserve(variantID string, qty int) (string, bool) {
	if m.stock[variantID] < qty {
		return "", false
	}
	m.stock[variantID] -= qty
	return m.productOf[variantID], true
}

// MockCartStore holds cart lines and supports the checkout consumption
type MockCartStore struct {
	mu    sync.Mutex
	lines []ports.CartLine
}

func (m *MockCartStore) LoadCart(ctx context.Context, userID string) ([]ports.CartLine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]ports.CartLine, len(m.lines))
	copy(out, m.lines)
	return out, nil
}

func (m *MockCartStore) consume(lineIDs []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(lineIDs) == 0 {
		m.lines = nil
		return
	}
	wanted := make(map[string]bool, len(lineIDs))
	for _, id := range lineIDs {
		wanted[id] = true
	}
	kept := m.lines[:0]
	for _, line := range m.lines {
		if !wanted[line.ID] {
			kept = append(kept, line)
		}
	}
	m.lines = kept
}

func (m *MockCartStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.lines)
}

// MockOrderRepository keeps orders in memory and reproduces the repository
// contract: create reserves stock all-or-nothing, transitions validate
// against the lifecycle table under a lock and run compensation.
type MockOrderRepository struct {
	mu     sync.Mutex
	inv    *MockInventory
	cart   *MockCartStore
	orders map[string]*domain.Order
	nextID int
}

func NewMockOrderRepository(inv *MockInventory, cart *MockCartStore) *MockOrderRepository {
	return &MockOrderRepository{
		inv:    inv,
		cart:   cart,
		orders: make(map[string]*domain.Order),
		nextID: 1,
	}
}

func (m *MockOrderRepository) Create(ctx context.Context, order *domain.Order, cleanup ports.CartCleanup) error {
	m.inv.mu.Lock()

	reserved := make([]int, 0, len(order.Lines))
	for i := range order.Lines {
		line := &order.Lines[i]
		productID, ok := m.inv.reserve(line.VariantID, line.Quantity)
		if !ok {
			// Roll back everything reserved so far
			for _, j := range reserved {
				m.inv.stock[order.Lines[j].VariantID] += order.Lines[j].Quantity
			}
			m.inv.mu.Unlock()
			return domain.NewInsufficientStock(line.ProductName)
		}
		line.ProductID = productID
		reserved = append(reserved, i)
	}
	m.inv.mu.Unlock()

	m.mu.Lock()
	order.ID = fmt.Sprintf("order-%d", m.nextID)
	m.nextID++
	stored := *order
	stored.Lines = append([]domain.OrderLine(nil), order.Lines...)
	m.orders[order.ID] = &stored
	m.mu.Unlock()

	if cleanup.FromCart && m.cart != nil {
		m.cart.consume(cleanup.LineIDs)
	}
	return nil
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id, userID string) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	order, ok := m.orders[id]
	if !ok || (userID != "" && order.UserID != userID) {
		return nil, domain.NewOrderNotFound(id)
	}
	copied := *order
	return &copied, nil
}

func (m *MockOrderRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*domain.Order
	for _, order := range m.orders {
		if order.UserID == userID {
			copied := *order
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (m *MockOrderRepository) ListAll(ctx context.Context, limit, offset int) ([]*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*domain.Order
	for _, order := range m.orders {
		copied := *order
		result = append(result, &copied)
	}
	return result, nil
}

func (m *MockOrderRepository) TransitionStatus(ctx context.Context, orderID, userID string, to domain.OrderStatus, allowedFrom ...domain.OrderStatus) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	order, ok := m.orders[orderID]
	if !ok || (userID != "" && order.UserID != userID) {
		return nil, domain.NewOrderNotFound(orderID)
	}

	from := order.Status
	if !domain.CanTransition(from, to) {
		return nil, domain.NewInvalidTransition(from, to)
	}
	if len(allowedFrom) > 0 {
		permitted := false
		for _, s := range allowedFrom {
			if from == s {
				permitted = true
			}
		}
		if !permitted {
			return nil, domain.NewInvalidTransition(from, to)
		}
	}

	switch to {
	case domain.OrderStatusCancelled:
		m.inv.mu.Lock()
		for _, line := range order.Lines {
			m.inv.stock[line.VariantID] += line.Quantity
			if from == domain.OrderStatusCompleted {
				m.inv.sold[line.ProductID] -= line.Quantity
			}
		}
		m.inv.mu.Unlock()
	case domain.OrderStatusCompleted:
		m.inv.mu.Lock()
		for _, line := range order.Lines {
			m.inv.sold[line.ProductID] += line.Quantity
		}
		m.inv.mu.Unlock()
	}

	order.Status = to
	copied := *order
	return &copied, nil
}

// MockCatalogStore resolves variants from a fixed set
type MockCatalogStore struct {
	variants map[string]ports.Variant
}

func (m *MockCatalogStore) FindVariantsByIDs(ctx context.Context, ids []string) ([]ports.Variant, error) {
	var out []ports.Variant
	for _, id := range ids {
		if v, ok := m.variants[id]; ok {
			out = append(out, v)
		}
	}
	return out, nil
}

// MockAddressStore resolves addresses from a fixed set keyed by id+owner
type MockAddressStore struct {
	addresses map[string]ports.Address
	owner     map[string]string
}

func NewMockAddressStore() *MockAddressStore {
	return &MockAddressStore{
		addresses: map[string]ports.Address{
			"addr-1": {ID: "addr-1", RecipientName: "Jane", RecipientPhone: "0900000000", FullAddress: "1 Main St, Ward 1, District 1, City"},
		},
		owner: map[string]string{"addr-1": "user-1"},
	}
}

func (m *MockAddressStore) Find(ctx context.Context, addressID, userID string) (*ports.Address, error) {
	addr, ok := m.addresses[addressID]
	if !ok || m.owner[addressID] != userID {
		return nil, apperrors.NewNotFound("address", addressID)
	}
	return &addr, nil
}

// MockVoucherService quotes from a fixed table and records redemptions
type MockVoucherService struct {
	mu        sync.Mutex
	quotes    map[string]ports.VoucherQuote
	quoteErr  map[string]error
	redeemErr error
	redeemed  []string
}

func NewMockVoucherService() *MockVoucherService {
	return &MockVoucherService{
		quotes:   make(map[string]ports.VoucherQuote),
		quoteErr: make(map[string]error),
	}
}

func (m *MockVoucherService) ValidateAndQuote(ctx context.Context, code string, subtotal int64) (*ports.VoucherQuote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.quoteErr[code]; ok {
		return nil, err
	}
	quote, ok := m.quotes[code]
	if !ok {
		return nil, apperrors.NewNotFound("voucher", code)
	}
	return &quote, nil
}

func (m *MockVoucherService) RecordRedemption(ctx context.Context, voucherID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.redeemErr != nil {
		return m.redeemErr
	}
	m.redeemed = append(m.redeemed, voucherID)
	return nil
}

// MockEventPublisher records published lifecycle events
type MockEventPublisher struct {
	mu     sync.Mutex
	events []string
}

func (m *MockEventPublisher) record(kind string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, kind)
	return nil
}

func (m *MockEventPublisher) PublishOrderCreated(ctx context.Context, order *domain.Order) error {
	return m.record("created")
}

func (m *MockEventPublisher) PublishOrderCancelled(ctx context.Context, order *domain.Order) error {
	return m.record("cancelled")
}

func (m *MockEventPublisher) PublishOrderCompleted(ctx context.Context, order *domain.Order) error {
	return m.record("completed")
}

func (m *MockEventPublisher) Events() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.events...)
}

type fixture struct {
	inv       *MockInventory
	cart      *MockCartStore
	repo      *MockOrderRepository
	catalog   *MockCatalogStore
	addresses *MockAddressStore
	vouchers  *MockVoucherService
	publisher *MockEventPublisher
	useCase   *OrderUseCase
}

func newFixture() *fixture {
	inv := NewMockInventory()
	cart := &MockCartStore{}
	repo := NewMockOrderRepository(inv, cart)
	catalog := &MockCatalogStore{variants: make(map[string]ports.Variant)}
	addresses := NewMockAddressStore()
	vouchers := NewMockVoucherService()
	publisher := &MockEventPublisher{}
	log := logger.New("test", "error")

	return &fixture{
		inv:       inv,
		cart:      cart,
		repo:      repo,
		catalog:   catalog,
		addresses: addresses,
		vouchers:  vouchers,
		publisher: publisher,
		useCase:   NewOrderUseCase(repo, cart, catalog, addresses, vouchers, publisher, log),
	}
}

func (f *fixture) seedCartLine(id, variantID, productID string, qty int, price int64, stock int) {
	f.inv.SetStock(variantID, productID, stock)
	f.cart.lines = append(f.cart.lines, ports.CartLine{
		ID:          id,
		VariantID:   variantID,
		ProductID:   productID,
		ProductName: "Shirt",
		Quantity:    qty,
		UnitPrice:   price,
	})
}

func TestCreateOrder_FromCart_Success(t *testing.T) {
	// Arrange
	f := newFixture()
	f.seedCartLine("line-1", "v1", "p1", 2, 100, 5)
	f.vouchers.quotes["SALE10"] = ports.VoucherQuote{VoucherID: "voucher-1", DiscountAmount: 20}

	// Act
	order, err := f.useCase.Create(context.Background(), "user-1", CreateOrderInput{
		AddressID:   "addr-1",
		VoucherCode: "SALE10",
		OrderType:   OrderTypeCart,
	})

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if order.SubtotalAmount != 200 {
		t.Errorf("expected subtotal 200, got %d", order.SubtotalAmount)
	}
	if order.DiscountAmount != 20 {
		t.Errorf("expected discount 20, got %d", order.DiscountAmount)
	}
	if order.ShippingFee != domain.ShippingFee {
		t.Errorf("expected fee %d, got %d", domain.ShippingFee, order.ShippingFee)
	}
	if order.TotalAmount != 30180 {
		t.Errorf("expected total 30180, got %d", order.TotalAmount)
	}
	if order.Status != domain.OrderStatusPending {
		t.Errorf("expected pending, got %s", order.Status)
	}
	if order.ShippingInfo.Name != "Jane" {
		t.Errorf("expected shipping snapshot, got %+v", order.ShippingInfo)
	}

	if got := f.inv.Stock("v1"); got != 3 {
		t.Errorf("expected stock 3, got %d", got)
	}
	if f.cart.Len() != 0 {
		t.Errorf("expected cart consumed, %d lines left", f.cart.Len())
	}
	if f.inv.Sold("p1") != 0 {
		t.Errorf("sold count must not move at creation, got %d", f.inv.Sold("p1"))
	}

	if len(f.vouchers.redeemed) != 1 || f.vouchers.redeemed[0] != "voucher-1" {
		t.Errorf("expected one redemption of voucher-1, got %v", f.vouchers.redeemed)
	}
	if events := f.publisher.Events(); len(events) != 1 || events[0] != "created" {
		t.Errorf("expected created event, got %v", events)
	}
}

func TestCreateOrder_InsufficientStock_RollsBack(t *testing.T) {
	f := newFixture()
	f.seedCartLine("line-1", "v1", "p1", 2, 100, 5)
	f.seedCartLine("line-2", "v2", "p2", 3, 50, 1)

	_, err := f.useCase.Create(context.Background(), "user-1", CreateOrderInput{
		AddressID: "addr-1",
		OrderType: OrderTypeCart,
	})

	if !apperrors.Is(err, apperrors.CodeConflict) {
		t.Fatalf("expected conflict error, got %v", err)
	}

	if got := f.inv.Stock("v1"); got != 5 {
		t.Errorf("expected stock of v1 restored to 5, got %d", got)
	}
	if got := f.inv.Stock("v2"); got != 1 {
		t.Errorf("expected stock of v2 untouched, got %d", got)
	}
	if f.cart.Len() != 2 {
		t.Errorf("expected cart untouched, got %d lines", f.cart.Len())
	}
	if orders, _ := f.repo.ListAll(context.Background(), 10, 0); len(orders) != 0 {
		t.Errorf("expected no orders persisted, got %d", len(orders))
	}
}

func TestCreateOrder_VoucherRejected_BeforeStock(t *testing.T) {
	f := newFixture()
	f.seedCartLine("line-1", "v1", "p1", 1, 100, 5)
	f.vouchers.quoteErr["DEAD"] = apperrors.NewConflict("voucher usage limit reached")

	_, err := f.useCase.Create(context.Background(), "user-1", CreateOrderInput{
		AddressID:   "addr-1",
		VoucherCode: "DEAD",
		OrderType:   OrderTypeCart,
	})

	if !apperrors.Is(err, apperrors.CodeConflict) {
		t.Fatalf("expected conflict error, got %v", err)
	}
	if got := f.inv.Stock("v1"); got != 5 {
		t.Errorf("expected stock untouched, got %d", got)
	}
}

func TestCreateOrder_CartSelectionMismatch(t *testing.T) {
	f := newFixture()
	f.seedCartLine("line-1", "v1", "p1", 1, 100, 5)

	_, err := f.useCase.Create(context.Background(), "user-1", CreateOrderInput{
		AddressID:   "addr-1",
		OrderType:   OrderTypeCart,
		CartLineIDs: []string{"line-1", "line-gone"},
	})

	if !errors.Is(err, domain.ErrCartSelectionMismatch) {
		t.Fatalf("expected ErrCartSelectionMismatch, got %v", err)
	}
	if got := f.inv.Stock("v1"); got != 5 {
		t.Errorf("expected stock untouched, got %d", got)
	}
}

func TestCreateOrder_EmptyCart(t *testing.T) {
	f := newFixture()

	_, err := f.useCase.Create(context.Background(), "user-1", CreateOrderInput{
		AddressID: "addr-1",
		OrderType: OrderTypeCart,
	})

	if !errors.Is(err, domain.ErrEmptyCheckout) {
		t.Fatalf("expected ErrEmptyCheckout, got %v", err)
	}
}

func TestCreateOrder_InvalidAddress(t *testing.T) {
	f := newFixture()
	f.seedCartLine("line-1", "v1", "p1", 1, 100, 5)

	_, err := f.useCase.Create(context.Background(), "user-1", CreateOrderInput{
		AddressID: "addr-of-someone-else",
		OrderType: OrderTypeCart,
	})

	if !errors.Is(err, domain.ErrInvalidAddress) {
		t.Fatalf("expected ErrInvalidAddress, got %v", err)
	}
	if got := f.inv.Stock("v1"); got != 5 {
		t.Errorf("expected stock untouched, got %d", got)
	}
}

func TestCreateOrder_BuyNow_LeavesCartUntouched(t *testing.T) {
	f := newFixture()
	f.seedCartLine("line-1", "v1", "p1", 1, 100, 5)
	f.inv.SetStock("v2", "p2", 10)
	f.catalog.variants["v2"] = ports.Variant{
		ID: "v2", ProductID: "p2", ProductName: "Hat", Price: 75, StockQuantity: 10,
	}

	order, err := f.useCase.Create(context.Background(), "user-1", CreateOrderInput{
		AddressID: "addr-1",
		OrderType: OrderTypeBuyNow,
		BuyNowItems: []BuyNowItem{
			{VariantID: "v2", Quantity: 2},
		},
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if order.SubtotalAmount != 150 {
		t.Errorf("expected subtotal 150, got %d", order.SubtotalAmount)
	}
	if f.cart.Len() != 1 {
		t.Errorf("expected cart untouched, got %d lines", f.cart.Len())
	}
	if got := f.inv.Stock("v2"); got != 8 {
		t.Errorf("expected stock 8, got %d", got)
	}
}

func TestCreateOrder_BuyNow_InsufficientStock(t *testing.T) {
	f := newFixture()
	f.inv.SetStock("v1", "p1", 3)
	f.catalog.variants["v1"] = ports.Variant{
		ID: "v1", ProductID: "p1", ProductName: "Shirt", Price: 100, StockQuantity: 3,
	}

	_, err := f.useCase.Create(context.Background(), "user-1", CreateOrderInput{
		AddressID: "addr-1",
		OrderType: OrderTypeBuyNow,
		BuyNowItems: []BuyNowItem{
			{VariantID: "v1", Quantity: 10},
		},
	})

	if !apperrors.Is(err, apperrors.CodeConflict) {
		t.Fatalf("expected conflict error, got %v", err)
	}
	if got := f.inv.Stock("v1"); got != 3 {
		t.Errorf("expected stock untouched at 3, got %d", got)
	}
	if orders, _ := f.repo.ListAll(context.Background(), 10, 0); len(orders) != 0 {
		t.Errorf("expected no orders persisted, got %d", len(orders))
	}
}

func TestCreateOrder_BuyNow_UnknownVariant(t *testing.T) {
	f := newFixture()

	_, err := f.useCase.Create(context.Background(), "user-1", CreateOrderInput{
		AddressID: "addr-1",
		OrderType: OrderTypeBuyNow,
		BuyNowItems: []BuyNowItem{
			{VariantID: "v-missing", Quantity: 1},
		},
	})

	if !apperrors.Is(err, apperrors.CodeNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestCreateOrder_RedemptionExhaustedAfterCommit_OrderKept(t *testing.T) {
	f := newFixture()
	f.seedCartLine("line-1", "v1", "p1", 1, 100, 5)
	f.vouchers.quotes["SALE10"] = ports.VoucherQuote{VoucherID: "voucher-1", DiscountAmount: 10}
	f.vouchers.redeemErr = apperrors.NewConflict("voucher usage limit reached")

	order, err := f.useCase.Create(context.Background(), "user-1", CreateOrderInput{
		AddressID:   "addr-1",
		VoucherCode: "SALE10",
		OrderType:   OrderTypeCart,
	})

	if err != nil {
		t.Fatalf("expected order to survive redemption exhaustion, got %v", err)
	}
	if order.DiscountAmount != 10 {
		t.Errorf("expected discount kept at 10, got %d", order.DiscountAmount)
	}
	if got := f.inv.Stock("v1"); got != 4 {
		t.Errorf("expected stock 4, got %d", got)
	}
}

func TestCancelOrder_Pending_RestoresStock(t *testing.T) {
	f := newFixture()
	f.seedCartLine("line-1", "v1", "p1", 2, 100, 5)

	order, err := f.useCase.Create(context.Background(), "user-1", CreateOrderInput{
		AddressID: "addr-1",
		OrderType: OrderTypeCart,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	cancelled, err := f.useCase.Cancel(context.Background(), order.ID, "user-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cancelled.Status != domain.OrderStatusCancelled {
		t.Errorf("expected cancelled, got %s", cancelled.Status)
	}
	if got := f.inv.Stock("v1"); got != 5 {
		t.Errorf("expected stock restored to 5, got %d", got)
	}
	if events := f.publisher.Events(); len(events) != 2 || events[1] != "cancelled" {
		t.Errorf("expected cancelled event, got %v", events)
	}
}

func TestCancelOrder_Confirmed_RejectedForCustomer(t *testing.T) {
	f := newFixture()
	f.seedCartLine("line-1", "v1", "p1", 1, 100, 5)

	order, err := f.useCase.Create(context.Background(), "user-1", CreateOrderInput{
		AddressID: "addr-1",
		OrderType: OrderTypeCart,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := f.useCase.UpdateStatus(context.Background(), order.ID, domain.OrderStatusConfirmed); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}

	_, err = f.useCase.Cancel(context.Background(), order.ID, "user-1")
	if !apperrors.Is(err, apperrors.CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if got := f.inv.Stock("v1"); got != 4 {
		t.Errorf("expected stock still reserved, got %d", got)
	}
}

func TestCancelOrder_NotOwned(t *testing.T) {
	f := newFixture()
	f.seedCartLine("line-1", "v1", "p1", 1, 100, 5)

	order, err := f.useCase.Create(context.Background(), "user-1", CreateOrderInput{
		AddressID: "addr-1",
		OrderType: OrderTypeCart,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	_, err = f.useCase.Cancel(context.Background(), order.ID, "user-2")
	if !apperrors.Is(err, apperrors.CodeNotFound) {
		t.Fatalf("expected not found for foreign order, got %v", err)
	}
}

func TestCompleteOrder_FromConfirmed_CreditsSoldOnce(t *testing.T) {
	f := newFixture()
	f.seedCartLine("line-1", "v1", "p1", 2, 100, 5)

	order, err := f.useCase.Create(context.Background(), "user-1", CreateOrderInput{
		AddressID: "addr-1",
		OrderType: OrderTypeCart,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := f.useCase.UpdateStatus(context.Background(), order.ID, domain.OrderStatusConfirmed); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}

	completed, err := f.useCase.Complete(context.Background(), order.ID, "")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if completed.Status != domain.OrderStatusCompleted {
		t.Errorf("expected completed, got %s", completed.Status)
	}
	if got := f.inv.Sold("p1"); got != 2 {
		t.Errorf("expected sold count 2, got %d", got)
	}

	// Completing again must fail and must not double-credit
	if _, err := f.useCase.Complete(context.Background(), order.ID, ""); !apperrors.Is(err, apperrors.CodeConflict) {
		t.Fatalf("expected conflict on second completion, got %v", err)
	}
	if got := f.inv.Sold("p1"); got != 2 {
		t.Errorf("expected sold count still 2, got %d", got)
	}
}

func TestUpdateStatus_IllegalTransition(t *testing.T) {
	f := newFixture()
	f.seedCartLine("line-1", "v1", "p1", 1, 100, 5)

	order, err := f.useCase.Create(context.Background(), "user-1", CreateOrderInput{
		AddressID: "addr-1",
		OrderType: OrderTypeCart,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	_, err = f.useCase.UpdateStatus(context.Background(), order.ID, domain.OrderStatusShipping)
	if !apperrors.Is(err, apperrors.CodeConflict) {
		t.Fatalf("expected conflict for pending -> shipping, got %v", err)
	}
}

func TestConcurrentCompletes_OnlyOneSucceeds(t *testing.T) {
	f := newFixture()
	f.seedCartLine("line-1", "v1", "p1", 1, 100, 5)

	order, err := f.useCase.Create(context.Background(), "user-1", CreateOrderInput{
		AddressID: "addr-1",
		OrderType: OrderTypeCart,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := f.useCase.UpdateStatus(context.Background(), order.ID, domain.OrderStatusConfirmed); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.useCase.Complete(context.Background(), order.ID, "")
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
		} else if !apperrors.Is(err, apperrors.CodeConflict) {
			t.Errorf("expected conflict for the loser, got %v", err)
		}
	}
	if successes != 1 {
		t.Errorf("expected exactly one success, got %d", successes)
	}
	if got := f.inv.Sold("p1"); got != 1 {
		t.Errorf("expected sold count 1, got %d", got)
	}
}

func TestConcurrentCreates_NeverOversell(t *testing.T) {
	f := newFixture()
	f.inv.SetStock("v1", "p1", 5)
	f.catalog.variants["v1"] = ports.Variant{
		ID: "v1", ProductID: "p1", ProductName: "Shirt", Price: 100, StockQuantity: 5,
	}

	const buyers = 10
	var wg sync.WaitGroup
	errs := make([]error, buyers)
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.useCase.Create(context.Background(), "user-1", CreateOrderInput{
				AddressID: "addr-1",
				OrderType: OrderTypeBuyNow,
				BuyNowItems: []BuyNowItem{
					{VariantID: "v1", Quantity: 1},
				},
			})
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
		} else if !apperrors.Is(err, apperrors.CodeConflict) {
			t.Errorf("expected conflict for losing buyers, got %v", err)
		}
	}
	if successes != 5 {
		t.Errorf("expected exactly 5 successful orders, got %d", successes)
	}
	if got := f.inv.Stock("v1"); got != 0 {
		t.Errorf("expected stock 0, got %d", got)
	}
}
