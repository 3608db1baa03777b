package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"shop-core/internal/cart"
	"shop-core/internal/inventory"
	"shop-core/internal/order/domain"
	"shop-core/internal/order/ports"
	apperrors "shop-core/pkg/errors"
)

// OrderModel is the GORM model for orders
type OrderModel struct {
	ID             string    `gorm:"type:uuid;primaryKey"`
	UserID         string    `gorm:"type:uuid;index;not null"`
	ShippingInfo   string    `gorm:"type:jsonb;not null"`
	SubtotalAmount int64     `gorm:"not null"`
	ShippingFee    int64     `gorm:"not null"`
	DiscountAmount int64     `gorm:"not null;default:0"`
	TotalAmount    int64     `gorm:"not null"`
	PaymentMethod  string    `gorm:"size:32;not null"`
	PaymentStatus  string    `gorm:"size:32;not null"`
	Note           string    `gorm:"size:500"`
	VoucherID      *string   `gorm:"type:uuid"`
	Status         string    `gorm:"size:32;not null;index"`
	CreatedAt      time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// BeforeCreate assigns a uuid primary key
func (o *OrderModel) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

// OrderItemModel is the GORM model for order lines. Price and variant
// descriptor are snapshots; they never track later catalog edits.
type OrderItemModel struct {
	ID               string    `gorm:"type:uuid;primaryKey"`
	OrderID          string    `gorm:"type:uuid;index;not null"`
	ProductVariantID string    `gorm:"type:uuid;not null"`
	ProductID        string    `gorm:"type:uuid;not null"`
	ProductName      string    `gorm:"size:255;not null"`
	VariantInfo      string    `gorm:"type:jsonb;not null"`
	Quantity         int       `gorm:"not null"`
	UnitPrice        int64     `gorm:"not null"`
	TotalPrice       int64     `gorm:"not null"`
	CreatedAt        time.Time `gorm:"autoCreateTime"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// BeforeCreate assigns a uuid primary key
func (i *OrderItemModel) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

type variantInfo struct {
	Color string `json:"color"`
	Size  string `json:"size"`
}

// PostgresOrderRepository implements OrderRepository using PostgreSQL
type PostgresOrderRepository struct {
	db     *gorm.DB
	ledger *inventory.Ledger
}

// NewPostgresOrderRepository creates a new PostgreSQL order repository
func NewPostgresOrderRepository(db *gorm.DB, ledger *inventory.Ledger) *PostgresOrderRepository {
	return &PostgresOrderRepository{db: db, ledger: ledger}
}

// Migrate runs auto-migration for the order models
func (r *PostgresOrderRepository) Migrate() error {
	return r.db.AutoMigrate(&OrderModel{}, &OrderItemModel{})
}

// Create persists the order header, reserves stock per line, snapshots the
// lines and consumes the cart, all in one transaction. Any failed stock
// reservation aborts the whole thing.
func (r *PostgresOrderRepository) Create(ctx context.Context, order *domain.Order, cleanup ports.CartCleanup) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model, err := toModel(order)
		if err != nil {
			return err
		}
		if err := tx.Create(model).Error; err != nil {
			return err
		}

		for i := range order.Lines {
			line := &order.Lines[i]

			productID, err := r.ledger.Reserve(tx, line.VariantID, line.Quantity)
			if err != nil {
				if errors.Is(err, inventory.ErrInsufficientStock) {
					return domain.NewInsufficientStock(line.ProductName)
				}
				return err
			}
			line.ProductID = productID

			item, err := toItemModel(model.ID, line)
			if err != nil {
				return err
			}
			if err := tx.Create(item).Error; err != nil {
				return err
			}
			line.ID = item.ID
		}

		if cleanup.FromCart {
			if len(cleanup.LineIDs) > 0 {
				if err := cart.DeleteLinesTx(tx, order.UserID, cleanup.LineIDs); err != nil {
					return err
				}
			} else {
				if err := cart.ClearTx(tx, order.UserID); err != nil {
					return err
				}
			}
		}

		order.ID = model.ID
		order.CreatedAt = model.CreatedAt
		order.UpdatedAt = model.UpdatedAt
		return nil
	})
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return err
		}
		return apperrors.NewInternal("failed to create order", err)
	}
	return nil
}

// GetByID loads an order with its lines. An empty userID skips the
// ownership check.
func (r *PostgresOrderRepository) GetByID(ctx context.Context, id, userID string) (*domain.Order, error) {
	var model OrderModel
	q := r.db.WithContext(ctx).Where("id = ?", id)
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}
	if err := q.First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewOrderNotFound(id)
		}
		return nil, apperrors.NewInternal("failed to get order", err)
	}

	var items []OrderItemModel
	if err := r.db.WithContext(ctx).Where("order_id = ?", model.ID).Order("created_at").Find(&items).Error; err != nil {
		return nil, apperrors.NewInternal("failed to get order items", err)
	}

	return toDomain(&model, items)
}

// ListByUser retrieves the user's orders without lines, newest first
func (r *PostgresOrderRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Order, error) {
	return r.list(ctx, r.db.WithContext(ctx).Where("user_id = ?", userID), limit, offset)
}

// ListAll retrieves all orders without lines, newest first
func (r *PostgresOrderRepository) ListAll(ctx context.Context, limit, offset int) ([]*domain.Order, error) {
	return r.list(ctx, r.db.WithContext(ctx), limit, offset)
}

func (r *PostgresOrderRepository) list(ctx context.Context, q *gorm.DB, limit, offset int) ([]*domain.Order, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	var models []OrderModel
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&models).Error
	if err != nil {
		return nil, apperrors.NewInternal("failed to list orders", err)
	}

	orders := make([]*domain.Order, 0, len(models))
	for i := range models {
		order, err := toDomain(&models[i], nil)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, nil
}

// TransitionStatus locks the order row, validates the status change against
// the lifecycle table plus the caller's allowedFrom restriction, applies it
// and runs the inventory compensation in the same transaction. Concurrent
// transitions serialize on the row lock, so the second caller always sees
// the first caller's final state.
func (r *PostgresOrderRepository) TransitionStatus(ctx context.Context, orderID, userID string, to domain.OrderStatus, allowedFrom ...domain.OrderStatus) (*domain.Order, error) {
	var order *domain.Order

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model OrderModel
		q := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", orderID)
		if userID != "" {
			q = q.Where("user_id = ?", userID)
		}
		if err := q.First(&model).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.NewOrderNotFound(orderID)
			}
			return err
		}

		from := domain.OrderStatus(model.Status)
		if !domain.CanTransition(from, to) {
			return domain.NewInvalidTransition(from, to)
		}
		if len(allowedFrom) > 0 && !statusIn(from, allowedFrom) {
			return domain.NewInvalidTransition(from, to)
		}

		now := time.Now()
		err := tx.Model(&OrderModel{}).
			Where("id = ?", model.ID).
			Updates(map[string]interface{}{"status": string(to), "updated_at": now}).Error
		if err != nil {
			return err
		}

		var items []OrderItemModel
		if err := tx.Where("order_id = ?", model.ID).Find(&items).Error; err != nil {
			return err
		}

		switch to {
		case domain.OrderStatusCancelled:
			for _, item := range items {
				if err := r.ledger.Restore(tx, item.ProductVariantID, item.Quantity); err != nil {
					return err
				}
				if from == domain.OrderStatusCompleted {
					if err := r.ledger.DebitSold(tx, item.ProductID, item.Quantity); err != nil {
						return err
					}
				}
			}
		case domain.OrderStatusCompleted:
			for _, item := range items {
				if err := r.ledger.CreditSold(tx, item.ProductID, item.Quantity); err != nil {
					return err
				}
			}
		}

		model.Status = string(to)
		model.UpdatedAt = now
		order, err = toDomain(&model, items)
		return err
	})
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, apperrors.NewInternal("failed to update order status", err)
	}
	return order, nil
}

func statusIn(s domain.OrderStatus, set []domain.OrderStatus) bool {
	for _, candidate := range set {
		if s == candidate {
			return true
		}
	}
	return false
}

// toModel converts a domain entity to a GORM model
func toModel(order *domain.Order) (*OrderModel, error) {
	shipping, err := json.Marshal(order.ShippingInfo)
	if err != nil {
		return nil, apperrors.NewInternal("failed to encode shipping info", err)
	}

	return &OrderModel{
		ID:             order.ID,
		UserID:         order.UserID,
		ShippingInfo:   string(shipping),
		SubtotalAmount: order.SubtotalAmount,
		ShippingFee:    order.ShippingFee,
		DiscountAmount: order.DiscountAmount,
		TotalAmount:    order.TotalAmount,
		PaymentMethod:  order.PaymentMethod,
		PaymentStatus:  order.PaymentStatus,
		Note:           order.Note,
		VoucherID:      order.VoucherID,
		Status:         string(order.Status),
	}, nil
}

// toItemModel converts an order line to a GORM model
func toItemModel(orderID string, line *domain.OrderLine) (*OrderItemModel, error) {
	info, err := json.Marshal(variantInfo{Color: line.Color, Size: line.Size})
	if err != nil {
		return nil, apperrors.NewInternal("failed to encode variant info", err)
	}

	return &OrderItemModel{
		OrderID:          orderID,
		ProductVariantID: line.VariantID,
		ProductID:        line.ProductID,
		ProductName:      line.ProductName,
		VariantInfo:      string(info),
		Quantity:         line.Quantity,
		UnitPrice:        line.UnitPrice,
		TotalPrice:       line.TotalPrice,
	}, nil
}

// toDomain converts GORM models to a domain entity
func toDomain(model *OrderModel, items []OrderItemModel) (*domain.Order, error) {
	var shipping domain.ShippingInfo
	if err := json.Unmarshal([]byte(model.ShippingInfo), &shipping); err != nil {
		return nil, apperrors.NewInternal("failed to decode shipping info", err)
	}

	lines := make([]domain.OrderLine, 0, len(items))
	for _, item := range items {
		var info variantInfo
		if err := json.Unmarshal([]byte(item.VariantInfo), &info); err != nil {
			return nil, apperrors.NewInternal("failed to decode variant info", err)
		}
		lines = append(lines, domain.OrderLine{
			ID:          item.ID,
			VariantID:   item.ProductVariantID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Color:       info.Color,
			Size:        info.Size,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			TotalPrice:  item.TotalPrice,
		})
	}

	return &domain.Order{
		ID:             model.ID,
		UserID:         model.UserID,
		ShippingInfo:   shipping,
		SubtotalAmount: model.SubtotalAmount,
		ShippingFee:    model.ShippingFee,
		DiscountAmount: model.DiscountAmount,
		TotalAmount:    model.TotalAmount,
		PaymentMethod:  model.PaymentMethod,
		PaymentStatus:  model.PaymentStatus,
		Note:           model.Note,
		VoucherID:      model.VoucherID,
		Status:         domain.OrderStatus(model.Status),
		Lines:          lines,
		CreatedAt:      model.CreatedAt,
		UpdatedAt:      model.UpdatedAt,
	}, nil
}
