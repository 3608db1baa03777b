package events

import "time"

// Exchange names
const (
	ExchangeOrders = "orders.events"
)

// Routing keys
const (
	RoutingKeyOrderCreated   = "order.created"
	RoutingKeyOrderCancelled = "order.cancelled"
	RoutingKeyOrderCompleted = "order.completed"
)

// OrderEvent is published on order lifecycle changes
type OrderEvent struct {
	Version   string       `json:"version"`
	EventType string       `json:"event_type"`
	Timestamp time.Time    `json:"timestamp"`
	TraceID   string       `json:"trace_id"`
	Payload   OrderPayload `json:"payload"`
}

// OrderPayload contains order data
type OrderPayload struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	TotalAmount int64     `json:"total_amount"`
	Status      string    `json:"status"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// NewOrderEvent creates a lifecycle event for an order
func NewOrderEvent(eventType, id, userID string, totalAmount int64, status string, traceID string) *OrderEvent {
	return &OrderEvent{
		Version:   "1.0",
		EventType: eventType,
		Timestamp: time.Now(),
		TraceID:   traceID,
		Payload: OrderPayload{
			ID:          id,
			UserID:      userID,
			TotalAmount: totalAmount,
			Status:      status,
			OccurredAt:  time.Now(),
		},
	}
}
