package adapters

import (
	"context"

	"shop-core/internal/order/domain"
	"shop-core/pkg/events"
	"shop-core/pkg/logger"
	"shop-core/pkg/rabbitmq"
)

// RabbitMQPublisher publishes order lifecycle events to the orders exchange
type RabbitMQPublisher struct {
	publisher *rabbitmq.Publisher
}

// NewRabbitMQPublisher creates a new RabbitMQ event publisher
func NewRabbitMQPublisher(conn *rabbitmq.Connection, log *logger.Logger) (*RabbitMQPublisher, error) {
	publisher, err := rabbitmq.NewPublisher(conn, events.ExchangeOrders, log)
	if err != nil {
		return nil, err
	}
	return &RabbitMQPublisher{publisher: publisher}, nil
}

// PublishOrderCreated publishes an order.created event
func (p *RabbitMQPublisher) PublishOrderCreated(ctx context.Context, order *domain.Order) error {
	return p.publish(ctx, events.RoutingKeyOrderCreated, order)
}

// PublishOrderCancelled publishes an order.cancelled event
func (p *RabbitMQPublisher) PublishOrderCancelled(ctx context.Context, order *domain.Order) error {
	return p.publish(ctx, events.RoutingKeyOrderCancelled, order)
}

// PublishOrderCompleted publishes an order.completed event
func (p *RabbitMQPublisher) PublishOrderCompleted(ctx context.Context, order *domain.Order) error {
	return p.publish(ctx, events.RoutingKeyOrderCompleted, order)
}

func (p *RabbitMQPublisher) publish(ctx context.Context, routingKey string, order *domain.Order) error {
	event := events.NewOrderEvent(
		routingKey,
		order.ID,
		order.UserID,
		order.TotalAmount,
		string(order.Status),
		logger.GetTraceID(ctx),
	)
	return p.publisher.Publish(ctx, routingKey, event)
}
