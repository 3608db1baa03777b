package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"shop-core/pkg/events"
	"shop-core/pkg/logger"
	"shop-core/pkg/rabbitmq"
)

// QueueName is the durable queue fed by the orders exchange
const QueueName = "shop.notifications"

// Consumer turns order lifecycle events into stored notifications
type Consumer struct {
	store *PostgresStore
	log   *logger.Logger
}

// NewConsumer creates a notification consumer
func NewConsumer(store *PostgresStore, log *logger.Logger) *Consumer {
	return &Consumer{store: store, log: log}
}

// Start binds the notification queue to every order event and begins
// consuming. Runs until ctx is cancelled.
func (c *Consumer) Start(ctx context.Context, conn *rabbitmq.Connection) error {
	consumer, err := rabbitmq.NewConsumer(
		conn,
		QueueName,
		events.ExchangeOrders,
		[]string{
			events.RoutingKeyOrderCreated,
			events.RoutingKeyOrderCancelled,
			events.RoutingKeyOrderCompleted,
		},
		c.log,
	)
	if err != nil {
		return err
	}

	return consumer.Consume(ctx, c.handle)
}

func (c *Consumer) handle(ctx context.Context, routingKey string, body []byte) error {
	var event events.OrderEvent
	if err := json.Unmarshal(body, &event); err != nil {
		c.log.WithContext(ctx).Error("dropping malformed order event",
			zap.String("routing_key", routingKey),
			zap.Error(err),
		)
		// Not retryable, ack it away
		return nil
	}

	var title, message string
	switch routingKey {
	case events.RoutingKeyOrderCreated:
		title = "Order placed"
		message = fmt.Sprintf("Your order for %d VND has been placed and is awaiting confirmation.", event.Payload.TotalAmount)
	case events.RoutingKeyOrderCancelled:
		title = "Order cancelled"
		message = "Your order has been cancelled and any reserved items were returned to stock."
	case events.RoutingKeyOrderCompleted:
		title = "Order delivered"
		message = "Your order has been delivered. Thank you for shopping with us."
	default:
		c.log.WithContext(ctx).Warn("ignoring unknown routing key",
			zap.String("routing_key", routingKey),
		)
		return nil
	}

	n := &NotificationModel{
		UserID:  event.Payload.UserID,
		Type:    routingKey,
		Title:   title,
		Message: message,
		OrderID: event.Payload.ID,
	}
	if err := c.store.Create(ctx, n); err != nil {
		return err
	}

	c.log.WithContext(ctx).Info("notification created",
		zap.String("notification_id", n.ID),
		zap.String("user_id", n.UserID),
		zap.String("type", n.Type),
	)
	return nil
}
