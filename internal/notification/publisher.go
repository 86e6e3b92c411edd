package notification

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/goccy/go-json"

	"laundry-system/internal/connections/rabbitmq"
	"laundry-system/internal/domain"
)

// Publisher emits the service's outbound events. Both publishes are
// fire-and-forget from the caller's point of view: a failed publish is
// logged upstream but never fails the order mutation.
type Publisher interface {
	PublishNotification(ctx context.Context, ev domain.NotificationEvent) error
	PublishOrderUpdated(ctx context.Context, ev domain.OrderUpdatedEvent) error
}

type AMQPPublisher struct {
	mq *rabbitmq.Client
}

func NewAMQPPublisher(mq *rabbitmq.Client) *AMQPPublisher {
	return &AMQPPublisher{mq: mq}
}

func (p *AMQPPublisher) PublishNotification(ctx context.Context, ev domain.NotificationEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal notification event: %w", err)
	}
	return p.mq.Publish(ctx, rabbitmq.NotificationsExchange, "", body, amqp.Table{
		"x-source": "laundry-tracker",
	})
}

func (p *AMQPPublisher) PublishOrderUpdated(ctx context.Context, ev domain.OrderUpdatedEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal order event: %w", err)
	}
	key := fmt.Sprintf("orders.%s.%s", ev.Collection, ev.Action)
	return p.mq.Publish(ctx, rabbitmq.OrdersExchange, key, body, amqp.Table{
		"x-source": "laundry-tracker",
	})
}
