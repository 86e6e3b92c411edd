package notification

import (
	"context"

	"github.com/goccy/go-json"

	"laundry-system/internal/common/logger"
	"laundry-system/internal/connections/rabbitmq"
	"laundry-system/internal/domain"
)

// LinkOpener delivers a composed wa.me link. The default implementation
// logs it; a UI shell would open the compose screen instead.
type LinkOpener interface {
	Open(link string) error
}

type LogLinkOpener struct {
	Log *logger.Logger
}

func (l *LogLinkOpener) Open(link string) error {
	l.Log.Info("whatsapp_link", map[string]any{"url": link})
	return nil
}

// Subscriber consumes notification events and hands their deep links to
// the opener. Delivery is best effort: a malformed event is dropped, an
// opener failure is logged and the message acked anyway (notifications
// are never retried).
type Subscriber struct {
	mq     *rabbitmq.Client
	opener LinkOpener
	log    *logger.Logger
}

func NewSubscriber(mq *rabbitmq.Client, opener LinkOpener, log *logger.Logger) *Subscriber {
	return &Subscriber{mq: mq, opener: opener, log: log}
}

// Run consumes until the context is canceled, then drains in-flight
// deliveries.
func (s *Subscriber) Run(ctx context.Context) error {
	msgs, err := s.mq.Consume(rabbitmq.NotificationsQueue, "notifier", 1)
	if err != nil {
		return err
	}
	s.log.Info("notifier_started", map[string]any{"queue": rabbitmq.NotificationsQueue})

	done := make(chan struct{})
	go func() {
		defer close(done)
		for d := range msgs {
			var ev domain.NotificationEvent
			if err := json.Unmarshal(d.Body, &ev); err != nil {
				s.log.Error("notification_decode_failed", err, nil)
				_ = d.Nack(false, false)
				continue
			}
			if err := s.opener.Open(ev.Link); err != nil {
				s.log.Error("notification_open_failed", err, map[string]any{
					"order_code": ev.OrderCode, "phase": string(ev.Phase),
				})
			} else {
				s.log.Debug("notification_delivered", map[string]any{
					"order_code": ev.OrderCode, "phase": string(ev.Phase), "kind": string(ev.Kind),
				})
			}
			_ = d.Ack(false)
		}
	}()

	<-ctx.Done()
	s.log.Info("notifier_shutdown", nil)
	_ = s.mq.Channel().Cancel("notifier", false)
	<-done
	return nil
}
