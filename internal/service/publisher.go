// Package service publishes booking change events to RabbitMQ.
package service

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	q "github.com/iliyamo/hotel-booking-data/internal/queue"
)

// EventPublisher sends BookingChangedEvent messages to the booking.changed
// queue.  Errors are logged and returned so callers can choose to ignore
// them without interrupting the request flow.
type EventPublisher struct {
	url string
	log *zap.Logger
}

// NewEventPublisher builds a publisher for the broker at url.
func NewEventPublisher(url string, log *zap.Logger) *EventPublisher {
	return &EventPublisher{url: url, log: log.Named("rabbitmq")}
}

// PublishBookingChanged dials the broker, declares the durable queue and
// publishes ev as a persistent JSON message.
func (p *EventPublisher) PublishBookingChanged(ctx context.Context, ev q.BookingChangedEvent) error {
	conn, err := amqp.DialConfig(p.url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(dialTimeout(ctx)),
	})
	if err != nil {
		p.log.Warn("dial failed", zap.Error(err))
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.log.Warn("channel open failed", zap.Error(err))
		return err
	}
	defer func() { _ = ch.Close() }()

	// Ensure the queue exists (idempotent). Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(
		q.BookingChangedQueue, // name
		true,                  // durable
		false,                 // autoDelete
		false,                 // exclusive
		false,                 // noWait
		nil,                   // args
	); err != nil {
		p.log.Warn("queue declare failed", zap.Error(err))
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		p.log.Warn("marshal event failed", zap.Error(err))
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent, // store on disk
		MessageId:    ev.EventID,
		Type:         ev.Action,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx,
		"",                    // default exchange
		q.BookingChangedQueue, // routing key = queue name
		false,                 // mandatory
		false,                 // immediate
		pub,
	); err != nil {
		p.log.Warn("publish failed", zap.Error(err), zap.String("event_id", ev.EventID))
		return err
	}

	p.log.Debug("event published", zap.String("event_id", ev.EventID), zap.String("action", ev.Action))
	return nil
}

const defaultDialTimeout = 5 * time.Second

// dialTimeout bounds the TCP connect and AMQP handshake by ctx's deadline,
// since amqp dialing does not take a context.
func dialTimeout(ctx context.Context) time.Duration {
	if dl, ok := ctx.Deadline(); ok {
		if d := time.Until(dl); d > 0 {
			return d
		}
		return time.Millisecond
	}
	return defaultDialTimeout
}

// NopPublisher drops every event.  It is used when events are disabled.
type NopPublisher struct{}

func (NopPublisher) PublishBookingChanged(context.Context, q.BookingChangedEvent) error { return nil }
