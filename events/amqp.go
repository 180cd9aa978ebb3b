package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rabbitmq/amqp091-go"
)

// Exchange is the topic exchange booking events are published to
const Exchange = "bookings"

// Publisher sends events to RabbitMQ with the event type as routing key
type Publisher struct {
	conn *amqp091.Connection
	mu   sync.Mutex
	ch   *amqp091.Channel
}

// NewPublisher dials url and declares the durable bookings exchange
func NewPublisher(url string) (*Publisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		Exchange,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", Exchange, err)
	}

	return &Publisher{conn: conn, ch: ch}, nil
}

// Notify publishes e; a channel is not safe for concurrent use so publishes are serialized
func (p *Publisher) Notify(ctx context.Context, e Event) error {
	msg, err := buildMessage(e)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.ch.PublishWithContext(ctx, Exchange, string(e.Type), false, false, msg); err != nil {
		return fmt.Errorf("publish %s: %w", e.Type, err)
	}
	return nil
}

// Close closes the channel and the connection
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ch.Close()
	return p.conn.Close()
}

func buildMessage(e Event) (amqp091.Publishing, error) {
	body, err := json.Marshal(e)
	if err != nil {
		return amqp091.Publishing{}, fmt.Errorf("marshal event: %w", err)
	}
	return amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		MessageId:    e.BookingID + ":" + string(e.Type),
		Timestamp:    e.At,
		Type:         string(e.Type),
		Body:         body,
	}, nil
}
