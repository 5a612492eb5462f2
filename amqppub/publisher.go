// Package amqppub provides a minimal AMQP publisher used to push
// history records to an exchange.
package amqppub

import (
	"context"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher publishes JSON payloads to a single exchange. Safe for
// concurrent use; Close makes further publishes fail.
type Publisher struct {
	mu       sync.RWMutex
	channel  *amqp.Channel
	exchange string
}

// Option configures the publisher
type Option func(*config)

type config struct {
	exchange string
}

// WithExchange sets the exchange published to. Default is the AMQP
// default exchange.
func WithExchange(exchange string) Option {
	return func(c *config) {
		c.exchange = exchange
	}
}

// NewPublisher creates a publisher on its own channel of the given
// connection.
func NewPublisher(conn *amqp.Connection, opts ...Option) (*Publisher, error) {
	if conn == nil {
		return nil, fmt.Errorf("amqppub: connection cannot be nil")
	}

	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	channel, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("amqppub: create channel: %w", err)
	}

	return &Publisher{
		channel:  channel,
		exchange: cfg.exchange,
	}, nil
}

// Publish sends one JSON payload with the given routing key
func (p *Publisher) Publish(ctx context.Context, routingKey string, body []byte) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.channel == nil {
		return fmt.Errorf("amqppub: publisher is closed")
	}

	err := p.channel.PublishWithContext(ctx, p.exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("amqppub: publish to %s: %w", routingKey, err)
	}
	return nil
}

// Close releases the publisher's channel
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel == nil {
		return nil
	}
	channel := p.channel
	p.channel = nil
	if err := channel.Close(); err != nil {
		return fmt.Errorf("amqppub: close channel: %w", err)
	}
	return nil
}
