// Package events publishes domain events to an AMQP exchange. Publishing is
// best effort: the API never fails a request because the broker is down.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"

	"github.com/finbook/finbook_backend/internal/middleware"
)

const publishTimeout = 5 * time.Second

// Event is a payload that knows its own routing key.
type Event interface {
	RoutingKey() string
}

// DebtSettled fires when a debt reaches its full amount or is marked paid.
type DebtSettled struct {
	DebtID string          `json:"debtID"`
	UserID string          `json:"userID"`
	Amount decimal.Decimal `json:"amount"`
}

func (DebtSettled) RoutingKey() string { return "debt.settled" }

// SubscriptionProcessed fires for every recurring charge materialized by the
// subscription processor.
type SubscriptionProcessed struct {
	SubscriptionID  string          `json:"subscriptionID"`
	UserID          string          `json:"userID"`
	TransactionID   string          `json:"transactionID"`
	Amount          decimal.Decimal `json:"amount"`
	NextPaymentDate time.Time       `json:"nextPaymentDate"`
}

func (SubscriptionProcessed) RoutingKey() string { return "subscription.processed" }

// Publisher sends events to a topic exchange over a single AMQP channel.
// A nil Publisher is valid and drops every event.
type Publisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

// NewPublisher connects to the broker and declares the exchange. An empty URL
// returns a nil publisher, which disables event publishing.
func NewPublisher(url, exchange string) (*Publisher, error) {
	if url == "" {
		return nil, nil
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to AMQP broker: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open AMQP channel: %w", err)
	}

	if err := channel.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %q: %w", exchange, err)
	}

	return &Publisher{conn: conn, channel: channel, exchange: exchange}, nil
}

// Publish sends one event. Failures are logged and swallowed.
func (p *Publisher) Publish(ctx context.Context, event Event) {
	if p == nil {
		return
	}

	logger := middleware.GetLoggerFromCtx(ctx)

	body, err := json.Marshal(event)
	if err != nil {
		logger.Error("Failed to marshal event", slog.String("routing_key", event.RoutingKey()), slog.String("error", err.Error()))
		return
	}

	pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.channel.PublishWithContext(pubCtx, p.exchange, event.RoutingKey(), false, false, amqp.Publishing{
		ContentType: "application/json",
		Timestamp:   time.Now(),
		Body:        body,
	})
	if err != nil {
		logger.Error("Failed to publish event", slog.String("routing_key", event.RoutingKey()), slog.String("error", err.Error()))
		return
	}

	logger.Debug("Event published", slog.String("routing_key", event.RoutingKey()))
}

// Close releases the channel and connection. Safe on a nil publisher.
func (p *Publisher) Close() {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}
