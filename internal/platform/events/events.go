package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Event types broadcast between cashier sessions.
const (
	SaleCommitted  = "sale.committed"
	RegisterOpened = "register.opened"
	RegisterClosed = "register.closed"
)

const defaultChannel = "pos:events"

// Event is a change notification. Receivers use it to refresh aggregates;
// it never carries state that a commit depends on.
type Event struct {
	Type      string    `json:"type"`
	CashierID uuid.UUID `json:"cashier_id"`
	SaleID    uuid.UUID `json:"sale_id,omitempty"`
	At        time.Time `json:"at"`
}

// Publisher broadcasts change notifications.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

// RedisBus fans events out over a Redis pub/sub channel.
type RedisBus struct {
	client  *redis.Client
	channel string
	log     *zap.Logger
}

func NewRedisBus(client *redis.Client, log *zap.Logger) *RedisBus {
	return &RedisBus{client: client, channel: defaultChannel, log: log}
}

func (b *RedisBus) Publish(ctx context.Context, e Event) error {
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal event failed: %w", err)
	}
	if err := b.client.Publish(ctx, b.channel, data).Err(); err != nil {
		return fmt.Errorf("redis publish failed: %w", err)
	}
	return nil
}

// Subscribe delivers events to handle until ctx is done. Malformed payloads
// are logged and skipped.
func (b *RedisBus) Subscribe(ctx context.Context, handle func(Event)) error {
	sub := b.client.Subscribe(ctx, b.channel)
	defer sub.Close()

	// Wait for the subscription to be confirmed before consuming.
	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("redis subscribe failed: %w", err)
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var e Event
			if err := json.Unmarshal([]byte(msg.Payload), &e); err != nil {
				b.log.Warn("dropping malformed event", zap.Error(err))
				continue
			}
			handle(e)
		}
	}
}

// PublishAsync sends e in the background so the caller is never blocked by
// the bus. Failures are logged.
func PublishAsync(p Publisher, log *zap.Logger, e Event) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := p.Publish(ctx, e); err != nil {
			log.Warn("event publish failed",
				zap.String("type", e.Type),
				zap.String("cashier_id", e.CashierID.String()),
				zap.Error(err))
		}
	}()
}
