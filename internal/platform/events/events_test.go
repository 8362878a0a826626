package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupBus(t *testing.T) (*RedisBus, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisBus(client, zap.NewNop()), mr
}

func TestRedisBus_PublishSubscribe(t *testing.T) {
	bus, _ := setupBus(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan Event, 64)
	done := make(chan error, 1)
	go func() {
		done <- bus.Subscribe(ctx, func(e Event) { received <- e })
	}()

	cashier := uuid.New()
	// Publish until the subscriber is attached; early messages have no receiver.
	var got Event
	require.Eventually(t, func() bool {
		if err := bus.Publish(ctx, Event{Type: SaleCommitted, CashierID: cashier}); err != nil {
			return false
		}
		select {
		case got = <-received:
			return true
		case <-time.After(50 * time.Millisecond):
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, SaleCommitted, got.Type)
	assert.Equal(t, cashier, got.CashierID)
	assert.False(t, got.At.IsZero())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("subscriber did not stop")
	}
}

type failingPublisher struct{ calls chan Event }

func (f failingPublisher) Publish(_ context.Context, e Event) error {
	f.calls <- e
	return errors.New("bus down")
}

func TestPublishAsync_DoesNotBlockOnFailure(t *testing.T) {
	p := failingPublisher{calls: make(chan Event, 1)}

	PublishAsync(p, zap.NewNop(), Event{Type: RegisterClosed})

	select {
	case e := <-p.calls:
		assert.Equal(t, RegisterClosed, e.Type)
	case <-time.After(time.Second):
		t.Fatal("publish was never attempted")
	}
}

func TestNop(t *testing.T) {
	assert.NoError(t, Nop{}.Publish(context.Background(), Event{}))
}
