package receipt

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func newReceipt() *Receipt {
	return &Receipt{
		SaleID:   uuid.New(),
		Store:    Store{Name: "Printa Lusaka"},
		Lines:    []Line{{Name: "A4 Paper", Quantity: 3, UnitPrice: decimal.NewFromInt(100), Total: decimal.NewFromInt(300)}},
		Subtotal: decimal.NewFromInt(300),
		Tax:      decimal.NewFromInt(48),
		Total:    decimal.NewFromInt(348),
	}
}

func TestKafkaPrinter_PublishesKeyedBySale(t *testing.T) {
	w := &fakeWriter{}
	p := NewKafkaPrinter(w, zap.NewNop())
	r := newReceipt()

	require.NoError(t, p.Print(context.Background(), r))
	require.Len(t, w.msgs, 1)
	assert.Equal(t, r.SaleID.String(), string(w.msgs[0].Key))

	var decoded Receipt
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &decoded))
	assert.True(t, decoded.Total.Equal(decimal.NewFromInt(348)))
	assert.Equal(t, "Printa Lusaka", decoded.Store.Name)
}

func TestKafkaPrinter_BreakerOpensAfterFailures(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker down")}
	p := NewKafkaPrinter(w, zap.NewNop())

	for i := 0; i < 3; i++ {
		assert.Error(t, p.Print(context.Background(), newReceipt()))
	}
	err := p.Print(context.Background(), newReceipt())
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
}

func TestLogPrinter(t *testing.T) {
	assert.NoError(t, NewLogPrinter(zap.NewNop()).Print(context.Background(), newReceipt()))
}

func TestNewKafkaWriter_FlushesPerReceipt(t *testing.T) {
	w := NewKafkaWriter([]string{"localhost:9092"}, "pos.receipts")
	defer w.Close()

	assert.Equal(t, 1, w.BatchSize)
	assert.LessOrEqual(t, w.BatchTimeout, 50*time.Millisecond)
	assert.Equal(t, "pos.receipts", w.Topic)
}
