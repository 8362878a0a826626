package receipt

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

// Printer accepts receipt projections for printing.
type Printer interface {
	Print(ctx context.Context, r *Receipt) error
}

// messageWriter is the subset of *kafka.Writer the printer needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// KafkaPrinter publishes receipts to the printing service's topic behind a
// circuit breaker so an unavailable printer fails fast.
type KafkaPrinter struct {
	writer  messageWriter
	breaker *gobreaker.CircuitBreaker[struct{}]
}

// NewKafkaWriter builds the writer used by NewKafkaPrinter. Receipts are
// written one per checkout, so batches are flushed almost immediately.
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		BatchSize:              1,
		BatchTimeout:           10 * time.Millisecond,
		WriteTimeout:           2 * time.Second,
		AllowAutoTopicCreation: true,
	}
}

func NewKafkaPrinter(w messageWriter, log *zap.Logger) *KafkaPrinter {
	st := gobreaker.Settings{
		Name:    "receipt-printer",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	}
	return &KafkaPrinter{writer: w, breaker: gobreaker.NewCircuitBreaker[struct{}](st)}
}

func (p *KafkaPrinter) Print(ctx context.Context, r *Receipt) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal receipt failed: %w", err)
	}
	_, err = p.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, p.writer.WriteMessages(ctx, kafka.Message{
			Key:   []byte(r.SaleID.String()),
			Value: data,
			Time:  time.Now().UTC(),
		})
	})
	if err != nil {
		return fmt.Errorf("publish receipt %s: %w", r.SaleID, err)
	}
	return nil
}

// LogPrinter writes receipts to the log; used when no broker is configured.
type LogPrinter struct{ log *zap.Logger }

func NewLogPrinter(log *zap.Logger) *LogPrinter { return &LogPrinter{log: log} }

func (p *LogPrinter) Print(_ context.Context, r *Receipt) error {
	p.log.Info("receipt ready",
		zap.String("sale_id", r.SaleID.String()),
		zap.String("total", r.Total.StringFixed(2)),
		zap.String("change", r.Change.StringFixed(2)),
		zap.Int("lines", len(r.Lines)))
	return nil
}
