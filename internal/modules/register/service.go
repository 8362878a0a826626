package register

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/georgemunganga/printa-pos/internal/apperr"
	"github.com/georgemunganga/printa-pos/internal/money"
	"github.com/georgemunganga/printa-pos/internal/platform/events"
	"github.com/georgemunganga/printa-pos/internal/platform/metrics"
)

// Service drives the register shift state machine: closed -> open -> closed.
type Service interface {
	Open(ctx context.Context, cashierID uuid.UUID, req OpenRequest) (*Session, error)
	Current(ctx context.Context, cashierID uuid.UUID) (*Session, error)
	// LiveSummary is the running summary of the open shift, without variance.
	LiveSummary(ctx context.Context, cashierID uuid.UUID) (*Summary, error)
	// Preview computes the close summary for a counted amount without closing.
	Preview(ctx context.Context, cashierID uuid.UUID, closingAmount decimal.Decimal) (*Summary, error)
	// Close records the counted amount and returns the terminal session with
	// the summary it was closed on.
	Close(ctx context.Context, cashierID uuid.UUID, req CloseRequest) (*CloseResult, error)
	History(ctx context.Context, cashierID uuid.UUID, limit int) ([]*Session, error)
	// Invalidate drops the cached live summary for cashierID.
	Invalidate(ctx context.Context, cashierID uuid.UUID)
}

type service struct {
	repo    Repository
	cache   SummaryCache
	bus     events.Publisher
	metrics *metrics.Recorder
	log     *zap.Logger
	sfg     singleflight.Group
	now     func() time.Time
}

func NewService(repo Repository, cache SummaryCache, bus events.Publisher, rec *metrics.Recorder, log *zap.Logger) Service {
	return &service{
		repo:    repo,
		cache:   cache,
		bus:     bus,
		metrics: rec,
		log:     log,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *service) Open(ctx context.Context, cashierID uuid.UUID, req OpenRequest) (*Session, error) {
	if req.OpeningAmount.IsNegative() {
		return nil, ErrNegativeAmount
	}
	if err := money.Check(req.OpeningAmount); err != nil {
		return nil, err
	}
	_, err := s.open(ctx, cashierID)
	switch {
	case err == nil:
		return nil, ErrAlreadyOpen
	case !errors.Is(err, ErrNotOpen):
		return nil, err
	}

	session := &Session{
		ID:            uuid.New(),
		CashierID:     cashierID,
		Status:        StatusOpen,
		OpeningAmount: req.OpeningAmount,
		OpeningNotes:  strings.TrimSpace(req.Notes),
		OpenedAt:      s.now(),
	}
	if err := s.repo.Insert(ctx, session); err != nil {
		if errors.Is(err, ErrAlreadyOpen) {
			return nil, err
		}
		return nil, apperr.Persistence("register_open_failed", "failed to open register", err)
	}

	s.log.Info("register opened",
		zap.String("session_id", session.ID.String()),
		zap.String("cashier_id", cashierID.String()),
		zap.String("opening_amount", session.OpeningAmount.StringFixed(2)))
	events.PublishAsync(s.bus, s.log, events.Event{Type: events.RegisterOpened, CashierID: cashierID, At: session.OpenedAt})
	return session, nil
}

func (s *service) Current(ctx context.Context, cashierID uuid.UUID) (*Session, error) {
	return s.open(ctx, cashierID)
}

func (s *service) LiveSummary(ctx context.Context, cashierID uuid.UUID) (*Summary, error) {
	v, err, _ := s.sfg.Do(cashierID.String(), func() (interface{}, error) {
		cached, err := s.cache.Get(ctx, cashierID)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			s.log.Warn("summary cache get failed", zap.Error(err))
		}

		session, err := s.open(ctx, cashierID)
		if err != nil {
			return nil, err
		}
		sum, err := s.summarize(ctx, session, nil)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(ctx, cashierID, sum); err != nil {
			s.log.Warn("summary cache set failed", zap.Error(err))
		}
		return sum, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Summary), nil
}

func (s *service) Preview(ctx context.Context, cashierID uuid.UUID, closingAmount decimal.Decimal) (*Summary, error) {
	if closingAmount.IsNegative() {
		return nil, ErrNegativeAmount
	}
	if err := money.Check(closingAmount); err != nil {
		return nil, err
	}
	session, err := s.open(ctx, cashierID)
	if err != nil {
		return nil, err
	}
	return s.summarize(ctx, session, &closingAmount)
}

func (s *service) Close(ctx context.Context, cashierID uuid.UUID, req CloseRequest) (*CloseResult, error) {
	if req.ClosingAmount.IsNegative() {
		return nil, ErrNegativeAmount
	}
	if err := money.Check(req.ClosingAmount); err != nil {
		return nil, err
	}
	session, err := s.open(ctx, cashierID)
	if err != nil {
		return nil, err
	}
	sum, err := s.summarize(ctx, session, &req.ClosingAmount)
	if err != nil {
		return nil, err
	}

	closedAt := sum.GeneratedAt
	closed := *session
	closed.Status = StatusClosed
	closed.ClosingAmount = sum.ClosingAmount
	closed.ExpectedAmount = &sum.ExpectedAmount
	closed.Variance = sum.Variance
	closed.CashSales = &sum.CashSales
	closed.CardSales = &sum.CardSales
	closed.MobileMoneySales = &sum.MobileMoneySales
	closed.CreditSales = &sum.CreditSales
	closed.TransactionCount = &sum.TransactionCount
	closed.ClosingNotes = strings.TrimSpace(req.Notes)
	closed.ClosedAt = &closedAt

	if err := s.repo.Close(ctx, &closed); err != nil {
		if errors.Is(err, ErrNotOpen) {
			return nil, err
		}
		return nil, apperr.Persistence("register_close_failed", "failed to close register", err)
	}

	variance, _ := sum.Variance.Float64()
	s.metrics.Variance(variance)
	s.Invalidate(ctx, cashierID)
	s.log.Info("register closed",
		zap.String("session_id", closed.ID.String()),
		zap.String("cashier_id", cashierID.String()),
		zap.String("expected", sum.ExpectedAmount.StringFixed(2)),
		zap.String("variance", sum.Variance.StringFixed(2)),
		zap.Int("transactions", sum.TransactionCount))
	events.PublishAsync(s.bus, s.log, events.Event{Type: events.RegisterClosed, CashierID: cashierID, At: closedAt})

	return &CloseResult{Session: &closed, Summary: sum}, nil
}

func (s *service) History(ctx context.Context, cashierID uuid.UUID, limit int) ([]*Session, error) {
	if limit < 1 || limit > 100 {
		limit = 10
	}
	sessions, err := s.repo.ListClosed(ctx, cashierID, limit)
	if err != nil {
		return nil, apperr.Persistence("register_history_failed", "failed to list register sessions", err)
	}
	return sessions, nil
}

func (s *service) Invalidate(ctx context.Context, cashierID uuid.UUID) {
	if err := s.cache.Delete(ctx, cashierID); err != nil {
		s.log.Warn("summary cache delete failed", zap.String("cashier_id", cashierID.String()), zap.Error(err))
	}
}

func (s *service) open(ctx context.Context, cashierID uuid.UUID) (*Session, error) {
	session, err := s.repo.GetOpen(ctx, cashierID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotOpen
	}
	if err != nil {
		return nil, apperr.Persistence("register_lookup_failed", "failed to load register session", err)
	}
	return session, nil
}

func (s *service) summarize(ctx context.Context, session *Session, closing *decimal.Decimal) (*Summary, error) {
	sales, err := s.repo.SalesSince(ctx, session.CashierID, session.OpenedAt)
	if err != nil {
		return nil, apperr.Persistence("register_sales_failed",
			fmt.Sprintf("failed to load sales since %s", session.OpenedAt.Format(time.RFC3339)), err)
	}
	return Summarize(session, sales, closing, s.now()), nil
}
