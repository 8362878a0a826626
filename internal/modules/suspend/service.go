package suspend

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/georgemunganga/printa-pos/internal/apperr"
	"github.com/georgemunganga/printa-pos/internal/modules/cart"
	"github.com/georgemunganga/printa-pos/internal/platform/metrics"
)

// Service parks and restores carts.
type Service interface {
	// Suspend stores lines under label. An empty cart is a no-op and returns
	// a nil order.
	Suspend(ctx context.Context, cashierID uuid.UUID, label string, lines []cart.Line) (*Order, error)
	List(ctx context.Context, cashierID uuid.UUID) ([]*Order, error)
	// Resume merges the order's lines into c and deletes the order. If any
	// line is rejected c is left as it was.
	Resume(ctx context.Context, cashierID, id uuid.UUID, c *cart.Engine) (*Order, error)
	Discard(ctx context.Context, cashierID, id uuid.UUID) error
}

type service struct {
	repo    Repository
	metrics *metrics.Recorder
	log     *zap.Logger
	now     func() time.Time
}

func NewService(repo Repository, rec *metrics.Recorder, log *zap.Logger) Service {
	return &service{
		repo:    repo,
		metrics: rec,
		log:     log,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *service) Suspend(ctx context.Context, cashierID uuid.UUID, label string, lines []cart.Line) (*Order, error) {
	if len(lines) == 0 {
		return nil, nil
	}
	now := s.now()
	label = strings.TrimSpace(label)
	if label == "" {
		label = "Held " + now.Format("15:04")
	}
	o := &Order{
		ID:        uuid.New(),
		CashierID: cashierID,
		Label:     label,
		Lines:     lines,
		CreatedAt: now,
	}
	if err := s.repo.Insert(ctx, o); err != nil {
		return nil, apperr.Persistence("suspend_failed", "failed to suspend order", err)
	}
	return o, nil
}

func (s *service) List(ctx context.Context, cashierID uuid.UUID) ([]*Order, error) {
	orders, err := s.repo.ListByCashier(ctx, cashierID)
	if err != nil {
		return nil, apperr.Persistence("suspended_list_failed", "failed to list suspended orders", err)
	}
	return orders, nil
}

func (s *service) Resume(ctx context.Context, cashierID, id uuid.UUID, c *cart.Engine) (*Order, error) {
	o, err := s.repo.Get(ctx, cashierID, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("order %s: %w", id, ErrOrderNotFound)
	}
	if err != nil {
		return nil, apperr.Persistence("suspended_lookup_failed", "failed to load suspended order", err)
	}

	snapshot := c.Lines()
	for _, l := range o.Lines {
		if err := c.Add(l); err != nil {
			c.Restore(snapshot)
			return nil, err
		}
	}

	if err := s.repo.Delete(ctx, cashierID, id); err != nil {
		s.metrics.Stale()
		s.log.Warn("resumed order could not be deleted, record is stale",
			zap.String("order_id", id.String()),
			zap.String("cashier_id", cashierID.String()),
			zap.Error(err))
	}
	return o, nil
}

func (s *service) Discard(ctx context.Context, cashierID, id uuid.UUID) error {
	err := s.repo.Delete(ctx, cashierID, id)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("order %s: %w", id, ErrOrderNotFound)
	}
	if err != nil {
		return apperr.Persistence("suspended_discard_failed", "failed to discard suspended order", err)
	}
	return nil
}
