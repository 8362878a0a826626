package customer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/georgemunganga/printa-pos/internal/apperr"
	"github.com/georgemunganga/printa-pos/internal/money"
)

// Service manages customer credit.
type Service interface {
	Get(ctx context.Context, id uuid.UUID) (*Customer, error)
	// ChargeCredit raises the balance by the credit portion of a sale.
	ChargeCredit(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error
	// CollectDebt lowers the balance by a payment received, clamped at zero.
	CollectDebt(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (*Customer, error)
}

type service struct {
	repo Repository
	log  *zap.Logger
}

func NewService(repo Repository, log *zap.Logger) Service {
	return &service{repo: repo, log: log}
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Customer, error) {
	c, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("customer %s: %w", id, ErrCustomerNotFound)
	}
	if err != nil {
		return nil, apperr.Persistence("customer_lookup_failed", "failed to load customer", err)
	}
	return c, nil
}

func (s *service) ChargeCredit(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return nil
	}
	_, err := s.repo.AdjustBalance(ctx, id, amount)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("customer %s: %w", id, ErrCustomerNotFound)
	}
	if err != nil {
		return apperr.Persistence("customer_balance_failed", "failed to update customer balance", err)
	}
	return nil
}

func (s *service) CollectDebt(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (*Customer, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if err := money.Check(amount); err != nil {
		return nil, err
	}
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	balance, err := s.repo.AdjustBalance(ctx, id, amount.Neg())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("customer %s: %w", id, ErrCustomerNotFound)
	}
	if err != nil {
		return nil, apperr.Persistence("customer_balance_failed", "failed to update customer balance", err)
	}
	if amount.GreaterThan(c.OutstandingBalance) {
		s.log.Info("debt collection exceeded balance",
			zap.String("customer_id", id.String()),
			zap.String("amount", amount.StringFixed(2)),
			zap.String("balance_before", c.OutstandingBalance.StringFixed(2)))
	}
	c.OutstandingBalance = balance
	return c, nil
}
