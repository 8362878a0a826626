package customer

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Repository defines persistence for customers.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Customer, error)
	// AdjustBalance adds delta to the outstanding balance, never going below
	// zero, and returns the new balance. sql.ErrNoRows when id is unknown.
	AdjustBalance(ctx context.Context, id uuid.UUID, delta decimal.Decimal) (decimal.Decimal, error)
}
