package sale

import (
	"context"

	"github.com/google/uuid"
)

// Repository writes each record type of a sale separately so the commit can
// compensate step by step. Each call is atomic on its own.
type Repository interface {
	InsertSale(ctx context.Context, s *Sale) error
	InsertItems(ctx context.Context, items []Item) error
	InsertPayments(ctx context.Context, payments []Payment) error
	DeleteSale(ctx context.Context, saleID uuid.UUID) error
	DeleteItems(ctx context.Context, saleID uuid.UUID) error
	DeletePayments(ctx context.Context, saleID uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*Sale, error)
	ListByCashier(ctx context.Context, cashierID uuid.UUID, limit int) ([]*Sale, error)
}
