package suspend

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines persistence for suspended orders. Lookups are scoped to
// the owning cashier.
type Repository interface {
	Insert(ctx context.Context, o *Order) error
	Get(ctx context.Context, cashierID, id uuid.UUID) (*Order, error)
	ListByCashier(ctx context.Context, cashierID uuid.UUID) ([]*Order, error)
	// Delete reports sql.ErrNoRows when nothing was deleted.
	Delete(ctx context.Context, cashierID, id uuid.UUID) error
}
