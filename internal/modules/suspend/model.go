package suspend

import (
	"time"

	"github.com/google/uuid"

	"github.com/georgemunganga/printa-pos/internal/apperr"
	"github.com/georgemunganga/printa-pos/internal/modules/cart"
)

var ErrOrderNotFound = apperr.NotFound("suspended_order_not_found", "suspended order not found")

// Order is a parked cart. It belongs to the cashier who parked it and is
// deleted when resumed.
type Order struct {
	ID        uuid.UUID   `json:"id"`
	CashierID uuid.UUID   `json:"cashier_id"`
	Label     string      `json:"label"`
	Lines     []cart.Line `json:"lines"`
	CreatedAt time.Time   `json:"created_at"`
}
