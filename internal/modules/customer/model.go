package customer

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/georgemunganga/printa-pos/internal/apperr"
)

var (
	ErrCustomerNotFound = apperr.NotFound("customer_not_found", "customer not found")
	ErrInvalidAmount    = apperr.Validation("invalid_amount", "amount must be greater than zero")
)

// Customer is a named buyer who may carry an outstanding credit balance.
type Customer struct {
	ID                 uuid.UUID       `json:"id"`
	Name               string          `json:"name"`
	Phone              string          `json:"phone,omitempty"`
	Email              string          `json:"email,omitempty"`
	OutstandingBalance decimal.Decimal `json:"outstanding_balance"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

type CollectRequest struct {
	Amount decimal.Decimal `json:"amount"`
}
