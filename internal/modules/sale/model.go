package sale

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/georgemunganga/printa-pos/internal/apperr"
	"github.com/georgemunganga/printa-pos/internal/modules/cart"
	"github.com/georgemunganga/printa-pos/internal/modules/payment"
)

// Commit steps, in the order they are written.
const (
	StepHeader   = "header"
	StepItems    = "items"
	StepPayments = "payments"
	StepCredit   = "credit_balance"
)

var (
	ErrEmptyCart    = apperr.Validation("empty_cart", "cannot commit a sale with no lines")
	ErrSaleNotFound = apperr.NotFound("sale_not_found", "sale not found")
)

// Sale is the header of a committed transaction. Immutable once written.
type Sale struct {
	ID             uuid.UUID       `json:"id"`
	CashierID      uuid.UUID       `json:"cashier_id"`
	CustomerID     *uuid.UUID      `json:"customer_id,omitempty"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	PaymentMethod  string          `json:"payment_method"`
	AmountPaid     decimal.Decimal `json:"amount_paid"`
	ChangeGiven    decimal.Decimal `json:"change_given"`
	CreatedAt      time.Time       `json:"created_at"`
	Items          []Item          `json:"items,omitempty"`
	Payments       []Payment       `json:"payments,omitempty"`
}

// Item snapshots a cart line as it was sold.
type Item struct {
	ID          uuid.UUID       `json:"id"`
	SaleID      uuid.UUID       `json:"sale_id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Payment is one tender recorded against a sale.
type Payment struct {
	ID        uuid.UUID       `json:"id"`
	SaleID    uuid.UUID       `json:"sale_id"`
	Method    payment.Method  `json:"method"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt time.Time       `json:"created_at"`
}

// CommitRequest is a finalized cart ready to be recorded.
type CommitRequest struct {
	CashierID  uuid.UUID
	CustomerID *uuid.UUID
	Lines      []cart.Line
	Payments   []payment.Entry
	Discount   decimal.Decimal
	TaxRate    decimal.Decimal
}

// CommitError reports a commit that failed after validation. Step names the
// write that failed. Compensated is true when every earlier write was undone,
// so the sale can be retried as a new commit; false means rows were left
// behind and need manual reconciliation.
type CommitError struct {
	SaleID      uuid.UUID
	Step        string
	Compensated bool
	Err         error
	UndoErr     error
}

func (e *CommitError) Error() string {
	if !e.Compensated {
		return fmt.Sprintf("sale %s: %s write failed: %v; compensation failed: %v",
			e.SaleID, e.Step, e.Err, e.UndoErr)
	}
	return fmt.Sprintf("sale %s: %s write failed: %v", e.SaleID, e.Step, e.Err)
}

func (e *CommitError) Unwrap() error { return e.Err }

// PublicMessage omits the store error and any compensation failure.
func (e *CommitError) PublicMessage() string {
	if !e.Compensated {
		return fmt.Sprintf("sale %s was partially saved and needs manual reconciliation", e.SaleID)
	}
	return fmt.Sprintf("sale could not be saved (%s step); nothing was recorded, retry the checkout", e.Step)
}

func (e *CommitError) ErrorKind() apperr.Kind { return apperr.KindPersistence }

func (e *CommitError) ErrorCode() string {
	if !e.Compensated {
		return "sale_reconciliation_required"
	}
	return "sale_commit_failed"
}

// RequiresReconciliation reports whether partial rows may remain.
func (e *CommitError) RequiresReconciliation() bool { return !e.Compensated }
