package register

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/georgemunganga/printa-pos/internal/apperr"
	"github.com/georgemunganga/printa-pos/internal/modules/payment"
)

type Status string

const (
	StatusOpen   Status = "open"
	StatusClosed Status = "closed"
)

var (
	ErrAlreadyOpen    = apperr.Validation("register_already_open", "a register session is already open for this cashier")
	ErrNotOpen        = apperr.Validation("register_not_open", "no register session is open for this cashier")
	ErrNegativeAmount = apperr.Validation("negative_register_amount", "register amounts cannot be negative")
)

// Session is one cashier shift. It is written once on open and once on
// close, and never reopened.
type Session struct {
	ID               uuid.UUID        `json:"id"`
	CashierID        uuid.UUID        `json:"cashier_id"`
	Status           Status           `json:"status"`
	OpeningAmount    decimal.Decimal  `json:"opening_amount"`
	OpeningNotes     string           `json:"opening_notes,omitempty"`
	OpenedAt         time.Time        `json:"opened_at"`
	ClosingAmount    *decimal.Decimal `json:"closing_amount,omitempty"`
	ExpectedAmount   *decimal.Decimal `json:"expected_amount,omitempty"`
	Variance         *decimal.Decimal `json:"variance,omitempty"`
	CashSales        *decimal.Decimal `json:"cash_sales,omitempty"`
	CardSales        *decimal.Decimal `json:"card_sales,omitempty"`
	MobileMoneySales *decimal.Decimal `json:"mobile_money_sales,omitempty"`
	CreditSales      *decimal.Decimal `json:"credit_sales,omitempty"`
	TransactionCount *int             `json:"transaction_count,omitempty"`
	ClosingNotes     string           `json:"closing_notes,omitempty"`
	ClosedAt         *time.Time       `json:"closed_at,omitempty"`
}

// Tender is one payment row of a sale as the register sees it.
type Tender struct {
	Method payment.Method
	Amount decimal.Decimal
}

// SaleTally is the part of a committed sale the register aggregates.
type SaleTally struct {
	SaleID        uuid.UUID
	PaymentMethod string
	Total         decimal.Decimal
	Change        decimal.Decimal
	Tenders       []Tender
}

// Summary is the shift reconciliation shown to the cashier. Variance and
// ClosingAmount are set only when a counted amount is known.
type Summary struct {
	SessionID        uuid.UUID        `json:"session_id"`
	CashierID        uuid.UUID        `json:"cashier_id"`
	OpenedAt         time.Time        `json:"opened_at"`
	OpeningAmount    decimal.Decimal  `json:"opening_amount"`
	CashSales        decimal.Decimal  `json:"cash_sales"`
	CardSales        decimal.Decimal  `json:"card_sales"`
	MobileMoneySales decimal.Decimal  `json:"mobile_money_sales"`
	CreditSales      decimal.Decimal  `json:"credit_sales"`
	TotalSales       decimal.Decimal  `json:"total_sales"`
	TransactionCount int              `json:"transaction_count"`
	ExpectedAmount   decimal.Decimal  `json:"expected_amount"`
	ClosingAmount    *decimal.Decimal `json:"closing_amount,omitempty"`
	Variance         *decimal.Decimal `json:"variance,omitempty"`
	GeneratedAt      time.Time        `json:"generated_at"`
}

type OpenRequest struct {
	OpeningAmount decimal.Decimal `json:"opening_amount"`
	Notes         string          `json:"notes"`
}

type CloseRequest struct {
	ClosingAmount decimal.Decimal `json:"closing_amount"`
	Notes         string          `json:"notes"`
}

// CloseResult is the terminal session together with the summary it was
// closed on.
type CloseResult struct {
	Session *Session `json:"session"`
	Summary *Summary `json:"summary"`
}
