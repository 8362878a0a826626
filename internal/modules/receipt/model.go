package receipt

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Store identifies the shop printed on the receipt header.
type Store struct {
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
}

// Line is a sold product as it was priced at commit time.
type Line struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Total     decimal.Decimal `json:"total"`
}

// Payment is one tender applied to the sale.
type Payment struct {
	Method string          `json:"method"`
	Amount decimal.Decimal `json:"amount"`
}

// Receipt is the data-only projection of a committed sale handed to the
// printing service. Layout is the printer's concern.
type Receipt struct {
	SaleID        uuid.UUID       `json:"sale_id"`
	Store         Store           `json:"store"`
	CashierID     uuid.UUID       `json:"cashier_id"`
	CustomerID    *uuid.UUID      `json:"customer_id,omitempty"`
	Lines         []Line          `json:"lines"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Discount      decimal.Decimal `json:"discount"`
	Tax           decimal.Decimal `json:"tax"`
	Total         decimal.Decimal `json:"total"`
	PaymentMethod string          `json:"payment_method"`
	Payments      []Payment       `json:"payments"`
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	Change        decimal.Decimal `json:"change"`
	Currency      string          `json:"currency"`
	Footer        string          `json:"footer,omitempty"`
	IssuedAt      time.Time       `json:"issued_at"`
}
