package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/georgemunganga/printa-pos/internal/apperr"
)

var (
	ErrBelowFloor        = apperr.Validation("below_floor", "unit price cannot be below the selling price")
	ErrInvalidQuantity   = apperr.Validation("invalid_quantity", "quantity must be at least 1")
	ErrInsufficientStock = apperr.Validation("insufficient_stock", "quantity exceeds available stock")
	ErrLineNotFound      = apperr.NotFound("cart_line_not_found", "product is not in the cart")
)

// Line is one product in an in-progress sale.
type Line struct {
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	// UnitPrice may be raised or lowered by the cashier but never below SellingPrice.
	UnitPrice    decimal.Decimal `json:"unit_price"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	Quantity     int             `json:"quantity"`
	// Stock is the available quantity read when the line was added.
	Stock      int             `json:"stock"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// Totals is the priced breakdown of a cart for one discount and tax rate.
type Totals struct {
	Gross    decimal.Decimal `json:"gross"`
	Discount decimal.Decimal `json:"discount"`
	Subtotal decimal.Decimal `json:"subtotal"`
	TaxRate  decimal.Decimal `json:"tax_rate"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}
