package product

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/georgemunganga/printa-pos/internal/apperr"
)

var (
	ErrProductNotFound = apperr.NotFound("product_not_found", "product not found")
	ErrProductInactive = apperr.Validation("product_inactive", "product is not available for sale")
)

// Product is the read-only view of a catalogue item the till prices from.
type Product struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
	StockQuantity int             `json:"stock_quantity"`
	IsActive      bool            `json:"is_active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
