package settings

import (
	"time"

	"github.com/shopspring/decimal"
)

// Settings is the store-wide configuration the POS core consumes.
type Settings struct {
	StoreName          string          `json:"store_name"`
	Address            string          `json:"address,omitempty"`
	Phone              string          `json:"phone,omitempty"`
	TaxRatePercent     decimal.Decimal `json:"tax_rate_percent"`
	DiscountCapPercent decimal.Decimal `json:"discount_cap_percent"`
	LowStockThreshold  int             `json:"low_stock_threshold"`
	ReceiptFooter      string          `json:"receipt_footer,omitempty"`
	Currency           string          `json:"currency"`
	UpdatedAt          time.Time       `json:"updated_at,omitempty"`
}

var hundred = decimal.NewFromInt(100)

// TaxRate is the tax percentage as a multiplier (16 -> 0.16).
func (s Settings) TaxRate() decimal.Decimal {
	return s.TaxRatePercent.Div(hundred)
}
