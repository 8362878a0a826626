// Package money holds the precision rule shared by every amount the till
// accepts. Amounts are stored as NUMERIC(12,2), so anything finer than a
// cent is rejected on the way in rather than rounded by the database.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/georgemunganga/printa-pos/internal/apperr"
)

// Places is the number of decimal places an amount may carry.
const Places = 2

var ErrSubCent = apperr.Validation("sub_cent_amount", "amounts are limited to 2 decimal places")

// Check rejects an amount that would change when rounded to cents.
func Check(d decimal.Decimal) error {
	if !d.Equal(d.Round(Places)) {
		return fmt.Errorf("amount %s: %w", d.String(), ErrSubCent)
	}
	return nil
}

// Round rounds a computed amount to cents, half away from zero.
func Round(d decimal.Decimal) decimal.Decimal { return d.Round(Places) }
