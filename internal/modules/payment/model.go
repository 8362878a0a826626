package payment

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/georgemunganga/printa-pos/internal/apperr"
)

// Method is how part of a sale was tendered.
type Method string

const (
	MethodCash        Method = "cash"
	MethodCard        Method = "card"
	MethodMobileMoney Method = "mobile_money"
	MethodCredit      Method = "credit"
)

// LabelSplit is the sale payment label when more than one method carried money.
const LabelSplit = "split"

// Methods lists every method in the order new entries pick them.
var Methods = []Method{MethodCash, MethodCard, MethodMobileMoney, MethodCredit}

var (
	ErrUnknownMethod          = apperr.Validation("unknown_payment_method", "payment method must be one of cash, card, mobile_money, credit")
	ErrDuplicateMethod        = apperr.Validation("duplicate_payment_method", "payment method is already used by another entry")
	ErrNoMethodAvailable      = apperr.Validation("no_payment_method_available", "every payment method is already in use")
	ErrLastEntry              = apperr.Validation("last_payment_entry", "at least one payment entry is required")
	ErrNegativeAmount         = apperr.Validation("negative_payment_amount", "payment amount cannot be negative")
	ErrNotFullyPaid           = apperr.Validation("payment_incomplete", "payments do not cover the total")
	ErrCreditRequiresCustomer = apperr.Validation("credit_requires_customer", "a credit payment requires a selected customer")
	ErrEntryNotFound          = apperr.NotFound("payment_entry_not_found", "payment entry not found")
)

// ParseMethod accepts any casing of a method name.
func ParseMethod(s string) (Method, error) {
	m := Method(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Methods {
		if m == known {
			return m, nil
		}
	}
	return "", ErrUnknownMethod
}

// Entry is one tender line.
type Entry struct {
	ID     int             `json:"id"`
	Method Method          `json:"method"`
	Amount decimal.Decimal `json:"amount"`
}

// Patch changes the fields that are set.
type Patch struct {
	Method *Method          `json:"method,omitempty"`
	Amount *decimal.Decimal `json:"amount,omitempty"`
}

// Summary is the allocator state as shown to the cashier.
type Summary struct {
	Entries    []Entry         `json:"entries"`
	Total      decimal.Decimal `json:"total"`
	Paid       decimal.Decimal `json:"paid"`
	Remaining  decimal.Decimal `json:"remaining"`
	Change     decimal.Decimal `json:"change"`
	FullyPaid  bool            `json:"fully_paid"`
	Label      string          `json:"label"`
	CreditOwed decimal.Decimal `json:"credit_owed"`
}
