package cart

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/georgemunganga/printa-pos/internal/money"
)

var hundred = decimal.NewFromInt(100)

// Engine holds the lines of one cashier's cart. It is owned by a single
// session and is not safe for concurrent use.
type Engine struct {
	lines []Line
}

func New() *Engine { return &Engine{} }

// Add merges line into an existing line for the same product, or appends it.
// The stock carried by line is trusted as read by the caller.
func (e *Engine) Add(line Line) error {
	if line.Quantity < 1 {
		return ErrInvalidQuantity
	}
	if line.UnitPrice.IsZero() {
		line.UnitPrice = line.SellingPrice
	}
	if err := money.Check(line.UnitPrice); err != nil {
		return fmt.Errorf("product %s: %w", line.ProductID, err)
	}
	if line.UnitPrice.LessThan(line.SellingPrice) {
		return fmt.Errorf("product %s: %w", line.ProductID, ErrBelowFloor)
	}

	if i := e.index(line.ProductID); i >= 0 {
		existing := &e.lines[i]
		qty := existing.Quantity + line.Quantity
		if qty > line.Stock {
			return fmt.Errorf("product %s: %d requested, %d available: %w",
				line.ProductID, qty, line.Stock, ErrInsufficientStock)
		}
		existing.Quantity = qty
		existing.Stock = line.Stock
		existing.TotalPrice = lineTotal(existing.UnitPrice, qty)
		return nil
	}

	if line.Quantity > line.Stock {
		return fmt.Errorf("product %s: %d requested, %d available: %w",
			line.ProductID, line.Quantity, line.Stock, ErrInsufficientStock)
	}
	line.TotalPrice = lineTotal(line.UnitPrice, line.Quantity)
	e.lines = append(e.lines, line)
	return nil
}

// SetQuantity updates a line's quantity; qty below 1 removes the line.
func (e *Engine) SetQuantity(productID uuid.UUID, qty int) error {
	i := e.index(productID)
	if i < 0 {
		return ErrLineNotFound
	}
	if qty < 1 {
		e.lines = append(e.lines[:i], e.lines[i+1:]...)
		return nil
	}
	l := &e.lines[i]
	if qty > l.Stock {
		return fmt.Errorf("product %s: %d requested, %d available: %w",
			productID, qty, l.Stock, ErrInsufficientStock)
	}
	l.Quantity = qty
	l.TotalPrice = lineTotal(l.UnitPrice, qty)
	return nil
}

// SetUnitPrice changes a line's price. A price below the line's selling
// price is clamped to the floor and ErrBelowFloor is returned alongside the
// applied price so the caller can tell the cashier.
func (e *Engine) SetUnitPrice(productID uuid.UUID, price decimal.Decimal) (decimal.Decimal, error) {
	i := e.index(productID)
	if i < 0 {
		return decimal.Zero, ErrLineNotFound
	}
	if err := money.Check(price); err != nil {
		return decimal.Zero, err
	}
	l := &e.lines[i]
	var err error
	if price.LessThan(l.SellingPrice) {
		price = l.SellingPrice
		err = ErrBelowFloor
	}
	l.UnitPrice = price
	l.TotalPrice = lineTotal(price, l.Quantity)
	return price, err
}

func (e *Engine) Remove(productID uuid.UUID) error {
	i := e.index(productID)
	if i < 0 {
		return ErrLineNotFound
	}
	e.lines = append(e.lines[:i], e.lines[i+1:]...)
	return nil
}

// Clear empties the cart.
func (e *Engine) Clear() { e.lines = nil }

// Lines returns a copy of the current lines in insertion order.
func (e *Engine) Lines() []Line {
	out := make([]Line, len(e.lines))
	copy(out, e.lines)
	return out
}

// Restore replaces the cart contents with lines.
func (e *Engine) Restore(lines []Line) {
	e.lines = make([]Line, len(lines))
	copy(e.lines, lines)
}

func (e *Engine) IsEmpty() bool { return len(e.lines) == 0 }

// Gross is the raw sum of line totals before discount. Discount caps are
// computed from this value.
func (e *Engine) Gross() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range e.lines {
		sum = sum.Add(l.TotalPrice)
	}
	return sum
}

// Subtotal is max(0, gross - discount).
func (e *Engine) Subtotal(discount decimal.Decimal) decimal.Decimal {
	return e.Totals(decimal.Zero, discount).Subtotal
}

// Tax is the post-discount subtotal times rate, rounded to cents.
func (e *Engine) Tax(rate, discount decimal.Decimal) decimal.Decimal {
	return e.Totals(rate, discount).Tax
}

// Total is subtotal plus tax.
func (e *Engine) Total(rate, discount decimal.Decimal) decimal.Decimal {
	return e.Totals(rate, discount).Total
}

// Totals prices the cart. Negative discounts and rates count as zero.
func (e *Engine) Totals(rate, discount decimal.Decimal) Totals {
	return Compute(e.Gross(), rate, discount)
}

// Compute prices a gross amount for one tax rate and discount.
func Compute(gross, rate, discount decimal.Decimal) Totals {
	if discount.IsNegative() {
		discount = decimal.Zero
	}
	if rate.IsNegative() {
		rate = decimal.Zero
	}
	subtotal := gross.Sub(discount)
	if subtotal.IsNegative() {
		subtotal = decimal.Zero
	}
	tax := money.Round(subtotal.Mul(rate))
	return Totals{
		Gross:    gross,
		Discount: discount,
		Subtotal: subtotal,
		TaxRate:  rate,
		Tax:      tax,
		Total:    subtotal.Add(tax),
	}
}

// DiscountCap is the largest discount allowed at percent of gross.
func DiscountCap(gross, percent decimal.Decimal) decimal.Decimal {
	return money.Round(gross.Mul(percent).Div(hundred))
}

// RateFromPercent converts a settings percentage (16) to a rate (0.16).
func RateFromPercent(percent decimal.Decimal) decimal.Decimal {
	return percent.Div(hundred)
}

func (e *Engine) index(productID uuid.UUID) int {
	for i := range e.lines {
		if e.lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}

func lineTotal(price decimal.Decimal, qty int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(qty)))
}
