package cart

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/georgemunganga/printa-pos/internal/money"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newLine(price string, qty, stock int) Line {
	return Line{
		ProductID:    uuid.New(),
		ProductName:  "Business cards",
		SellingPrice: d(price),
		Quantity:     qty,
		Stock:        stock,
	}
}

func TestAdd_AppendsAndDefaultsUnitPrice(t *testing.T) {
	e := New()
	l := newLine("100", 3, 10)

	require.NoError(t, e.Add(l))

	lines := e.Lines()
	require.Len(t, lines, 1)
	assert.True(t, lines[0].UnitPrice.Equal(d("100")))
	assert.True(t, lines[0].TotalPrice.Equal(d("300")))
}

func TestAdd_MergesSameProduct(t *testing.T) {
	e := New()
	l := newLine("100", 2, 10)
	require.NoError(t, e.Add(l))
	_, err := e.SetUnitPrice(l.ProductID, d("120"))
	require.NoError(t, err)

	l.Quantity = 3
	require.NoError(t, e.Add(l))

	lines := e.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 5, lines[0].Quantity)
	// merge keeps the line's current unit price
	assert.True(t, lines[0].TotalPrice.Equal(d("600")))
}

func TestAdd_RejectsOverStock(t *testing.T) {
	e := New()
	l := newLine("10", 4, 5)
	require.NoError(t, e.Add(l))

	l.Quantity = 2
	err := e.Add(l)
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, 4, e.Lines()[0].Quantity)

	assert.ErrorIs(t, New().Add(newLine("10", 6, 5)), ErrInsufficientStock)
}

func TestAdd_RejectsInvalidInput(t *testing.T) {
	e := New()
	assert.ErrorIs(t, e.Add(newLine("10", 0, 5)), ErrInvalidQuantity)

	l := newLine("10", 1, 5)
	l.UnitPrice = d("9.99")
	assert.ErrorIs(t, e.Add(l), ErrBelowFloor)
	assert.True(t, e.IsEmpty())
}

func TestSetQuantity(t *testing.T) {
	e := New()
	l := newLine("25", 1, 4)
	require.NoError(t, e.Add(l))

	require.NoError(t, e.SetQuantity(l.ProductID, 4))
	assert.True(t, e.Lines()[0].TotalPrice.Equal(d("100")))

	assert.ErrorIs(t, e.SetQuantity(l.ProductID, 5), ErrInsufficientStock)

	require.NoError(t, e.SetQuantity(l.ProductID, 0))
	assert.True(t, e.IsEmpty())

	assert.ErrorIs(t, e.SetQuantity(l.ProductID, 1), ErrLineNotFound)
}

func TestSetUnitPrice_ClampsToFloor(t *testing.T) {
	e := New()
	l := newLine("50", 2, 10)
	require.NoError(t, e.Add(l))

	applied, err := e.SetUnitPrice(l.ProductID, d("40"))
	assert.ErrorIs(t, err, ErrBelowFloor)
	assert.True(t, applied.Equal(d("50")))
	assert.True(t, e.Lines()[0].UnitPrice.Equal(d("50")))

	applied, err = e.SetUnitPrice(l.ProductID, d("65"))
	require.NoError(t, err)
	assert.True(t, applied.Equal(d("65")))
	assert.True(t, e.Lines()[0].TotalPrice.Equal(d("130")))
}

func TestRemoveAndClear(t *testing.T) {
	e := New()
	a, b := newLine("1", 1, 1), newLine("2", 1, 1)
	require.NoError(t, e.Add(a))
	require.NoError(t, e.Add(b))

	require.NoError(t, e.Remove(a.ProductID))
	assert.Len(t, e.Lines(), 1)
	assert.ErrorIs(t, e.Remove(a.ProductID), ErrLineNotFound)

	e.Clear()
	assert.True(t, e.IsEmpty())
}

func TestTotals_SixteenPercentTax(t *testing.T) {
	e := New()
	require.NoError(t, e.Add(newLine("100", 3, 3)))

	tot := e.Totals(d("0.16"), decimal.Zero)
	assert.True(t, tot.Subtotal.Equal(d("300")))
	assert.True(t, tot.Tax.Equal(d("48")))
	assert.True(t, tot.Total.Equal(d("348")))
}

func TestTotals_TaxRoundedToCents(t *testing.T) {
	e := New()
	require.NoError(t, e.Add(newLine("10.01", 3, 10)))

	tot := e.Totals(d("0.16"), decimal.Zero)
	assert.True(t, tot.Subtotal.Equal(d("30.03")))
	assert.True(t, tot.Tax.Equal(d("4.80")), "tax %s", tot.Tax)
	assert.True(t, tot.Total.Equal(d("34.83")), "total %s", tot.Total)
	assert.True(t, tot.Total.Equal(tot.Total.Round(2)))
}

func TestAdd_RejectsSubCentPrice(t *testing.T) {
	e := New()
	l := newLine("10", 3, 10)
	l.UnitPrice = d("10.005")

	err := e.Add(l)
	assert.ErrorIs(t, err, money.ErrSubCent)
	assert.True(t, e.IsEmpty())
}

func TestSetUnitPrice_RejectsSubCentPrice(t *testing.T) {
	e := New()
	l := newLine("10", 1, 10)
	require.NoError(t, e.Add(l))

	_, err := e.SetUnitPrice(l.ProductID, d("12.499"))
	assert.ErrorIs(t, err, money.ErrSubCent)
	assert.True(t, e.Lines()[0].UnitPrice.Equal(d("10")))
}

func TestTotals_DiscountAndRateProperty(t *testing.T) {
	cases := []struct{ gross, discount, rate string }{
		{"300", "0", "0.16"},
		{"300", "50", "0.16"},
		{"300", "300", "0.16"},
		{"300", "500", "0.16"},
		{"1234.50", "34.50", "0"},
		{"80", "-5", "0.25"},
		{"30.03", "0", "0.16"},
		{"99.99", "0.01", "0.075"},
	}
	for _, c := range cases {
		gross, disc, rate := d(c.gross), d(c.discount), d(c.rate)
		tot := Compute(gross, rate, disc)

		base := decimal.Max(decimal.Zero, gross.Sub(decimal.Max(decimal.Zero, disc)))
		want := base.Add(base.Mul(rate).Round(2))
		assert.True(t, tot.Total.Equal(want), "gross=%s discount=%s rate=%s got %s want %s",
			c.gross, c.discount, c.rate, tot.Total, want)
		assert.True(t, tot.Total.Equal(tot.Subtotal.Add(tot.Tax)))
	}
}

func TestTotals_OrderIndependent(t *testing.T) {
	e := New()
	require.NoError(t, e.Add(newLine("19.99", 2, 9)))
	rate, disc := d("0.16"), d("5")

	first := e.Total(rate, disc)
	assert.True(t, e.Subtotal(disc).Equal(d("34.98")))
	assert.True(t, e.Tax(rate, disc).Equal(d("5.60")))
	assert.True(t, e.Total(rate, disc).Equal(first))
}

func TestDiscountCapAndRate(t *testing.T) {
	assert.True(t, DiscountCap(d("300"), d("30")).Equal(d("90")))
	assert.True(t, RateFromPercent(d("16")).Equal(d("0.16")))
}

func TestRestore(t *testing.T) {
	e := New()
	require.NoError(t, e.Add(newLine("5", 1, 2)))
	snap := e.Lines()

	require.NoError(t, e.Add(newLine("6", 1, 2)))
	e.Restore(snap)
	assert.Len(t, e.Lines(), 1)
}
