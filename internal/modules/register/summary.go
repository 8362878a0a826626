package register

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/georgemunganga/printa-pos/internal/modules/payment"
)

// Summarize aggregates the sales of s into per-method buckets. A sale with
// tender rows contributes each tender to its method; a sale without any
// falls back to its total under its single payment method label. Change
// handed back comes out of the cash bucket, since it left the drawer.
func Summarize(s *Session, sales []SaleTally, closing *decimal.Decimal, now time.Time) *Summary {
	sum := &Summary{
		SessionID:     s.ID,
		CashierID:     s.CashierID,
		OpenedAt:      s.OpenedAt,
		OpeningAmount: s.OpeningAmount,
		GeneratedAt:   now,
	}
	buckets := map[payment.Method]decimal.Decimal{}
	for _, sale := range sales {
		sum.TransactionCount++
		sum.TotalSales = sum.TotalSales.Add(sale.Total)
		if len(sale.Tenders) == 0 {
			m := payment.Method(sale.PaymentMethod)
			buckets[m] = buckets[m].Add(sale.Total)
			continue
		}
		cashTendered := decimal.Zero
		for _, t := range sale.Tenders {
			buckets[t.Method] = buckets[t.Method].Add(t.Amount)
			if t.Method == payment.MethodCash {
				cashTendered = cashTendered.Add(t.Amount)
			}
		}
		buckets[payment.MethodCash] = buckets[payment.MethodCash].Sub(decimal.Min(cashTendered, sale.Change))
	}
	sum.CashSales = buckets[payment.MethodCash]
	sum.CardSales = buckets[payment.MethodCard]
	sum.MobileMoneySales = buckets[payment.MethodMobileMoney]
	sum.CreditSales = buckets[payment.MethodCredit]
	sum.ExpectedAmount = s.OpeningAmount.Add(sum.CashSales)
	if closing != nil {
		c := *closing
		v := c.Sub(sum.ExpectedAmount)
		sum.ClosingAmount = &c
		sum.Variance = &v
	}
	return sum
}
