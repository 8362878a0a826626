package register

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/georgemunganga/printa-pos/internal/platform/database/dbtest"
)

func TestPostgresRepository_Shift(t *testing.T) {
	db := dbtest.Start(t)
	repo := NewPostgresRepository(db)
	ctx := context.Background()
	cashier := uuid.New()
	opened := time.Now().UTC().Add(-time.Hour).Truncate(time.Microsecond)

	s := &Session{ID: uuid.New(), CashierID: cashier, Status: StatusOpen, OpeningAmount: dec("5000"), OpenedAt: opened}
	require.NoError(t, repo.Insert(ctx, s))

	dup := *s
	dup.ID = uuid.New()
	assert.ErrorIs(t, repo.Insert(ctx, &dup), ErrAlreadyOpen)

	// One split sale with tender rows, one legacy sale without.
	split, legacy := uuid.New(), uuid.New()
	_, err := db.ExecContext(ctx, `
		INSERT INTO sales (id, cashier_id, subtotal, total_amount, payment_method, amount_paid, created_at)
		VALUES ($1,$3,1200,1200,'split',1200,NOW()), ($2,$3,800,800,'mobile_money',800,NOW())`,
		split, legacy, cashier)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `
		INSERT INTO sale_payments (id, sale_id, method, amount)
		VALUES ($1,$3,'cash',1000), ($2,$3,'card',200)`, uuid.New(), uuid.New(), split)
	require.NoError(t, err)

	tallies, err := repo.SalesSince(ctx, cashier, opened)
	require.NoError(t, err)
	require.Len(t, tallies, 2)

	got, err := repo.GetOpen(ctx, cashier)
	require.NoError(t, err)
	closing := dec("6000")
	sum := Summarize(got, tallies, &closing, time.Now().UTC())
	assert.True(t, sum.CashSales.Equal(dec("1000")))
	assert.True(t, sum.MobileMoneySales.Equal(dec("800")))
	assert.True(t, sum.Variance.Equal(dec("0")))

	closedAt := time.Now().UTC()
	got.Status = StatusClosed
	got.ClosingAmount = sum.ClosingAmount
	got.ExpectedAmount = &sum.ExpectedAmount
	got.Variance = sum.Variance
	got.CashSales = &sum.CashSales
	got.TransactionCount = &sum.TransactionCount
	got.ClosedAt = &closedAt
	require.NoError(t, repo.Close(ctx, got))
	assert.ErrorIs(t, repo.Close(ctx, got), ErrNotOpen)

	history, err := repo.ListClosed(ctx, cashier, 5)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.True(t, history[0].Variance.IsZero())
	assert.Nil(t, history[0].CardSales)
}
