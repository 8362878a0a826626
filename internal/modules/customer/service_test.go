package customer

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/georgemunganga/printa-pos/internal/apperr"
	"github.com/georgemunganga/printa-pos/internal/money"
)

type memRepo struct {
	customers map[uuid.UUID]*Customer
	err       error
}

func newMemRepo(cs ...*Customer) *memRepo {
	m := &memRepo{customers: map[uuid.UUID]*Customer{}}
	for _, c := range cs {
		m.customers[c.ID] = c
	}
	return m
}

func (m *memRepo) GetByID(_ context.Context, id uuid.UUID) (*Customer, error) {
	c, ok := m.customers[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *c
	return &cp, nil
}

func (m *memRepo) AdjustBalance(_ context.Context, id uuid.UUID, delta decimal.Decimal) (decimal.Decimal, error) {
	if m.err != nil {
		return decimal.Zero, m.err
	}
	c, ok := m.customers[id]
	if !ok {
		return decimal.Zero, sql.ErrNoRows
	}
	c.OutstandingBalance = decimal.Max(decimal.Zero, c.OutstandingBalance.Add(delta))
	return c.OutstandingBalance, nil
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCollectDebt_ReducesBalance(t *testing.T) {
	c := &Customer{ID: uuid.New(), Name: "Mwila", OutstandingBalance: dec("300")}
	svc := NewService(newMemRepo(c), zap.NewNop())

	got, err := svc.CollectDebt(context.Background(), c.ID, dec("120.50"))
	require.NoError(t, err)
	assert.True(t, got.OutstandingBalance.Equal(dec("179.50")), got.OutstandingBalance.String())
}

func TestCollectDebt_ClampsAtZero(t *testing.T) {
	c := &Customer{ID: uuid.New(), OutstandingBalance: dec("50")}
	svc := NewService(newMemRepo(c), zap.NewNop())

	got, err := svc.CollectDebt(context.Background(), c.ID, dec("80"))
	require.NoError(t, err)
	assert.True(t, got.OutstandingBalance.IsZero())
}

func TestCollectDebt_Rejections(t *testing.T) {
	c := &Customer{ID: uuid.New(), OutstandingBalance: dec("50")}
	svc := NewService(newMemRepo(c), zap.NewNop())

	_, err := svc.CollectDebt(context.Background(), c.ID, decimal.Zero)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = svc.CollectDebt(context.Background(), c.ID, dec("-5"))
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = svc.CollectDebt(context.Background(), c.ID, dec("5.555"))
	assert.ErrorIs(t, err, money.ErrSubCent)

	_, err = svc.CollectDebt(context.Background(), uuid.New(), dec("5"))
	assert.ErrorIs(t, err, ErrCustomerNotFound)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestChargeCredit(t *testing.T) {
	c := &Customer{ID: uuid.New(), OutstandingBalance: dec("10")}
	repo := newMemRepo(c)
	svc := NewService(repo, zap.NewNop())

	require.NoError(t, svc.ChargeCredit(context.Background(), c.ID, dec("25")))
	assert.True(t, repo.customers[c.ID].OutstandingBalance.Equal(dec("35")))

	require.NoError(t, svc.ChargeCredit(context.Background(), c.ID, decimal.Zero))
	assert.True(t, repo.customers[c.ID].OutstandingBalance.Equal(dec("35")))

	repo.err = errors.New("deadlock detected")
	err := svc.ChargeCredit(context.Background(), c.ID, dec("1"))
	assert.Equal(t, apperr.KindPersistence, apperr.KindOf(err))
}
