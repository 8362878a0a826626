package suspend

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/georgemunganga/printa-pos/internal/modules/cart"
	"github.com/georgemunganga/printa-pos/internal/platform/metrics"
)

type memRepo struct {
	orders    map[uuid.UUID]*Order
	deleteErr error
}

func newMemRepo() *memRepo { return &memRepo{orders: map[uuid.UUID]*Order{}} }

func (m *memRepo) Insert(_ context.Context, o *Order) error {
	cp := *o
	cp.Lines = append([]cart.Line(nil), o.Lines...)
	m.orders[o.ID] = &cp
	return nil
}

func (m *memRepo) Get(_ context.Context, cashierID, id uuid.UUID) (*Order, error) {
	o, ok := m.orders[id]
	if !ok || o.CashierID != cashierID {
		return nil, sql.ErrNoRows
	}
	return o, nil
}

func (m *memRepo) ListByCashier(_ context.Context, cashierID uuid.UUID) ([]*Order, error) {
	var out []*Order
	for _, o := range m.orders {
		if o.CashierID == cashierID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *memRepo) Delete(_ context.Context, cashierID, id uuid.UUID) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	o, ok := m.orders[id]
	if !ok || o.CashierID != cashierID {
		return sql.ErrNoRows
	}
	delete(m.orders, id)
	return nil
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func filledCart(t *testing.T) *cart.Engine {
	t.Helper()
	c := cart.New()
	require.NoError(t, c.Add(cart.Line{
		ProductID: uuid.New(), ProductName: "Business cards", SellingPrice: dec("150"),
		UnitPrice: dec("180"), Quantity: 2, Stock: 10,
	}))
	require.NoError(t, c.Add(cart.Line{
		ProductID: uuid.New(), ProductName: "Lamination", SellingPrice: dec("12.50"),
		Quantity: 4, Stock: 40,
	}))
	return c
}

func newService(repo Repository) (Service, *metrics.Recorder) {
	rec := metrics.New(prometheus.NewRegistry())
	return NewService(repo, rec, zap.NewNop()), rec
}

func TestSuspendResume_RoundTrip(t *testing.T) {
	repo := newMemRepo()
	svc, _ := newService(repo)
	cashier := uuid.New()
	ctx := context.Background()

	c := filledCart(t)
	original := c.Lines()

	o, err := svc.Suspend(ctx, cashier, " table 4 ", c.Lines())
	require.NoError(t, err)
	require.NotNil(t, o)
	assert.Equal(t, "table 4", o.Label)
	c.Clear()

	resumed, err := svc.Resume(ctx, cashier, o.ID, c)
	require.NoError(t, err)
	assert.Equal(t, o.ID, resumed.ID)

	got := c.Lines()
	require.Len(t, got, len(original))
	for i := range original {
		assert.Equal(t, original[i].ProductID, got[i].ProductID)
		assert.Equal(t, original[i].Quantity, got[i].Quantity)
		assert.True(t, original[i].UnitPrice.Equal(got[i].UnitPrice))
		assert.True(t, original[i].TotalPrice.Equal(got[i].TotalPrice))
	}
	assert.Empty(t, repo.orders, "resumed order must be deleted")
}

func TestSuspend_EmptyCartIsNoop(t *testing.T) {
	repo := newMemRepo()
	svc, _ := newService(repo)

	o, err := svc.Suspend(context.Background(), uuid.New(), "x", nil)
	assert.NoError(t, err)
	assert.Nil(t, o)
	assert.Empty(t, repo.orders)
}

func TestSuspend_DefaultLabel(t *testing.T) {
	svc, _ := newService(newMemRepo())
	o, err := svc.Suspend(context.Background(), uuid.New(), "", filledCart(t).Lines())
	require.NoError(t, err)
	assert.Contains(t, o.Label, "Held ")
}

func TestResume_MergesIntoCurrentCart(t *testing.T) {
	repo := newMemRepo()
	svc, _ := newService(repo)
	cashier := uuid.New()
	ctx := context.Background()

	parked := filledCart(t)
	o, err := svc.Suspend(ctx, cashier, "", parked.Lines())
	require.NoError(t, err)

	current := cart.New()
	first := parked.Lines()[0]
	first.Quantity = 1
	require.NoError(t, current.Add(first))

	_, err = svc.Resume(ctx, cashier, o.ID, current)
	require.NoError(t, err)
	lines := current.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, 3, lines[0].Quantity)
}

func TestResume_RejectedLineRestoresCart(t *testing.T) {
	repo := newMemRepo()
	svc, _ := newService(repo)
	cashier := uuid.New()
	ctx := context.Background()

	parked := filledCart(t)
	o, err := svc.Suspend(ctx, cashier, "", parked.Lines())
	require.NoError(t, err)

	// The second parked line would exceed its stock once merged.
	current := cart.New()
	second := parked.Lines()[1]
	second.Quantity = 38
	require.NoError(t, current.Add(second))
	before := current.Lines()

	_, err = svc.Resume(ctx, cashier, o.ID, current)
	assert.ErrorIs(t, err, cart.ErrInsufficientStock)
	assert.Equal(t, before, current.Lines())
	assert.Len(t, repo.orders, 1, "order must survive a failed resume")
}

func TestResume_StaleRecordTolerated(t *testing.T) {
	repo := newMemRepo()
	svc, rec := newService(repo)
	cashier := uuid.New()
	ctx := context.Background()

	o, err := svc.Suspend(ctx, cashier, "", filledCart(t).Lines())
	require.NoError(t, err)
	repo.deleteErr = errors.New("connection reset")

	c := cart.New()
	_, err = svc.Resume(ctx, cashier, o.ID, c)
	require.NoError(t, err)
	assert.Len(t, c.Lines(), 2)
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.ResumeStale))
}

func TestResume_OtherCashiersOrderNotFound(t *testing.T) {
	repo := newMemRepo()
	svc, _ := newService(repo)
	ctx := context.Background()

	o, err := svc.Suspend(ctx, uuid.New(), "", filledCart(t).Lines())
	require.NoError(t, err)

	_, err = svc.Resume(ctx, uuid.New(), o.ID, cart.New())
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestDiscard(t *testing.T) {
	repo := newMemRepo()
	svc, _ := newService(repo)
	cashier := uuid.New()
	ctx := context.Background()

	o, err := svc.Suspend(ctx, cashier, "", filledCart(t).Lines())
	require.NoError(t, err)

	require.NoError(t, svc.Discard(ctx, cashier, o.ID))
	assert.ErrorIs(t, svc.Discard(ctx, cashier, o.ID), ErrOrderNotFound)

	orders, err := svc.List(ctx, cashier)
	require.NoError(t, err)
	assert.Empty(t, orders)
}
