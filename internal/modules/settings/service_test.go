package settings

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/georgemunganga/printa-pos/internal/apperr"
)

type stubRepo struct {
	s   *Settings
	err error
}

func (r stubRepo) Get(context.Context) (*Settings, error) { return r.s, r.err }

var defaults = Settings{
	StoreName:          "Default",
	TaxRatePercent:     decimal.NewFromInt(16),
	DiscountCapPercent: decimal.NewFromInt(30),
	Currency:           "ZMW",
}

func TestCurrent_FallsBackToDefaults(t *testing.T) {
	svc := NewService(stubRepo{err: sql.ErrNoRows}, defaults, zap.NewNop())

	st, err := svc.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Default", st.StoreName)
	assert.True(t, st.TaxRate().Equal(decimal.RequireFromString("0.16")))
}

func TestCurrent_UsesStoredRow(t *testing.T) {
	stored := &Settings{StoreName: "Printa Cairo Rd", TaxRatePercent: decimal.NewFromInt(0)}
	svc := NewService(stubRepo{s: stored}, defaults, zap.NewNop())

	st, err := svc.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Printa Cairo Rd", st.StoreName)
	assert.Equal(t, "ZMW", st.Currency)
	assert.True(t, st.TaxRate().IsZero())
}

func TestCurrent_StoreFailure(t *testing.T) {
	svc := NewService(stubRepo{err: errors.New("connection refused")}, defaults, zap.NewNop())

	_, err := svc.Current(context.Background())
	assert.Equal(t, apperr.KindPersistence, apperr.KindOf(err))
}
