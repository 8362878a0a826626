package product

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/georgemunganga/printa-pos/internal/apperr"
)

type mockRepository struct {
	products map[uuid.UUID]*Product
	err      error
	lastTerm string
	limit    int
}

func (m *mockRepository) GetByID(_ context.Context, id uuid.UUID) (*Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.products[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return p, nil
}

func (m *mockRepository) Search(_ context.Context, term string, limit int) ([]*Product, error) {
	m.lastTerm, m.limit = term, limit
	return nil, m.err
}

func TestSellable(t *testing.T) {
	active := &Product{ID: uuid.New(), Name: "Flyer", SellingPrice: decimal.NewFromInt(5), StockQuantity: 10, IsActive: true}
	inactive := &Product{ID: uuid.New(), Name: "Old banner"}
	repo := &mockRepository{products: map[uuid.UUID]*Product{active.ID: active, inactive.ID: inactive}}
	svc := NewService(repo)

	got, err := svc.Sellable(context.Background(), active.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.StockQuantity)

	_, err = svc.Sellable(context.Background(), inactive.ID)
	assert.ErrorIs(t, err, ErrProductInactive)

	_, err = svc.Sellable(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrProductNotFound)

	repo.err = errors.New("timeout")
	_, err = svc.Sellable(context.Background(), active.ID)
	assert.Equal(t, apperr.KindPersistence, apperr.KindOf(err))
}

func TestSearch_NormalisesInput(t *testing.T) {
	repo := &mockRepository{}
	svc := NewService(repo)

	_, err := svc.Search(context.Background(), "  paper ", 0)
	require.NoError(t, err)
	assert.Equal(t, "paper", repo.lastTerm)
	assert.Equal(t, 25, repo.limit)
}
