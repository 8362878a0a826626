package suspend

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/georgemunganga/printa-pos/internal/platform/database/dbtest"
)

func TestPostgresRepository_LinesSurviveJSONB(t *testing.T) {
	db := dbtest.Start(t)
	repo := NewPostgresRepository(db)
	ctx := context.Background()
	cashier := uuid.New()

	o := &Order{
		ID:        uuid.New(),
		CashierID: cashier,
		Label:     "walk-in",
		Lines:     filledCart(t).Lines(),
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
	require.NoError(t, repo.Insert(ctx, o))

	got, err := repo.Get(ctx, cashier, o.ID)
	require.NoError(t, err)
	require.Len(t, got.Lines, 2)
	assert.True(t, got.Lines[0].UnitPrice.Equal(dec("180")))
	assert.True(t, got.Lines[1].TotalPrice.Equal(dec("50")))

	_, err = repo.Get(ctx, uuid.New(), o.ID)
	assert.ErrorIs(t, err, sql.ErrNoRows)

	require.NoError(t, repo.Delete(ctx, cashier, o.ID))
	assert.ErrorIs(t, repo.Delete(ctx, cashier, o.ID), sql.ErrNoRows)
}
