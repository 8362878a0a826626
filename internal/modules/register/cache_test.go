package register

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisCache(client), mr
}

func TestRedisCache_RoundTrip(t *testing.T) {
	cache, mr := setupTestRedis(t)
	ctx := context.Background()
	cashier := uuid.New()

	_, err := cache.Get(ctx, cashier)
	assert.ErrorIs(t, err, ErrCacheMiss)

	sum := &Summary{CashierID: cashier, CashSales: dec("1200"), ExpectedAmount: dec("6200"), TransactionCount: 2}
	require.NoError(t, cache.Set(ctx, cashier, sum))
	assert.True(t, mr.Exists("register:summary:"+cashier.String()))

	got, err := cache.Get(ctx, cashier)
	require.NoError(t, err)
	assert.True(t, got.ExpectedAmount.Equal(dec("6200")))
	assert.Equal(t, 2, got.TransactionCount)

	require.NoError(t, cache.Delete(ctx, cashier))
	_, err = cache.Get(ctx, cashier)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedisCache_Expires(t *testing.T) {
	cache, mr := setupTestRedis(t)
	ctx := context.Background()
	cashier := uuid.New()

	require.NoError(t, cache.Set(ctx, cashier, &Summary{CashierID: cashier}))
	mr.FastForward(7 * time.Minute)

	_, err := cache.Get(ctx, cashier)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedisCache_MalformedEntry(t *testing.T) {
	cache, mr := setupTestRedis(t)
	cashier := uuid.New()
	require.NoError(t, mr.Set("register:summary:"+cashier.String(), "{not json"))

	_, err := cache.Get(context.Background(), cashier)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheMiss)
}
