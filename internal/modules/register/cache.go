package register

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrCacheMiss = errors.New("cache miss")

// SummaryCache holds the live summary of each cashier's open shift.
type SummaryCache interface {
	Get(ctx context.Context, cashierID uuid.UUID) (*Summary, error)
	Set(ctx context.Context, cashierID uuid.UUID, s *Summary) error
	Delete(ctx context.Context, cashierID uuid.UUID) error
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{
		client:  client,
		baseTTL: 5 * time.Minute,
	}
}

type RedisCache struct {
	client  *redis.Client
	baseTTL time.Duration
}

func (r RedisCache) Get(ctx context.Context, cashierID uuid.UUID) (*Summary, error) {
	data, err := r.client.Get(ctx, cacheKey(cashierID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var s Summary
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("unmarshal summary failed: %w", err)
	}
	return &s, nil
}

func (r RedisCache) Set(ctx context.Context, cashierID uuid.UUID, s *Summary) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal summary failed: %w", err)
	}

	jitter := time.Duration(rand.Intn(60)) * time.Second
	if err := r.client.Set(ctx, cacheKey(cashierID), data, r.baseTTL+jitter).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r RedisCache) Delete(ctx context.Context, cashierID uuid.UUID) error {
	if err := r.client.Del(ctx, cacheKey(cashierID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func cacheKey(cashierID uuid.UUID) string {
	return fmt.Sprintf("register:summary:%s", cashierID)
}

// NopCache always misses. Used when no Redis is configured.
type NopCache struct{}

func (NopCache) Get(context.Context, uuid.UUID) (*Summary, error) { return nil, ErrCacheMiss }
func (NopCache) Set(context.Context, uuid.UUID, *Summary) error   { return nil }
func (NopCache) Delete(context.Context, uuid.UUID) error          { return nil }
