package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"restaurant-orders/order-svc/internal/domain"
)

const (
	pendingMarker = "pending"
	// pendingTTL bounds how long a crashed request keeps its key claimed.
	pendingTTL = time.Minute
)

// RedisCache stores the outcome of keyed order placements.
type RedisCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{Client: client, TTL: ttl}
}

func (c *RedisCache) IdempotencyKey(restaurantID int64, key string) string {
	return "idempotency:order:" + strconv.FormatInt(restaurantID, 10) + ":" + key
}

func (c *RedisCache) Reserve(ctx context.Context, restaurantID int64, key string) (*domain.OrderResult, bool, error) {
	cacheKey := c.IdempotencyKey(restaurantID, key)

	ok, err := c.Client.SetNX(ctx, cacheKey, pendingMarker, pendingTTL).Result()
	if err != nil {
		return nil, false, err
	}
	if ok {
		return nil, true, nil
	}

	raw, err := c.Client.Get(ctx, cacheKey).Result()
	if errors.Is(err, redis.Nil) {
		// Expired between the two calls; let the caller retry as a conflict.
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if raw == pendingMarker {
		return nil, false, nil
	}

	var result domain.OrderResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil, false, fmt.Errorf("decode idempotent result: %w", err)
	}
	return &result, false, nil
}

func (c *RedisCache) Complete(ctx context.Context, restaurantID int64, key string, result domain.OrderResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return c.Client.Set(ctx, c.IdempotencyKey(restaurantID, key), payload, c.TTL).Err()
}

func (c *RedisCache) Release(ctx context.Context, restaurantID int64, key string) error {
	return c.Client.Del(ctx, c.IdempotencyKey(restaurantID, key)).Err()
}
