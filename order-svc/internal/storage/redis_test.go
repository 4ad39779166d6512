package storage

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-orders/order-svc/internal/domain"
)

func setupTestRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisCache(client, time.Hour), mr
}

func TestRedisCache_ReserveCompleteReplay(t *testing.T) {
	cache, mr := setupTestRedis(t)
	ctx := context.Background()

	cached, reserved, err := cache.Reserve(ctx, 1, "abc")
	require.NoError(t, err)
	assert.True(t, reserved)
	assert.Nil(t, cached)

	_, reserved, err = cache.Reserve(ctx, 1, "abc")
	require.NoError(t, err)
	assert.False(t, reserved, "second request while the first is running")

	result := domain.OrderResult{ID: 101, Status: domain.StatusPending, TotalAmount: domain.NewMoney(decimal.RequireFromString("21.60"))}
	require.NoError(t, cache.Complete(ctx, 1, "abc", result))
	assert.Equal(t, time.Hour, mr.TTL(cache.IdempotencyKey(1, "abc")))

	cached, reserved, err = cache.Reserve(ctx, 1, "abc")
	require.NoError(t, err)
	assert.False(t, reserved)
	require.NotNil(t, cached)
	assert.Equal(t, int64(101), cached.ID)
	assert.True(t, result.TotalAmount.Equal(cached.TotalAmount.Decimal))
}

func TestRedisCache_KeysAreScopedPerRestaurant(t *testing.T) {
	cache, _ := setupTestRedis(t)
	ctx := context.Background()

	_, reserved, err := cache.Reserve(ctx, 1, "abc")
	require.NoError(t, err)
	assert.True(t, reserved)

	_, reserved, err = cache.Reserve(ctx, 2, "abc")
	require.NoError(t, err)
	assert.True(t, reserved)
}

func TestRedisCache_Release(t *testing.T) {
	cache, mr := setupTestRedis(t)
	ctx := context.Background()

	_, _, err := cache.Reserve(ctx, 1, "abc")
	require.NoError(t, err)
	require.NoError(t, cache.Release(ctx, 1, "abc"))
	assert.False(t, mr.Exists(cache.IdempotencyKey(1, "abc")))

	_, reserved, err := cache.Reserve(ctx, 1, "abc")
	require.NoError(t, err)
	assert.True(t, reserved)
}

func TestRedisCache_PendingExpires(t *testing.T) {
	cache, mr := setupTestRedis(t)
	ctx := context.Background()

	_, _, err := cache.Reserve(ctx, 1, "abc")
	require.NoError(t, err)
	mr.FastForward(2 * time.Minute)

	_, reserved, err := cache.Reserve(ctx, 1, "abc")
	require.NoError(t, err)
	assert.True(t, reserved)
}

func TestRedisCache_Unavailable(t *testing.T) {
	cache, mr := setupTestRedis(t)
	mr.Close()

	_, _, err := cache.Reserve(context.Background(), 1, "abc")

	assert.Error(t, err)
}
