package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coursegate/internal/domain/subscription"
	"coursegate/internal/shared/logger"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})
	return client, mr
}

func TestRedisSubscriptionExpiryCache_RoundTrip(t *testing.T) {
	client, mr := setupTestRedis(t)
	c := NewRedisSubscriptionExpiryCache(client, logger.NewNop())
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "escola-online", "u1")
	require.NoError(t, err)
	assert.False(t, ok)

	exp := time.Date(2026, 11, 14, 3, 0, 0, 0, time.UTC)
	stored, err := c.Fill(ctx, "escola-online", "u1", exp, 0)
	require.NoError(t, err)
	require.True(t, stored)
	assert.True(t, mr.Exists("subscription:expiry:escola-online:u1"))

	got, ok, err := c.Get(ctx, "escola-online", "u1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, exp.Equal(got))

	ttl := mr.TTL("subscription:expiry:escola-online:u1")
	assert.GreaterOrEqual(t, ttl, baseExpiryTTL)

	require.NoError(t, c.Invalidate(ctx, "escola-online", "u1"))
	_, ok, err = c.Get(ctx, "escola-online", "u1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisSubscriptionExpiryCache_SentinelAndLifetime(t *testing.T) {
	client, _ := setupTestRedis(t)
	c := NewRedisSubscriptionExpiryCache(client, logger.NewNop())
	ctx := context.Background()

	_, err := c.Fill(ctx, "a", "u1", subscription.SentinelExpiresAt, 0)
	require.NoError(t, err)
	_, err = c.Fill(ctx, "b", "u1", subscription.LifetimeExpiresAt, 0)
	require.NoError(t, err)

	got, ok, err := c.Get(ctx, "a", "u1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, subscription.SentinelExpiresAt.Equal(got))

	got, ok, err = c.Get(ctx, "b", "u1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, subscription.LifetimeExpiresAt.Equal(got))
}

func TestRedisSubscriptionExpiryCache_CorruptValueIsMiss(t *testing.T) {
	client, mr := setupTestRedis(t)
	c := NewRedisSubscriptionExpiryCache(client, logger.NewNop())

	require.NoError(t, mr.Set("subscription:expiry:a:u1", "not-a-number"))
	_, ok, err := c.Get(context.Background(), "a", "u1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisSubscriptionExpiryCache_FillLosesToConcurrentInvalidate(t *testing.T) {
	client, _ := setupTestRedis(t)
	c := NewRedisSubscriptionExpiryCache(client, logger.NewNop())
	ctx := context.Background()

	// a reader takes the generation, then reads an old maximum from the database
	gen, err := c.Generation(ctx, "escola-online", "u1")
	require.NoError(t, err)
	assert.Zero(t, gen)

	// a writer lands a newer row and invalidates before the reader fills
	require.NoError(t, c.Invalidate(ctx, "escola-online", "u1"))

	stored, err := c.Fill(ctx, "escola-online", "u1", subscription.SentinelExpiresAt, gen)
	require.NoError(t, err)
	assert.False(t, stored)
	_, ok, err := c.Get(ctx, "escola-online", "u1")
	require.NoError(t, err)
	assert.False(t, ok)

	gen, err = c.Generation(ctx, "escola-online", "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), gen)

	fresh := time.Date(2026, 11, 14, 3, 0, 0, 0, time.UTC)
	stored, err = c.Fill(ctx, "escola-online", "u1", fresh, gen)
	require.NoError(t, err)
	assert.True(t, stored)
	got, ok, err := c.Get(ctx, "escola-online", "u1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, fresh.Equal(got))
}
