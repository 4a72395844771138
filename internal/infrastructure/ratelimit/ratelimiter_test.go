package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupLimiter(t *testing.T) *RedisLimiter {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})
	return NewRedisLimiter(client, "ratelimit:test")
}

func TestRedisLimiter_PerMinute(t *testing.T) {
	l := setupLimiter(t)
	ctx := context.Background()
	limit := Limit{PerMinute: 3}

	for i := 0; i < 3; i++ {
		ok, err := l.Allow(ctx, "u1", limit)
		require.NoError(t, err)
		assert.True(t, ok, "attempt %d", i+1)
	}
	ok, err := l.Allow(ctx, "u1", limit)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = l.Allow(ctx, "u2", limit)
	require.NoError(t, err)
	assert.True(t, ok, "keys are independent")
}

func TestRedisLimiter_WindowSlides(t *testing.T) {
	l := setupLimiter(t)
	ctx := context.Background()
	limit := Limit{PerMinute: 1}

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return base }

	ok, err := l.Allow(ctx, "u1", limit)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = l.Allow(ctx, "u1", limit)
	require.NoError(t, err)
	assert.False(t, ok)

	l.now = func() time.Time { return base.Add(2 * time.Minute) }
	ok, err = l.Allow(ctx, "u1", limit)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisLimiter_HourWindow(t *testing.T) {
	l := setupLimiter(t)
	ctx := context.Background()
	limit := Limit{PerMinute: 10, PerHour: 2}

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 2; i++ {
		at := base.Add(time.Duration(i) * 5 * time.Minute)
		l.now = func() time.Time { return at }
		ok, err := l.Allow(ctx, "u1", limit)
		require.NoError(t, err)
		assert.True(t, ok)
	}

	l.now = func() time.Time { return base.Add(20 * time.Minute) }
	ok, err := l.Allow(ctx, "u1", limit)
	require.NoError(t, err)
	assert.False(t, ok, "minute window is clear but the hour window is full")
}

func TestLimit_Enabled(t *testing.T) {
	assert.False(t, Limit{}.Enabled())
	assert.True(t, Limit{PerHour: 1}.Enabled())
}
