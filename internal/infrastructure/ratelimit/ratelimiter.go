// Package ratelimit throttles callers with sliding windows kept in redis, so the
// limit holds across every instance.
package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Limit caps requests per window. A zero field disables that window.
type Limit struct {
	PerMinute int
	PerHour   int
}

func (l Limit) Enabled() bool {
	return l.PerMinute > 0 || l.PerHour > 0
}

type Limiter interface {
	Allow(ctx context.Context, key string, limit Limit) (bool, error)
}

type RedisLimiter struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

func NewRedisLimiter(client *redis.Client, prefix string) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		prefix: prefix,
		now:    time.Now,
	}
}

// Allow records the attempt and reports whether it fits every enabled window.
// Denied attempts are recorded too, so a caller that keeps retrying stays throttled.
func (l *RedisLimiter) Allow(ctx context.Context, key string, limit Limit) (bool, error) {
	now := l.now()

	windows := []struct {
		duration time.Duration
		max      int
	}{
		{time.Minute, limit.PerMinute},
		{time.Hour, limit.PerHour},
	}

	allowed := true
	for _, w := range windows {
		if w.max <= 0 {
			continue
		}
		ok, err := l.checkWindow(ctx, key, w.duration, w.max, now)
		if err != nil {
			return false, err
		}
		allowed = allowed && ok
	}
	return allowed, nil
}

func (l *RedisLimiter) checkWindow(ctx context.Context, key string, window time.Duration, max int, now time.Time) (bool, error) {
	redisKey := fmt.Sprintf("%s:%s:%s", l.prefix, key, window)
	nowNano := now.UnixNano()

	pipe := l.client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "0", strconv.FormatInt(now.Add(-window).UnixNano(), 10))
	zcard := pipe.ZCard(ctx, redisKey)
	// members must be unique or attempts in the same nanosecond collapse
	pipe.ZAdd(ctx, redisKey, redis.Z{Score: float64(nowNano), Member: uuid.NewString()})
	pipe.Expire(ctx, redisKey, window+time.Minute)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("failed to check rate limit window: %w", err)
	}
	return zcard.Val() < int64(max), nil
}
