package cache

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"coursegate/internal/shared/logger"
)

// SubscriptionExpiryCache is the courseSlug:userId -> max(expiresAt) projection
// consulted by the entitlement read path.
//
// Writers never store a value; they Invalidate after the relational write.
// Readers fill the projection from the database with the generation they saw
// before reading it, and Fill drops the value if a writer invalidated since.
type SubscriptionExpiryCache interface {
	// Get returns ok=false on a cache miss.
	Get(ctx context.Context, courseSlug, userID string) (expiresAt time.Time, ok bool, err error)
	// Generation returns the invalidation counter of the key, 0 when never invalidated.
	Generation(ctx context.Context, courseSlug, userID string) (int64, error)
	// Fill stores expiresAt only while the key is still at generation. stored is
	// false when a concurrent write won.
	Fill(ctx context.Context, courseSlug, userID string, expiresAt time.Time, generation int64) (stored bool, err error)
	Invalidate(ctx context.Context, courseSlug, userID string) error
}

const (
	expiryKeyPrefix     = "subscription:expiry:"
	expiryGenKeyPrefix  = "subscription:expiry-gen:"
	baseExpiryTTL       = 24 * time.Hour
	expiryTTLJitter     = 2 * time.Hour
	expiryGenerationTTL = 7 * 24 * time.Hour
)

// fillIfGenerationScript sets KEYS[1] only when KEYS[2] still holds ARGV[1].
var fillIfGenerationScript = redis.NewScript(`
local gen = redis.call('GET', KEYS[2]) or '0'
if gen ~= ARGV[1] then
	return 0
end
redis.call('SET', KEYS[1], ARGV[2], 'EX', ARGV[3])
return 1
`)

// RedisSubscriptionExpiryCache stores the projection as unix seconds in plain string keys.
type RedisSubscriptionExpiryCache struct {
	client *redis.Client
	logger logger.Interface
}

func NewRedisSubscriptionExpiryCache(client *redis.Client, logger logger.Interface) *RedisSubscriptionExpiryCache {
	return &RedisSubscriptionExpiryCache{
		client: client,
		logger: logger,
	}
}

func (c *RedisSubscriptionExpiryCache) key(courseSlug, userID string) string {
	return fmt.Sprintf("%s%s:%s", expiryKeyPrefix, courseSlug, userID)
}

func (c *RedisSubscriptionExpiryCache) genKey(courseSlug, userID string) string {
	return fmt.Sprintf("%s%s:%s", expiryGenKeyPrefix, courseSlug, userID)
}

func (c *RedisSubscriptionExpiryCache) Get(ctx context.Context, courseSlug, userID string) (time.Time, bool, error) {
	val, err := c.client.Get(ctx, c.key(courseSlug, userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, fmt.Errorf("failed to get subscription expiry from cache: %w", err)
	}

	unix, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		c.logger.Warnw("corrupt subscription expiry cache value", "course_slug", courseSlug, "user_id", userID, "value", val)
		return time.Time{}, false, nil
	}
	return time.Unix(unix, 0).UTC(), true, nil
}

func (c *RedisSubscriptionExpiryCache) Generation(ctx context.Context, courseSlug, userID string) (int64, error) {
	gen, err := c.client.Get(ctx, c.genKey(courseSlug, userID)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get subscription expiry generation: %w", err)
	}
	return gen, nil
}

func (c *RedisSubscriptionExpiryCache) Fill(ctx context.Context, courseSlug, userID string, expiresAt time.Time, generation int64) (bool, error) {
	ttlSeconds := int64(expiryTTLWithJitter() / time.Second)
	res, err := fillIfGenerationScript.Run(ctx, c.client,
		[]string{c.key(courseSlug, userID), c.genKey(courseSlug, userID)},
		strconv.FormatInt(generation, 10),
		expiresAt.UTC().Unix(),
		ttlSeconds,
	).Int64()
	if err != nil {
		return false, fmt.Errorf("failed to fill subscription expiry cache: %w", err)
	}

	stored := res == 1
	c.logger.Debugw("subscription expiry fill",
		"course_slug", courseSlug,
		"user_id", userID,
		"expires_at", expiresAt.UTC(),
		"stored", stored,
	)
	return stored, nil
}

// Invalidate drops the projection and bumps the generation so that fills
// computed from older database reads are rejected.
func (c *RedisSubscriptionExpiryCache) Invalidate(ctx context.Context, courseSlug, userID string) error {
	genKey := c.genKey(courseSlug, userID)
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, c.key(courseSlug, userID))
		pipe.Incr(ctx, genKey)
		pipe.Expire(ctx, genKey, expiryGenerationTTL)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to invalidate subscription expiry cache: %w", err)
	}
	return nil
}

func expiryTTLWithJitter() time.Duration {
	return baseExpiryTTL + time.Duration(rand.Int64N(int64(expiryTTLJitter)))
}
