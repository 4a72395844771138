package services

import (
	"context"
	"fmt"
	"time"

	"coursegate/internal/domain/catalog"
	"coursegate/internal/domain/subscription"
	"coursegate/internal/infrastructure/cache"
	"coursegate/internal/shared/logger"
)

// SubscriptionStore is the single write path for subscription rows. It keeps the
// courseSlug:userId expiry projection in step with the relational store.
type SubscriptionStore struct {
	subscriptionRepo subscription.Repository
	expiryCache      cache.SubscriptionExpiryCache
	logger           logger.Interface
}

func NewSubscriptionStore(
	subscriptionRepo subscription.Repository,
	expiryCache cache.SubscriptionExpiryCache,
	logger logger.Interface,
) *SubscriptionStore {
	return &SubscriptionStore{
		subscriptionRepo: subscriptionRepo,
		expiryCache:      expiryCache,
		logger:           logger,
	}
}

// Upsert writes the row, then invalidates the projection. The next read
// recomputes it from the relational maximum. Projection failures are logged
// and never returned.
func (s *SubscriptionStore) Upsert(ctx context.Context, sub *subscription.Subscription) (*subscription.Subscription, error) {
	stored, err := s.subscriptionRepo.Upsert(ctx, sub)
	if err != nil {
		return nil, err
	}

	if err := s.expiryCache.Invalidate(ctx, stored.CourseSlug(), stored.UserID()); err != nil {
		s.logger.Errorw("failed to invalidate subscription expiry projection",
			"user_id", stored.UserID(),
			"course_slug", stored.CourseSlug(),
			"error", err,
		)
	}
	return stored, nil
}

func (s *SubscriptionStore) ListByUser(ctx context.Context, userID string) ([]*subscription.Subscription, error) {
	return s.subscriptionRepo.ListByUser(ctx, userID)
}

// MaxExpiry reads the projection, falling back to the relational rows and
// back-filling the projection on a miss. The back-fill is dropped when a write
// invalidated the key after the generation was read.
func (s *SubscriptionStore) MaxExpiry(ctx context.Context, userID, courseSlug string) (time.Time, bool, error) {
	courseSlug = catalog.NormalizeSlug(courseSlug)

	cacheUsable := true
	if exp, ok, err := s.expiryCache.Get(ctx, courseSlug, userID); err != nil {
		cacheUsable = false
		s.logger.Warnw("subscription expiry cache read failed, using database",
			"user_id", userID,
			"course_slug", courseSlug,
			"error", err,
		)
	} else if ok {
		return exp, true, nil
	}

	var generation int64
	if cacheUsable {
		gen, err := s.expiryCache.Generation(ctx, courseSlug, userID)
		if err != nil {
			cacheUsable = false
			s.logger.Warnw("failed to read subscription expiry generation",
				"user_id", userID,
				"course_slug", courseSlug,
				"error", err,
			)
		}
		generation = gen
	}

	exp, ok, err := s.subscriptionRepo.MaxExpiresAt(ctx, userID, courseSlug)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to read max expiry: %w", err)
	}
	if !ok {
		return time.Time{}, false, nil
	}

	if !cacheUsable {
		return exp, true, nil
	}
	if _, err := s.expiryCache.Fill(ctx, courseSlug, userID, exp, generation); err != nil {
		s.logger.Warnw("failed to back-fill subscription expiry cache",
			"user_id", userID,
			"course_slug", courseSlug,
			"error", err,
		)
	}
	return exp, true, nil
}

// ExpiryMap returns course slug -> max expiry for each of courses the user has rows for.
func (s *SubscriptionStore) ExpiryMap(ctx context.Context, userID string, courses []string) (map[string]time.Time, error) {
	out := make(map[string]time.Time, len(courses))
	for _, course := range courses {
		exp, ok, err := s.MaxExpiry(ctx, userID, course)
		if err != nil {
			return nil, err
		}
		if ok {
			out[catalog.NormalizeSlug(course)] = exp
		}
	}
	return out, nil
}
