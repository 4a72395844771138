package services

import (
	"context"
	"time"

	"coursegate/internal/domain/subscription"
)

type mockSubscriptionRepo struct {
	UpsertFunc       func(ctx context.Context, s *subscription.Subscription) (*subscription.Subscription, error)
	ListByUserFunc   func(ctx context.Context, userID string) ([]*subscription.Subscription, error)
	MaxExpiresAtFunc func(ctx context.Context, userID, courseSlug string) (time.Time, bool, error)
}

func (m *mockSubscriptionRepo) Upsert(ctx context.Context, s *subscription.Subscription) (*subscription.Subscription, error) {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, s)
	}
	return s, nil
}

func (m *mockSubscriptionRepo) ListByUser(ctx context.Context, userID string) ([]*subscription.Subscription, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID)
	}
	return nil, nil
}

func (m *mockSubscriptionRepo) MaxExpiresAt(ctx context.Context, userID, courseSlug string) (time.Time, bool, error) {
	if m.MaxExpiresAtFunc != nil {
		return m.MaxExpiresAtFunc(ctx, userID, courseSlug)
	}
	return time.Time{}, false, nil
}

type mockExpiryCache struct {
	GetFunc        func(ctx context.Context, courseSlug, userID string) (time.Time, bool, error)
	GenerationFunc func(ctx context.Context, courseSlug, userID string) (int64, error)
	FillFunc       func(ctx context.Context, courseSlug, userID string, expiresAt time.Time, generation int64) (bool, error)
	InvalidateFunc func(ctx context.Context, courseSlug, userID string) error

	sets        map[string]time.Time
	generations map[string]int64
}

func (m *mockExpiryCache) Get(ctx context.Context, courseSlug, userID string) (time.Time, bool, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, courseSlug, userID)
	}
	exp, ok := m.sets[courseSlug+":"+userID]
	return exp, ok, nil
}

func (m *mockExpiryCache) Generation(ctx context.Context, courseSlug, userID string) (int64, error) {
	if m.GenerationFunc != nil {
		return m.GenerationFunc(ctx, courseSlug, userID)
	}
	return m.generations[courseSlug+":"+userID], nil
}

func (m *mockExpiryCache) Fill(ctx context.Context, courseSlug, userID string, expiresAt time.Time, generation int64) (bool, error) {
	if m.FillFunc != nil {
		return m.FillFunc(ctx, courseSlug, userID, expiresAt, generation)
	}
	key := courseSlug + ":" + userID
	if m.generations[key] != generation {
		return false, nil
	}
	if m.sets == nil {
		m.sets = make(map[string]time.Time)
	}
	m.sets[key] = expiresAt
	return true, nil
}

func (m *mockExpiryCache) Invalidate(ctx context.Context, courseSlug, userID string) error {
	if m.InvalidateFunc != nil {
		return m.InvalidateFunc(ctx, courseSlug, userID)
	}
	key := courseSlug + ":" + userID
	delete(m.sets, key)
	if m.generations == nil {
		m.generations = make(map[string]int64)
	}
	m.generations[key]++
	return nil
}
