package usecases

import (
	"context"
	"time"

	"coursegate/internal/domain/catalog"
)

type mockEntries map[string]*catalog.Entry

func (m mockEntries) Get(key string) (*catalog.Entry, bool) {
	e, ok := m[key]
	return e, ok
}

type mockExpiries struct {
	calls         int
	ExpiryMapFunc func(ctx context.Context, userID string, courses []string) (map[string]time.Time, error)
}

func (m *mockExpiries) ExpiryMap(ctx context.Context, userID string, courses []string) (map[string]time.Time, error) {
	m.calls++
	if m.ExpiryMapFunc != nil {
		return m.ExpiryMapFunc(ctx, userID, courses)
	}
	return map[string]time.Time{}, nil
}

type mockPopulator struct {
	err   error
	calls int
}

func (m *mockPopulator) Populate(context.Context) error {
	m.calls++
	return m.err
}

func (m *mockPopulator) Len() int { return 3 }

type mockPublisher struct {
	reasons []string
	err     error
}

func (m *mockPublisher) PublishChanged(_ context.Context, reason string) error {
	m.reasons = append(m.reasons, reason)
	return m.err
}
