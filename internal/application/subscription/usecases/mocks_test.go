package usecases

import (
	"context"
	"sync"
	"time"

	"coursegate/internal/application/subscription/provider"
	"coursegate/internal/domain/subscription"
)

type mockAdapter struct {
	provider      subscription.Provider
	defaultCourse string
	FetchFunc     func(ctx context.Context, user subscription.User) ([]*subscription.Subscription, error)
}

func (m *mockAdapter) Provider() subscription.Provider { return m.provider }
func (m *mockAdapter) DefaultCourse() string           { return m.defaultCourse }

func (m *mockAdapter) FetchSubscriptions(ctx context.Context, user subscription.User) ([]*subscription.Subscription, error) {
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, user)
	}
	return []*subscription.Subscription{}, nil
}

// memoryStore keeps rows by natural key, as the relational upsert does.
type memoryStore struct {
	mu         sync.Mutex
	rows       map[subscription.NaturalKey]*subscription.Subscription
	upserts    int
	UpsertFunc func(ctx context.Context, sub *subscription.Subscription) (*subscription.Subscription, error)
}

func newMemoryStore() *memoryStore {
	return &memoryStore{rows: make(map[subscription.NaturalKey]*subscription.Subscription)}
}

func (m *memoryStore) Upsert(ctx context.Context, sub *subscription.Subscription) (*subscription.Subscription, error) {
	if m.UpsertFunc != nil {
		if _, err := m.UpsertFunc(ctx, sub); err != nil {
			return nil, err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upserts++
	m.rows[sub.Key()] = sub
	return sub, nil
}

func (m *memoryStore) ListByUser(_ context.Context, userID string) ([]*subscription.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*subscription.Subscription
	for _, s := range m.rows {
		if s.UserID() == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memoryStore) all() []*subscription.Subscription {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*subscription.Subscription, 0, len(m.rows))
	for _, s := range m.rows {
		out = append(out, s)
	}
	return out
}

type mockRecorder struct {
	mu       sync.Mutex
	outcomes map[string]string
}

func (m *mockRecorder) ObserveProvider(provider, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.outcomes == nil {
		m.outcomes = make(map[string]string)
	}
	m.outcomes[provider] = outcome
}

type mockWebhookParser struct {
	provider  subscription.Provider
	ParseFunc func(body []byte) (*provider.WebhookNotification, error)
}

func (m *mockWebhookParser) Provider() subscription.Provider { return m.provider }

func (m *mockWebhookParser) ParseWebhook(body []byte) (*provider.WebhookNotification, error) {
	return m.ParseFunc(body)
}

type mockWebhookEvents struct {
	recorded map[string]*subscription.WebhookEvent
	settled  map[string]error
}

func newMockWebhookEvents() *mockWebhookEvents {
	return &mockWebhookEvents{
		recorded: make(map[string]*subscription.WebhookEvent),
		settled:  make(map[string]error),
	}
}

func (m *mockWebhookEvents) Record(_ context.Context, event *subscription.WebhookEvent) (bool, error) {
	if event.Status == "" {
		event.Status = subscription.WebhookEventReceived
	}
	if prev, ok := m.recorded[event.EventID]; ok {
		stale := prev.Status == subscription.WebhookEventReceived &&
			prev.ReceivedAt.Before(event.ReceivedAt.Add(-subscription.WebhookClaimStaleAfter))
		if prev.Status != subscription.WebhookEventFailed && !stale {
			return false, nil
		}
	}
	m.recorded[event.EventID] = event
	return true, nil
}

func (m *mockWebhookEvents) MarkProcessed(_ context.Context, eventID string, cause error) error {
	m.settled[eventID] = cause
	if e, ok := m.recorded[eventID]; ok {
		e.Status = subscription.WebhookEventProcessed
		if cause != nil {
			e.Status = subscription.WebhookEventFailed
		}
	}
	return nil
}

func (m *mockWebhookEvents) PruneSettledBefore(context.Context, time.Time) (int64, error) {
	return 0, nil
}

type mockBuyerDirectory struct {
	users map[string]string
}

func (m *mockBuyerDirectory) FindUserIDByEmail(_ context.Context, email string) (string, error) {
	return m.users[email], nil
}

type mockReconciler struct {
	calls       []ReconcileCommand
	ExecuteFunc func(ctx context.Context, cmd ReconcileCommand) (*ReconcileResult, error)
}

func (m *mockReconciler) Execute(ctx context.Context, cmd ReconcileCommand) (*ReconcileResult, error) {
	m.calls = append(m.calls, cmd)
	if m.ExecuteFunc != nil {
		return m.ExecuteFunc(ctx, cmd)
	}
	return &ReconcileResult{UserID: cmd.User.ID}, nil
}
