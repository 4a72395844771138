package usecases

import (
	"context"

	"coursegate/internal/domain/subscription"
)

// SubscriptionWriter persists reconciled rows and keeps the expiry projection current.
type SubscriptionWriter interface {
	Upsert(ctx context.Context, sub *subscription.Subscription) (*subscription.Subscription, error)
}

type SubscriptionLister interface {
	ListByUser(ctx context.Context, userID string) ([]*subscription.Subscription, error)
}

// OutcomeRecorder counts per-provider reconcile outcomes.
type OutcomeRecorder interface {
	ObserveProvider(provider, outcome string)
}

// Reconciler is the part of ReconcileSubscriptionsUseCase other use cases depend on.
type Reconciler interface {
	Execute(ctx context.Context, cmd ReconcileCommand) (*ReconcileResult, error)
}
