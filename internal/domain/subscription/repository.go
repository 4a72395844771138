package subscription

import (
	"context"
	"time"
)

// Repository is the relational system of record for subscriptions.
type Repository interface {
	// Upsert inserts s or, when its natural key exists, overwrites expiry and audit fields.
	// The stored row is returned with its ID set.
	Upsert(ctx context.Context, s *Subscription) (*Subscription, error)

	ListByUser(ctx context.Context, userID string) ([]*Subscription, error)

	// MaxExpiresAt returns the latest expiry for (userID, courseSlug); ok is false when no row exists.
	MaxExpiresAt(ctx context.Context, userID, courseSlug string) (expiresAt time.Time, ok bool, err error)
}

// BuyerDirectory resolves the user behind a provider-side buyer email.
type BuyerDirectory interface {
	// FindUserIDByEmail returns "" when no reconciled row carries email.
	FindUserIDByEmail(ctx context.Context, email string) (string, error)
}
