// Package provider defines the ports through which reconciliation talks to
// external payment platforms.
package provider

import (
	"context"

	"coursegate/internal/domain/subscription"
)

// Adapter normalizes one payment platform into canonical subscriptions.
type Adapter interface {
	Provider() subscription.Provider

	// DefaultCourse is the course a sentinel row is recorded against when the
	// provider confirms the user bought nothing.
	DefaultCourse() string

	// FetchSubscriptions returns an empty slice, never nil error, for a confirmed
	// absence of purchases. Errors wrap ErrProviderAuth, ErrProviderUnavailable or
	// ErrUnmappedPlanIdentifier.
	FetchSubscriptions(ctx context.Context, user subscription.User) ([]*subscription.Subscription, error)
}

// CredentialSource hands out bearer tokens for a provider API.
type CredentialSource interface {
	Get(ctx context.Context) (string, error)
	Refresh(ctx context.Context) (string, error)
}

// WebhookNotification is the provider-independent part of an inbound webhook.
type WebhookNotification struct {
	EventID   string
	EventType string
	Email     string
	UserID    string
}

// WebhookParser decodes a provider's webhook body into a WebhookNotification.
type WebhookParser interface {
	Provider() subscription.Provider
	ParseWebhook(body []byte) (*WebhookNotification, error)
}
