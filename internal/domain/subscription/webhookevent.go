package subscription

import (
	"context"
	"encoding/json"
	"time"
)

type WebhookEventStatus string

const (
	WebhookEventReceived  WebhookEventStatus = "received"
	WebhookEventProcessed WebhookEventStatus = "processed"
	WebhookEventFailed    WebhookEventStatus = "failed"
)

// WebhookClaimStaleAfter is how long an event may stay received before a
// redelivery is allowed to take it over.
const WebhookClaimStaleAfter = 10 * time.Minute

// WebhookEvent is one inbound purchase notification, kept for audit and delivery dedup.
type WebhookEvent struct {
	ID          uint
	EventID     string
	Provider    Provider
	EventType   string
	UserID      string
	Email       string
	Payload     json.RawMessage
	Status      WebhookEventStatus
	Error       string
	ReceivedAt  time.Time
	ProcessedAt *time.Time
}

type WebhookEventRepository interface {
	// Record stores a new event. A redelivery of EventID claims the stored event
	// again when it failed, or when it is still received and older than
	// WebhookClaimStaleAfter. created is false for any other redelivery.
	Record(ctx context.Context, event *WebhookEvent) (created bool, err error)
	// MarkProcessed settles the event; a non-nil cause marks it failed.
	MarkProcessed(ctx context.Context, eventID string, cause error) error
	// PruneSettledBefore deletes settled events received before the cutoff and reports how many.
	// Events still in WebhookEventReceived are kept.
	PruneSettledBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
