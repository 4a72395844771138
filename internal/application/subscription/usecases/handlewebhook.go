package usecases

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"coursegate/internal/application/subscription/provider"
	"coursegate/internal/domain/subscription"
	apperrors "coursegate/internal/shared/errors"
	"coursegate/internal/shared/logger"
)

type HandleWebhookCommand struct {
	Provider string
	Payload  []byte
}

type HandleWebhookResult struct {
	EventID   string           `json:"event_id"`
	Duplicate bool             `json:"duplicate"`
	UserID    string           `json:"user_id,omitempty"`
	Reconcile *ReconcileResult `json:"reconcile,omitempty"`
}

// webhookReconcileTimeout bounds a reconcile that outlives the delivering request.
const webhookReconcileTimeout = 2 * time.Minute

var errUnknownBuyer = errors.New("webhook buyer cannot be matched to a user with an email")

// HandleWebhookUseCase records a purchase notification and reconciles the buyer.
// Redeliveries of an already recorded event are acknowledged without reconciling
// unless the earlier attempt failed or was abandoned.
type HandleWebhookUseCase struct {
	parsers    map[subscription.Provider]provider.WebhookParser
	events     subscription.WebhookEventRepository
	buyers     subscription.BuyerDirectory
	reconciler Reconciler
	logger     logger.Interface
}

func NewHandleWebhookUseCase(
	parsers []provider.WebhookParser,
	events subscription.WebhookEventRepository,
	buyers subscription.BuyerDirectory,
	reconciler Reconciler,
	logger logger.Interface,
) *HandleWebhookUseCase {
	byProvider := make(map[subscription.Provider]provider.WebhookParser, len(parsers))
	for _, p := range parsers {
		byProvider[p.Provider()] = p
	}
	return &HandleWebhookUseCase{
		parsers:    byProvider,
		events:     events,
		buyers:     buyers,
		reconciler: reconciler,
		logger:     logger,
	}
}

func (uc *HandleWebhookUseCase) Execute(ctx context.Context, cmd HandleWebhookCommand) (*HandleWebhookResult, error) {
	p, err := subscription.ParseProvider(cmd.Provider)
	if err != nil {
		return nil, apperrors.NewNotFoundError("unknown webhook provider", cmd.Provider)
	}
	parser, ok := uc.parsers[p]
	if !ok {
		return nil, apperrors.NewNotFoundError("unknown webhook provider", cmd.Provider)
	}

	n, err := parser.ParseWebhook(cmd.Payload)
	if err != nil {
		uc.logger.Warnw("rejected webhook payload", "provider", p, "error", err)
		return nil, apperrors.NewValidationError("invalid webhook payload", err.Error())
	}
	if n.EventID == "" {
		n.EventID = uuid.NewString()
	}

	userID := n.UserID
	if userID == "" && n.Email != "" {
		userID, err = uc.buyers.FindUserIDByEmail(ctx, n.Email)
		if err != nil {
			uc.logger.Errorw("failed to resolve webhook buyer", "event_id", n.EventID, "error", err)
			return nil, fmt.Errorf("failed to resolve webhook buyer: %w", err)
		}
	}

	event := &subscription.WebhookEvent{
		EventID:    n.EventID,
		Provider:   p,
		EventType:  n.EventType,
		UserID:     userID,
		Email:      n.Email,
		Payload:    json.RawMessage(cmd.Payload),
		Status:     subscription.WebhookEventReceived,
		ReceivedAt: time.Now().UTC(),
	}
	created, err := uc.events.Record(ctx, event)
	if err != nil {
		return nil, fmt.Errorf("failed to record webhook event: %w", err)
	}

	result := &HandleWebhookResult{EventID: n.EventID, UserID: userID}
	if !created {
		result.Duplicate = true
		return result, nil
	}

	// The event is claimed; a provider hanging up must not leave it half done.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), webhookReconcileTimeout)
	defer cancel()

	if userID == "" || n.Email == "" {
		// The buyer is reconciled on their first login instead.
		uc.logger.Infow("webhook buyer not linked to a user",
			"event_id", n.EventID,
			"provider", p,
			"email", n.Email,
		)
		uc.settle(ctx, n.EventID, errUnknownBuyer)
		return result, nil
	}

	res, err := uc.reconciler.Execute(ctx, ReconcileCommand{
		User: subscription.User{ID: userID, Email: n.Email},
	})
	result.Reconcile = res

	cause := err
	if cause == nil && res != nil && res.Failed() {
		cause = errors.New("one or more providers could not be consulted")
	}
	uc.settle(ctx, n.EventID, cause)

	uc.logger.Infow("webhook processed",
		"event_id", n.EventID,
		"provider", p,
		"event_type", n.EventType,
		"user_id", userID,
		"error", cause,
	)
	return result, nil
}

func (uc *HandleWebhookUseCase) settle(ctx context.Context, eventID string, cause error) {
	if err := uc.events.MarkProcessed(ctx, eventID, cause); err != nil {
		uc.logger.Errorw("failed to settle webhook event", "event_id", eventID, "error", err)
	}
}
