package usecases

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coursegate/internal/application/subscription/dto"
	"coursegate/internal/application/subscription/provider"
	"coursegate/internal/domain/subscription"
	"coursegate/internal/infrastructure/metrics"
	apperrors "coursegate/internal/shared/errors"
	"coursegate/internal/shared/logger"
)

func staticParser(n provider.WebhookNotification) *mockWebhookParser {
	return &mockWebhookParser{
		provider: subscription.ProviderRecurring,
		ParseFunc: func([]byte) (*provider.WebhookNotification, error) {
			out := n
			return &out, nil
		},
	}
}

func newWebhookUseCase(parser provider.WebhookParser, events *mockWebhookEvents, buyers map[string]string, reconciler Reconciler) *HandleWebhookUseCase {
	return NewHandleWebhookUseCase(
		[]provider.WebhookParser{parser},
		events,
		&mockBuyerDirectory{users: buyers},
		reconciler,
		logger.NewNop(),
	)
}

func TestHandleWebhook_ReconcilesBuyerFoundByEmail(t *testing.T) {
	events := newMockWebhookEvents()
	reconciler := &mockReconciler{}
	uc := newWebhookUseCase(
		staticParser(provider.WebhookNotification{EventID: "evt_1", EventType: "subscription.renewed", Email: "u1@example.com"}),
		events,
		map[string]string{"u1@example.com": "u1"},
		reconciler,
	)

	result, err := uc.Execute(context.Background(), HandleWebhookCommand{Provider: "recurring", Payload: []byte(`{}`)})
	require.NoError(t, err)

	assert.Equal(t, "evt_1", result.EventID)
	assert.Equal(t, "u1", result.UserID)
	assert.False(t, result.Duplicate)
	require.Len(t, reconciler.calls, 1)
	assert.Equal(t, subscription.User{ID: "u1", Email: "u1@example.com"}, reconciler.calls[0].User)

	cause, settled := events.settled["evt_1"]
	assert.True(t, settled)
	assert.NoError(t, cause)
}

func TestHandleWebhook_DuplicateDeliveryIsNotReconciledTwice(t *testing.T) {
	events := newMockWebhookEvents()
	reconciler := &mockReconciler{}
	uc := newWebhookUseCase(
		staticParser(provider.WebhookNotification{EventID: "evt_1", UserID: "u1", Email: "u1@example.com"}),
		events, nil, reconciler,
	)

	_, err := uc.Execute(context.Background(), HandleWebhookCommand{Provider: "recurring", Payload: []byte(`{}`)})
	require.NoError(t, err)
	second, err := uc.Execute(context.Background(), HandleWebhookCommand{Provider: "recurring", Payload: []byte(`{}`)})
	require.NoError(t, err)

	assert.True(t, second.Duplicate)
	assert.Len(t, reconciler.calls, 1)
}

func TestHandleWebhook_GeneratesEventIDWhenMissing(t *testing.T) {
	events := newMockWebhookEvents()
	uc := newWebhookUseCase(
		staticParser(provider.WebhookNotification{UserID: "u1", Email: "u1@example.com"}),
		events, nil, &mockReconciler{},
	)

	first, err := uc.Execute(context.Background(), HandleWebhookCommand{Provider: "recurring", Payload: []byte(`{}`)})
	require.NoError(t, err)
	second, err := uc.Execute(context.Background(), HandleWebhookCommand{Provider: "recurring", Payload: []byte(`{}`)})
	require.NoError(t, err)

	assert.NotEmpty(t, first.EventID)
	assert.NotEqual(t, first.EventID, second.EventID)
	assert.Len(t, events.recorded, 2)
}

func TestHandleWebhook_UnknownBuyerIsRecordedWithoutReconcile(t *testing.T) {
	events := newMockWebhookEvents()
	reconciler := &mockReconciler{}
	uc := newWebhookUseCase(
		staticParser(provider.WebhookNotification{EventID: "evt_2", Email: "stranger@example.com"}),
		events, nil, reconciler,
	)

	result, err := uc.Execute(context.Background(), HandleWebhookCommand{Provider: "recurring", Payload: []byte(`{"a":1}`)})
	require.NoError(t, err)
	assert.Empty(t, result.UserID)
	assert.Empty(t, reconciler.calls)
	assert.Equal(t, `{"a":1}`, string(events.recorded["evt_2"].Payload))
	assert.ErrorIs(t, events.settled["evt_2"], errUnknownBuyer)
}

func TestHandleWebhook_ProviderFailureMarksEventFailed(t *testing.T) {
	events := newMockWebhookEvents()
	reconciler := &mockReconciler{
		ExecuteFunc: func(_ context.Context, cmd ReconcileCommand) (*ReconcileResult, error) {
			return &ReconcileResult{
				UserID:    cmd.User.ID,
				Providers: []*dto.ProviderOutcomeDTO{{Provider: "recurring", Outcome: metrics.OutcomeFailed}},
			}, nil
		},
	}
	uc := newWebhookUseCase(
		staticParser(provider.WebhookNotification{EventID: "evt_3", UserID: "u1", Email: "u1@example.com"}),
		events, nil, reconciler,
	)

	_, err := uc.Execute(context.Background(), HandleWebhookCommand{Provider: "recurring", Payload: []byte(`{}`)})
	require.NoError(t, err)
	assert.Error(t, events.settled["evt_3"])
}

func TestHandleWebhook_ReconcileSurvivesRequestCancellation(t *testing.T) {
	events := newMockWebhookEvents()
	ctx, cancel := context.WithCancel(context.Background())
	reconciler := &mockReconciler{
		ExecuteFunc: func(rctx context.Context, cmd ReconcileCommand) (*ReconcileResult, error) {
			// the provider hangs up while the buyer is being reconciled
			cancel()
			assert.NoError(t, rctx.Err())
			_, hasDeadline := rctx.Deadline()
			assert.True(t, hasDeadline)
			return &ReconcileResult{UserID: cmd.User.ID}, nil
		},
	}
	uc := newWebhookUseCase(
		staticParser(provider.WebhookNotification{EventID: "evt_4", UserID: "u1", Email: "u1@example.com"}),
		events, nil, reconciler,
	)

	_, err := uc.Execute(ctx, HandleWebhookCommand{Provider: "recurring", Payload: []byte(`{}`)})
	require.NoError(t, err)

	cause, settled := events.settled["evt_4"]
	require.True(t, settled)
	assert.NoError(t, cause)
	assert.Equal(t, subscription.WebhookEventProcessed, events.recorded["evt_4"].Status)
}

func TestHandleWebhook_RedeliveryRetriesFailedEvent(t *testing.T) {
	events := newMockWebhookEvents()
	attempts := 0
	reconciler := &mockReconciler{
		ExecuteFunc: func(_ context.Context, cmd ReconcileCommand) (*ReconcileResult, error) {
			attempts++
			if attempts == 1 {
				return nil, errors.New("provider timeout")
			}
			return &ReconcileResult{UserID: cmd.User.ID}, nil
		},
	}
	uc := newWebhookUseCase(
		staticParser(provider.WebhookNotification{EventID: "evt_5", UserID: "u1", Email: "u1@example.com"}),
		events, nil, reconciler,
	)
	cmd := HandleWebhookCommand{Provider: "recurring", Payload: []byte(`{}`)}

	_, err := uc.Execute(context.Background(), cmd)
	require.NoError(t, err)
	assert.Error(t, events.settled["evt_5"])

	second, err := uc.Execute(context.Background(), cmd)
	require.NoError(t, err)
	assert.False(t, second.Duplicate)
	assert.NoError(t, events.settled["evt_5"])

	third, err := uc.Execute(context.Background(), cmd)
	require.NoError(t, err)
	assert.True(t, third.Duplicate)
	assert.Len(t, reconciler.calls, 2)
}

func TestHandleWebhook_RedeliveryTakesOverAbandonedEvent(t *testing.T) {
	events := newMockWebhookEvents()
	events.recorded["evt_6"] = &subscription.WebhookEvent{
		EventID:    "evt_6",
		Provider:   subscription.ProviderRecurring,
		Status:     subscription.WebhookEventReceived,
		ReceivedAt: time.Now().UTC().Add(-subscription.WebhookClaimStaleAfter - time.Minute),
	}
	reconciler := &mockReconciler{}
	uc := newWebhookUseCase(
		staticParser(provider.WebhookNotification{EventID: "evt_6", UserID: "u1", Email: "u1@example.com"}),
		events, nil, reconciler,
	)

	result, err := uc.Execute(context.Background(), HandleWebhookCommand{Provider: "recurring", Payload: []byte(`{}`)})
	require.NoError(t, err)
	assert.False(t, result.Duplicate)
	assert.Len(t, reconciler.calls, 1)
}

func TestHandleWebhook_RejectsUnknownProviderAndBadPayload(t *testing.T) {
	parser := &mockWebhookParser{
		provider: subscription.ProviderRecurring,
		ParseFunc: func([]byte) (*provider.WebhookNotification, error) {
			return nil, errors.New("bad json")
		},
	}
	uc := newWebhookUseCase(parser, newMockWebhookEvents(), nil, &mockReconciler{})

	_, err := uc.Execute(context.Background(), HandleWebhookCommand{Provider: "installment", Payload: []byte(`{}`)})
	assert.True(t, apperrors.IsNotFoundError(err))

	_, err = uc.Execute(context.Background(), HandleWebhookCommand{Provider: "paypal", Payload: []byte(`{}`)})
	assert.True(t, apperrors.IsNotFoundError(err))

	_, err = uc.Execute(context.Background(), HandleWebhookCommand{Provider: "recurring", Payload: []byte(`nope`)})
	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)
}
