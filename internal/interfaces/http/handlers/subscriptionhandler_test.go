package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	subscriptionDTO "coursegate/internal/application/subscription/dto"
	subscriptionUsecases "coursegate/internal/application/subscription/usecases"
	"coursegate/internal/domain/entitlement"
	"coursegate/internal/domain/subscription"
	"coursegate/internal/interfaces/http/handlers/testutil"
	"coursegate/internal/shared/logger"
)

var viewerU1 = entitlement.Viewer{ID: "u1", Email: "u1@example.com", PhoneNumber: "+5511999999999"}

func TestSubscriptionHandler_ReconcileAsyncByDefault(t *testing.T) {
	reconcile := &mockReconcile{}
	h := NewSubscriptionHandler(reconcile, &mockList{}, &mockGrant{}, logger.NewNop())

	c, w := testutil.NewTestContext(http.MethodPost, "/me/reconcile", nil)
	testutil.SetViewer(c, viewerU1)
	h.Reconcile(c)

	assert.Equal(t, http.StatusAccepted, w.Code)
	require.Len(t, reconcile.asyncUsers, 1)
	assert.Equal(t, subscription.User{ID: "u1", Email: "u1@example.com", PhoneNumber: "+5511999999999"}, reconcile.asyncUsers[0])
}

func TestSubscriptionHandler_ReconcileWait(t *testing.T) {
	reconcile := &mockReconcile{
		ExecuteFunc: func(_ context.Context, cmd subscriptionUsecases.ReconcileCommand) (*subscriptionUsecases.ReconcileResult, error) {
			return &subscriptionUsecases.ReconcileResult{
				UserID:    cmd.User.ID,
				Upserted:  2,
				Providers: []*subscriptionDTO.ProviderOutcomeDTO{{Provider: "recurring", Outcome: "synced"}},
			}, nil
		},
	}
	h := NewSubscriptionHandler(reconcile, &mockList{}, &mockGrant{}, logger.NewNop())

	c, w := testutil.NewTestContext(http.MethodPost, "/me/reconcile?wait=true", nil)
	testutil.SetViewer(c, viewerU1)
	h.Reconcile(c)

	require.Equal(t, http.StatusOK, w.Code)
	var result subscriptionUsecases.ReconcileResult
	_, err := testutil.DecodeResponse(w, &result)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Upserted)
	assert.Empty(t, reconcile.asyncUsers)
}

func TestSubscriptionHandler_ListForUser(t *testing.T) {
	list := &mockList{}
	h := NewSubscriptionHandler(&mockReconcile{}, list, &mockGrant{}, logger.NewNop())

	c, w := testutil.NewTestContext(http.MethodGet, "/admin/users/u9/subscriptions?include_sentinels=true", nil)
	testutil.SetURLParam(c, "user", "u9")
	h.ListForUser(c)

	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, list.queries, 1)
	assert.Equal(t, "u9", list.queries[0].UserID)
	assert.True(t, list.queries[0].IncludeSentinels)
}

func TestSubscriptionHandler_GrantManual(t *testing.T) {
	grant := &mockGrant{}
	h := NewSubscriptionHandler(&mockReconcile{}, &mockList{}, grant, logger.NewNop())

	c, w := testutil.NewTestContext(http.MethodPost, "/admin/subscriptions", map[string]string{
		"user_id":     "u1",
		"course_slug": "escola-online",
		"email":       "u1@example.com",
	})
	h.GrantManual(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, grant.cmds, 1)
	assert.Nil(t, grant.cmds[0].ExpiresAt)
}

func TestSubscriptionHandler_GrantManualValidation(t *testing.T) {
	grant := &mockGrant{}
	h := NewSubscriptionHandler(&mockReconcile{}, &mockList{}, grant, logger.NewNop())

	c, w := testutil.NewTestContext(http.MethodPost, "/admin/subscriptions", map[string]string{
		"email": "not-an-email",
	})
	h.GrantManual(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, grant.cmds)
	resp, err := testutil.DecodeResponse(w, nil)
	require.NoError(t, err)
	assert.Contains(t, resp.Error.Details, "user_id is required")
}
