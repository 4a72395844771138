package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Wrapped(t *testing.T) {
	err := fmt.Errorf("load lesson: %w", NewNotFoundError("lesson not found", "escola-online:intro:boas-vindas"))

	appErr := GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusNotFound, appErr.Code)
	assert.True(t, IsNotFoundError(err))
	assert.Equal(t, "not_found: lesson not found (escola-online:intro:boas-vindas)", appErr.Error())
}

func TestGetAppError_PlainError(t *testing.T) {
	assert.Nil(t, GetAppError(errors.New("boom")))
	assert.False(t, IsNotFoundError(errors.New("boom")))
}

func TestIsDuplicateError(t *testing.T) {
	assert.True(t, IsDuplicateError(errors.New("Error 1062: Duplicate entry 'u1-escola' for key 'idx_subscription_natural_key'")))
	assert.True(t, IsDuplicateError(errors.New("UNIQUE constraint failed: subscriptions.user_id")))
	assert.False(t, IsDuplicateError(nil))
	assert.False(t, IsDuplicateError(errors.New("connection refused")))
}

func TestNew_StatusByType(t *testing.T) {
	tests := []struct {
		errType ErrorType
		want    int
	}{
		{ErrorTypeValidation, http.StatusBadRequest},
		{ErrorTypeRateLimited, http.StatusTooManyRequests},
		{ErrorTypeUnavailable, http.StatusServiceUnavailable},
		{ErrorType("unknown"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.errType), func(t *testing.T) {
			assert.Equal(t, tt.want, New(tt.errType, "msg").Code)
		})
	}

	e := NewRateLimitedError("too many requests", "reconcile", "ignored")
	assert.Equal(t, "reconcile", e.Details)
}
