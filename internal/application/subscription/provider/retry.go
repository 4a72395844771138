package provider

import (
	"context"
	"errors"

	"coursegate/internal/domain/subscription"
)

// WithAuthRetry runs call with the current credential. If it fails with
// ErrProviderAuth the credential is refreshed and call runs exactly once more;
// the second outcome is returned as is.
func WithAuthRetry[T any](ctx context.Context, creds CredentialSource, call func(ctx context.Context, token string) (T, error)) (T, error) {
	var zero T

	token, err := creds.Get(ctx)
	if err != nil {
		return zero, err
	}

	result, err := call(ctx, token)
	if !errors.Is(err, subscription.ErrProviderAuth) {
		return result, err
	}

	token, err = creds.Refresh(ctx)
	if err != nil {
		return zero, err
	}
	return call(ctx, token)
}
