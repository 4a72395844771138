package subscription

import (
	"context"
	"time"
)

// ProviderCredential is the bearer token currently in use for a provider.
type ProviderCredential struct {
	Provider    Provider
	AccessToken string
	TokenType   string
	// ExpiresAt is zero when the token endpoint did not report a lifetime.
	ExpiresAt time.Time
	UpdatedAt time.Time
}

// CredentialRepository is the durable secret store shared by every process instance.
type CredentialRepository interface {
	// Get returns nil, nil when no credential was ever stored for provider.
	Get(ctx context.Context, provider Provider) (*ProviderCredential, error)
	Save(ctx context.Context, cred *ProviderCredential) error
}
