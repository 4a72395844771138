// Package credential keeps the bearer token of a provider API, exchanging client
// credentials on demand and sharing the result through the durable credential store.
package credential

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/sync/singleflight"

	"coursegate/internal/domain/subscription"
	sharedConfig "coursegate/internal/shared/config"
	"coursegate/internal/shared/logger"
)

// expirySkew treats tokens about to expire as already expired.
const expirySkew = 30 * time.Second

type Cache struct {
	provider   subscription.Provider
	oauth      clientcredentials.Config
	store      subscription.CredentialRepository
	httpClient *http.Client
	logger     logger.Interface

	mu      sync.RWMutex
	current *subscription.ProviderCredential

	refreshGroup singleflight.Group
}

func NewCache(
	provider subscription.Provider,
	cfg sharedConfig.ProviderConfig,
	store subscription.CredentialRepository,
	httpClient *http.Client,
	logger logger.Interface,
) *Cache {
	return &Cache{
		provider: provider,
		oauth: clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
			AuthStyle:    oauth2.AuthStyleInHeader,
		},
		store:      store,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Get returns the in-memory token, else the persisted one, else a freshly exchanged one.
func (c *Cache) Get(ctx context.Context) (string, error) {
	now := time.Now()

	c.mu.RLock()
	cur := c.current
	c.mu.RUnlock()
	if usable(cur, now) {
		return cur.AccessToken, nil
	}

	stored, err := c.store.Get(ctx, c.provider)
	if err != nil {
		c.logger.Warnw("failed to load persisted provider credential",
			"provider", c.provider,
			"error", err,
		)
	} else if usable(stored, now) {
		c.remember(stored)
		return stored.AccessToken, nil
	}

	return c.Refresh(ctx)
}

// Refresh always performs a new exchange. Concurrent callers share one exchange.
func (c *Cache) Refresh(ctx context.Context) (string, error) {
	v, err, shared := c.refreshGroup.Do(c.provider.String(), func() (interface{}, error) {
		return c.exchange(ctx)
	})
	if err != nil {
		return "", err
	}
	if shared {
		c.logger.Debugw("provider credential refresh shared", "provider", c.provider)
	}
	return v.(string), nil
}

func (c *Cache) exchange(ctx context.Context) (string, error) {
	if c.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	}

	token, err := c.oauth.Token(ctx)
	if err != nil {
		c.logger.Errorw("provider credential exchange failed",
			"provider", c.provider,
			"error", err,
		)
		return "", classifyExchangeError(err)
	}

	cred := &subscription.ProviderCredential{
		Provider:    c.provider,
		AccessToken: token.AccessToken,
		TokenType:   token.Type(),
		ExpiresAt:   token.Expiry,
		UpdatedAt:   time.Now().UTC(),
	}
	c.remember(cred)

	if err := c.store.Save(ctx, cred); err != nil {
		// The token is still valid for this instance.
		c.logger.Warnw("failed to persist provider credential",
			"provider", c.provider,
			"error", err,
		)
	}

	c.logger.Infow("provider credential refreshed",
		"provider", c.provider,
		"expires_at", token.Expiry,
	)
	return token.AccessToken, nil
}

func (c *Cache) remember(cred *subscription.ProviderCredential) {
	c.mu.Lock()
	c.current = cred
	c.mu.Unlock()
}

func usable(cred *subscription.ProviderCredential, now time.Time) bool {
	if cred == nil || cred.AccessToken == "" {
		return false
	}
	return cred.ExpiresAt.IsZero() || cred.ExpiresAt.After(now.Add(expirySkew))
}

// classifyExchangeError maps 4xx token endpoint answers to ErrProviderAuth and
// everything else to ErrProviderUnavailable.
func classifyExchangeError(err error) error {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) && retrieveErr.Response != nil {
		code := retrieveErr.Response.StatusCode
		if code >= 400 && code < 500 && code != http.StatusTooManyRequests {
			return fmt.Errorf("%w: token endpoint returned %d", subscription.ErrProviderAuth, code)
		}
	}
	return fmt.Errorf("%w: credential exchange: %v", subscription.ErrProviderUnavailable, err)
}
