// Package recurring integrates the recurring-billing platform.
package recurring

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"coursegate/internal/domain/subscription"
	"coursegate/internal/shared/logger"
)

// maxResponseSize bounds provider responses (1MB).
const maxResponseSize = 1 << 20

// Client performs single authenticated calls against the platform API. It does
// not retry; the adapter owns the refresh-and-retry policy.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     logger.Interface
}

func NewClient(baseURL string, httpClient *http.Client, logger logger.Interface) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}
}

// ListSubscriptions returns every subscription the platform holds for email.
// An unknown customer is an empty result, not an error.
func (c *Client) ListSubscriptions(ctx context.Context, token, email string) ([]recurringSubscription, error) {
	q := url.Values{}
	q.Set("customer_email", email)
	endpoint := c.baseURL + "/v1/subscriptions?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: recurring: %w", subscription.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: recurring: failed to read response: %v", subscription.ErrProviderUnavailable, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: recurring returned %d", subscription.ErrProviderAuth, resp.StatusCode)
	case resp.StatusCode == http.StatusNotFound:
		return []recurringSubscription{}, nil
	case resp.StatusCode != http.StatusOK:
		c.logger.Warnw("recurring provider returned unexpected status",
			"status", resp.StatusCode,
			"body", truncate(body, 256),
		)
		return nil, fmt.Errorf("%w: recurring returned %d", subscription.ErrProviderUnavailable, resp.StatusCode)
	}

	var parsed listSubscriptionsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: recurring: malformed response: %v", subscription.ErrProviderUnavailable, err)
	}
	if parsed.Data == nil {
		parsed.Data = []recurringSubscription{}
	}
	return parsed.Data, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
