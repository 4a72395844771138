// Package installment integrates the installment-purchase platform.
package installment

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

const (
	maxResponseSize = 1 << 20
	// maxPages stops runaway pagination from a misbehaving API.
	maxPages = 50
)

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

// SalesHistory fetches one page of purchases for email. pageToken "" requests the first page.
func (c *Client) SalesHistory(ctx context.Context, token, email, pageToken string) (*salesHistoryResponse, error) {
	q := url.Values{}
	q.Set("buyer_email", email)
	if pageToken != "" {
		q.Set("page_token", pageToken)
	}
	endpoint := c.baseURL + "/payments/api/v1/sales/history?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: installment: %w", subscription.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: installment: failed to read response: %v", subscription.ErrProviderUnavailable, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: installment returned %d", subscription.ErrProviderAuth, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		c.logger.Warnw("installment provider returned unexpected status",
			"status", resp.StatusCode,
			"page_token", pageToken,
		)
		return nil, fmt.Errorf("%w: installment returned %d", subscription.ErrProviderUnavailable, resp.StatusCode)
	}

	var page salesHistoryResponse
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("%w: installment: malformed response: %v", subscription.ErrProviderUnavailable, err)
	}
	return &page, nil
}

// AllSales walks every page. Each page call is a separate request with the same token.
func (c *Client) AllSales(ctx context.Context, token, email string) ([]installmentPurchase, error) {
	var (
		out       = make([]installmentPurchase, 0)
		pageToken string
	)
	for i := 0; i < maxPages; i++ {
		page, err := c.SalesHistory(ctx, token, email, pageToken)
		if err != nil {
			return nil, err
		}
		out = append(out, page.Items...)

		pageToken = page.PageInfo.NextPageToken
		if pageToken == "" {
			return out, nil
		}
	}
	return nil, fmt.Errorf("%w: installment: more than %d pages of sales", subscription.ErrProviderUnavailable, maxPages)
}
