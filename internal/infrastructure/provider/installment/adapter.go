package installment

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"coursegate/internal/application/subscription/provider"
	"coursegate/internal/domain/subscription"
	sharedConfig "coursegate/internal/shared/config"
	"coursegate/internal/shared/logger"
)

const defaultGraceDays = 365

// Adapter derives expiry as approval date plus the grace window. A purchase whose
// installments are all paid never expires.
type Adapter struct {
	client        *Client
	creds         provider.CredentialSource
	plans         *provider.PlanMapping
	defaultCourse string
	grace         time.Duration
	logger        logger.Interface
}

var (
	_ provider.Adapter       = (*Adapter)(nil)
	_ provider.WebhookParser = (*Adapter)(nil)
)

func NewAdapter(
	client *Client,
	creds provider.CredentialSource,
	plans *provider.PlanMapping,
	cfg sharedConfig.ProviderConfig,
	logger logger.Interface,
) *Adapter {
	days := cfg.GraceDays
	if days <= 0 {
		days = defaultGraceDays
	}
	return &Adapter{
		client:        client,
		creds:         creds,
		plans:         plans,
		defaultCourse: cfg.DefaultCourse,
		grace:         time.Duration(days) * 24 * time.Hour,
		logger:        logger,
	}
}

func (a *Adapter) Provider() subscription.Provider {
	return subscription.ProviderInstallment
}

func (a *Adapter) DefaultCourse() string {
	return a.defaultCourse
}

func (a *Adapter) FetchSubscriptions(ctx context.Context, user subscription.User) ([]*subscription.Subscription, error) {
	if user.Email == "" {
		return nil, fmt.Errorf("installment: user %s has no email to look up", user.ID)
	}

	sales, err := provider.WithAuthRetry(ctx, a.creds, func(ctx context.Context, token string) ([]installmentPurchase, error) {
		return a.client.AllSales(ctx, token, user.Email)
	})
	if err != nil {
		return nil, err
	}

	subs := make([]*subscription.Subscription, 0, len(sales))
	for _, p := range sales {
		revoked := isRevoked(p.Status)
		if !revoked && !isEntitlement(p.Status) {
			// unpaid boletos and pending checkouts never granted access
			a.logger.Debugw("skipping pending purchase",
				"transaction", p.Transaction,
				"status", p.Status,
			)
			continue
		}

		course, err := a.plans.CourseFor(subscription.ProviderInstallment, p.Product.ID)
		if err != nil {
			if revoked {
				a.logger.Warnw("revoked purchase references unmapped product",
					"transaction", p.Transaction,
					"product_id", p.Product.ID,
					"user_id", user.ID,
				)
				continue
			}
			a.logger.Errorw("installment purchase references unmapped product",
				"transaction", p.Transaction,
				"product_id", p.Product.ID,
				"user_id", user.ID,
			)
			return nil, err
		}

		var expiresAt time.Time
		switch {
		case revoked:
			// rewrite any row stored while the purchase was approved
			expiresAt = subscription.SentinelExpiresAt
		case p.ApprovedDate == 0:
			a.logger.Warnw("approved purchase without approval date", "transaction", p.Transaction)
			continue
		default:
			expiresAt = a.expiryOf(p)
		}

		sub, err := subscription.NewSubscription(user.ID, course, subscription.ProviderInstallment, p.Transaction, expiresAt)
		if err != nil {
			return nil, fmt.Errorf("installment: invalid purchase %s: %w", p.Transaction, err)
		}
		subs = append(subs, sub.WithPurchaser(user.Email, p.Product.ID))
	}
	return subs, nil
}

func isEntitlement(status string) bool {
	return status == statusApproved || status == statusComplete
}

// isRevoked reports statuses of purchases that were paid and later taken back.
func isRevoked(status string) bool {
	switch status {
	case statusRefunded, statusChargeback, statusCancelled, statusProtested:
		return true
	}
	return false
}

func (a *Adapter) expiryOf(p installmentPurchase) time.Time {
	if p.Installments.Total > 1 && p.Installments.Paid >= p.Installments.Total {
		return subscription.LifetimeExpiresAt
	}
	return time.UnixMilli(p.ApprovedDate).UTC().Add(a.grace)
}

func (a *Adapter) ParseWebhook(body []byte) (*provider.WebhookNotification, error) {
	var hook installmentWebhook
	if err := json.Unmarshal(body, &hook); err != nil {
		return nil, fmt.Errorf("malformed installment webhook: %w", err)
	}
	if hook.Event == "" {
		return nil, fmt.Errorf("installment webhook without event")
	}

	eventID := hook.ID
	if eventID == "" && hook.Data.Purchase.Transaction != "" {
		eventID = hook.Data.Purchase.Transaction + ":" + hook.Event
	}
	return &provider.WebhookNotification{
		EventID:   eventID,
		EventType: hook.Event,
		Email:     hook.Data.Buyer.Email,
		UserID:    hook.Data.Purchase.ExternalReference,
	}, nil
}
