package recurring

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"coursegate/internal/application/subscription/provider"
	"coursegate/internal/domain/subscription"
	"coursegate/internal/shared/biztime"
	sharedConfig "coursegate/internal/shared/config"
	"coursegate/internal/shared/logger"
)

// Adapter maps platform subscriptions onto canonical subscription rows.
// The next-charge date is the expiry; cancelled subscriptions expire at period end.
type Adapter struct {
	client        *Client
	creds         provider.CredentialSource
	plans         *provider.PlanMapping
	defaultCourse string
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
	return &Adapter{
		client:        client,
		creds:         creds,
		plans:         plans,
		defaultCourse: cfg.DefaultCourse,
		logger:        logger,
	}
}

func (a *Adapter) Provider() subscription.Provider {
	return subscription.ProviderRecurring
}

func (a *Adapter) DefaultCourse() string {
	return a.defaultCourse
}

func (a *Adapter) FetchSubscriptions(ctx context.Context, user subscription.User) ([]*subscription.Subscription, error) {
	if user.Email == "" {
		return nil, fmt.Errorf("recurring: user %s has no email to look up", user.ID)
	}

	raw, err := provider.WithAuthRetry(ctx, a.creds, func(ctx context.Context, token string) ([]recurringSubscription, error) {
		return a.client.ListSubscriptions(ctx, token, user.Email)
	})
	if err != nil {
		return nil, err
	}

	subs := make([]*subscription.Subscription, 0, len(raw))
	for _, r := range raw {
		revoked := isRevoked(r.Status)
		if !revoked && !isEntitlement(r.Status) {
			a.logger.Debugw("skipping incomplete recurring subscription",
				"subscription_id", r.ID,
				"status", r.Status,
			)
			continue
		}

		course, err := a.plans.CourseFor(subscription.ProviderRecurring, r.Plan.ID)
		if err != nil {
			if revoked {
				a.logger.Warnw("revoked recurring subscription references unmapped plan",
					"subscription_id", r.ID,
					"plan_id", r.Plan.ID,
					"user_id", user.ID,
				)
				continue
			}
			a.logger.Errorw("recurring subscription references unmapped plan",
				"subscription_id", r.ID,
				"plan_id", r.Plan.ID,
				"user_id", user.ID,
			)
			return nil, err
		}

		expiresAt := subscription.SentinelExpiresAt
		if !revoked {
			expiresAt, err = expiryOf(r)
		}
		if err != nil {
			a.logger.Warnw("recurring subscription has no usable expiry",
				"subscription_id", r.ID,
				"error", err,
			)
			continue
		}

		sub, err := subscription.NewSubscription(user.ID, course, subscription.ProviderRecurring, r.ID, expiresAt)
		if err != nil {
			return nil, fmt.Errorf("recurring: invalid subscription %s: %w", r.ID, err)
		}
		subs = append(subs, sub.WithPurchaser(user.Email, r.Plan.ID))
	}
	return subs, nil
}

func (a *Adapter) ParseWebhook(body []byte) (*provider.WebhookNotification, error) {
	var hook recurringWebhook
	if err := json.Unmarshal(body, &hook); err != nil {
		return nil, fmt.Errorf("malformed recurring webhook: %w", err)
	}
	if hook.Type == "" {
		return nil, fmt.Errorf("recurring webhook without type")
	}
	return &provider.WebhookNotification{
		EventID:   hook.ID,
		EventType: hook.Type,
		Email:     hook.Data.Customer.Email,
		UserID:    hook.Data.Customer.ExternalID,
	}, nil
}

func isEntitlement(status string) bool {
	switch status {
	case statusActive, statusTrialing, statusPastDue, statusCanceled:
		return true
	}
	return false
}

// isRevoked reports subscriptions that lost access without a paid period left.
// A previously stored row for them is rewritten to an expiry in the past.
func isRevoked(status string) bool {
	return status == statusUnpaid || status == statusExpired
}

func expiryOf(r recurringSubscription) (time.Time, error) {
	if r.Status == statusCanceled && r.CurrentPeriodEnd != nil {
		return r.CurrentPeriodEnd.UTC(), nil
	}
	if r.NextChargeDate != "" {
		return parseChargeDate(r.NextChargeDate)
	}
	if r.CurrentPeriodEnd != nil {
		return r.CurrentPeriodEnd.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("no next charge date or period end")
}

// parseChargeDate accepts RFC 3339 instants and bare dates; a bare date grants
// access until the end of that business day.
func parseChargeDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	day, err := biztime.ParseDateInBizTimezone(s)
	if err != nil {
		return time.Time{}, err
	}
	return biztime.EndOfDayUTC(day), nil
}
