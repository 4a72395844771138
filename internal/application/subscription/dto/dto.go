package dto

import (
	"time"

	"coursegate/internal/domain/subscription"
)

type SubscriptionDTO struct {
	ID                     uint      `json:"id"`
	UserID                 string    `json:"user_id"`
	Email                  string    `json:"email,omitempty"`
	CourseSlug             string    `json:"course_slug"`
	Provider               string    `json:"provider"`
	ProviderSubscriptionID string    `json:"provider_subscription_id"`
	PlanID                 string    `json:"plan_id,omitempty"`
	ExpiresAt              time.Time `json:"expires_at"`
	IsSentinel             bool      `json:"is_sentinel"`
	IsLifetime             bool      `json:"is_lifetime"`
	IsActive               bool      `json:"is_active"`
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`
}

// ProviderOutcomeDTO reports how one provider fared in a reconcile run.
type ProviderOutcomeDTO struct {
	Provider      string `json:"provider"`
	Outcome       string `json:"outcome"`
	Subscriptions int    `json:"subscriptions"`
	Error         string `json:"error,omitempty"`
}

func ToSubscriptionDTO(s *subscription.Subscription, now time.Time) *SubscriptionDTO {
	if s == nil {
		return nil
	}
	return &SubscriptionDTO{
		ID:                     s.ID(),
		UserID:                 s.UserID(),
		Email:                  s.Email(),
		CourseSlug:             s.CourseSlug(),
		Provider:               s.Provider().String(),
		ProviderSubscriptionID: s.ProviderSubscriptionID(),
		PlanID:                 s.PlanID(),
		ExpiresAt:              s.ExpiresAt(),
		IsSentinel:             s.IsSentinel(),
		IsLifetime:             s.IsLifetime(),
		IsActive:               s.IsActiveAt(now),
		CreatedAt:              s.CreatedAt(),
		UpdatedAt:              s.UpdatedAt(),
	}
}

func ToSubscriptionDTOList(subs []*subscription.Subscription, now time.Time) []*SubscriptionDTO {
	out := make([]*SubscriptionDTO, 0, len(subs))
	for _, s := range subs {
		if s != nil {
			out = append(out, ToSubscriptionDTO(s, now))
		}
	}
	return out
}
