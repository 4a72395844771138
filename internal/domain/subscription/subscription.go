package subscription

import (
	"fmt"
	"time"

	"coursegate/internal/domain/catalog"
)

var (
	// SentinelExpiresAt is the expiry stored on "provider confirmed no purchase" rows.
	SentinelExpiresAt = time.Unix(0, 0).UTC()

	// LifetimeExpiresAt is the expiry of purchases that never lapse (fully paid installments).
	LifetimeExpiresAt = time.Date(9999, 12, 31, 23, 59, 59, 0, time.UTC)
)

// User is the identity whose purchases are looked up on the providers.
type User struct {
	ID          string
	Email       string
	PhoneNumber string
}

// NaturalKey is the upsert key of a subscription row.
type NaturalKey struct {
	UserID                 string
	CourseSlug             string
	ProviderSubscriptionID string
}

func (k NaturalKey) String() string {
	return fmt.Sprintf("%s/%s/%s", k.UserID, k.CourseSlug, k.ProviderSubscriptionID)
}

// Subscription is one provider-reported (or synthesized) entitlement to a course.
type Subscription struct {
	id                     uint
	userID                 string
	email                  string
	courseSlug             string
	provider               Provider
	providerSubscriptionID string
	planID                 string
	expiresAt              time.Time
	createdAt              time.Time
	updatedAt              time.Time
}

// NewSubscription creates a subscription reported by a provider. The course slug is normalized.
func NewSubscription(
	userID string,
	courseSlug string,
	provider Provider,
	providerSubscriptionID string,
	expiresAt time.Time,
) (*Subscription, error) {
	if userID == "" {
		return nil, ErrUserIDRequired
	}
	courseSlug = catalog.NormalizeSlug(courseSlug)
	if courseSlug == "" {
		return nil, ErrCourseSlugRequired
	}
	if !provider.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidProvider, provider)
	}
	if providerSubscriptionID == "" {
		return nil, ErrProviderSubIDRequired
	}
	if expiresAt.IsZero() {
		return nil, ErrExpiresAtRequired
	}

	now := time.Now().UTC()
	return &Subscription{
		userID:                 userID,
		courseSlug:             courseSlug,
		provider:               provider,
		providerSubscriptionID: providerSubscriptionID,
		expiresAt:              expiresAt.UTC(),
		createdAt:              now,
		updatedAt:              now,
	}, nil
}

// NewSentinel records that provider was asked about userID and reported no purchase.
func NewSentinel(userID, courseSlug string, provider Provider) (*Subscription, error) {
	return NewSubscription(userID, courseSlug, provider, SentinelID(provider, userID), SentinelExpiresAt)
}

// SentinelID is the synthesized provider subscription ID of a sentinel row.
func SentinelID(provider Provider, userID string) string {
	return fmt.Sprintf("no-%s-%s", provider, userID)
}

// ReconstructSubscription rebuilds a subscription from persistence.
func ReconstructSubscription(
	id uint,
	userID string,
	email string,
	courseSlug string,
	provider Provider,
	providerSubscriptionID string,
	planID string,
	expiresAt time.Time,
	createdAt, updatedAt time.Time,
) (*Subscription, error) {
	if id == 0 {
		return nil, fmt.Errorf("subscription ID cannot be zero")
	}
	if !provider.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidProvider, provider)
	}
	return &Subscription{
		id:                     id,
		userID:                 userID,
		email:                  email,
		courseSlug:             courseSlug,
		provider:               provider,
		providerSubscriptionID: providerSubscriptionID,
		planID:                 planID,
		expiresAt:              expiresAt.UTC(),
		createdAt:              createdAt,
		updatedAt:              updatedAt,
	}, nil
}

func (s *Subscription) ID() uint                       { return s.id }
func (s *Subscription) UserID() string                 { return s.userID }
func (s *Subscription) Email() string                  { return s.email }
func (s *Subscription) CourseSlug() string             { return s.courseSlug }
func (s *Subscription) Provider() Provider             { return s.provider }
func (s *Subscription) ProviderSubscriptionID() string { return s.providerSubscriptionID }
func (s *Subscription) PlanID() string                 { return s.planID }
func (s *Subscription) ExpiresAt() time.Time           { return s.expiresAt }
func (s *Subscription) CreatedAt() time.Time           { return s.createdAt }
func (s *Subscription) UpdatedAt() time.Time           { return s.updatedAt }

func (s *Subscription) Key() NaturalKey {
	return NaturalKey{
		UserID:                 s.userID,
		CourseSlug:             s.courseSlug,
		ProviderSubscriptionID: s.providerSubscriptionID,
	}
}

// SetID sets the ID (only for persistence layer use)
func (s *Subscription) SetID(id uint) error {
	if s.id != 0 && s.id != id {
		return ErrSubscriptionIDAssigned
	}
	s.id = id
	return nil
}

// WithPurchaser annotates the row with the lookup email and provider plan.
// Neither is part of the natural key.
func (s *Subscription) WithPurchaser(email, planID string) *Subscription {
	s.email = email
	s.planID = planID
	return s
}

// IsSentinel reports whether the row records a confirmed absence of purchase.
func (s *Subscription) IsSentinel() bool {
	return s.providerSubscriptionID == SentinelID(s.provider, s.userID)
}

func (s *Subscription) IsLifetime() bool {
	return !s.expiresAt.Before(LifetimeExpiresAt)
}

// IsActiveAt reports whether the subscription grants access at t. Expiry is exclusive.
func (s *Subscription) IsActiveAt(t time.Time) bool {
	return s.expiresAt.After(t)
}
