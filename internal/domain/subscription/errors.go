package subscription

import (
	"errors"
	"fmt"
)

var (
	// ErrProviderAuth means the provider rejected the bearer credential.
	// Adapters refresh the credential and retry once on this error.
	ErrProviderAuth = errors.New("provider authentication failed")

	// ErrProviderUnavailable covers network errors, timeouts and 5xx answers.
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrUnmappedPlanIdentifier means a purchase references a plan that no course is mapped to.
	ErrUnmappedPlanIdentifier = errors.New("unmapped plan identifier")

	// ErrStoreWrite wraps persistence failures during upsert.
	ErrStoreWrite = errors.New("subscription store write failed")

	ErrInvalidProvider        = errors.New("invalid provider")
	ErrUserIDRequired         = errors.New("user ID is required")
	ErrCourseSlugRequired     = errors.New("course slug is required")
	ErrProviderSubIDRequired  = errors.New("provider subscription ID is required")
	ErrExpiresAtRequired      = errors.New("expiry time is required")
	ErrSubscriptionIDAssigned = errors.New("subscription ID is already set")
)

// UnmappedPlanError returns ErrUnmappedPlanIdentifier annotated with the provider and plan.
func UnmappedPlanError(provider Provider, planID string) error {
	return fmt.Errorf("%w: provider=%s plan=%s", ErrUnmappedPlanIdentifier, provider, planID)
}
