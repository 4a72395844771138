package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"coursegate/internal/application/subscription/dto"
	"coursegate/internal/domain/subscription"
	apperrors "coursegate/internal/shared/errors"
	"coursegate/internal/shared/logger"
)

// GrantManualSubscriptionCommand grants a course outside any payment platform.
// A nil ExpiresAt grants lifetime access.
type GrantManualSubscriptionCommand struct {
	UserID     string
	Email      string
	CourseSlug string
	Reference  string
	ExpiresAt  *time.Time
}

type GrantManualSubscriptionUseCase struct {
	store  SubscriptionWriter
	logger logger.Interface
}

func NewGrantManualSubscriptionUseCase(store SubscriptionWriter, logger logger.Interface) *GrantManualSubscriptionUseCase {
	return &GrantManualSubscriptionUseCase{store: store, logger: logger}
}

func (uc *GrantManualSubscriptionUseCase) Execute(ctx context.Context, cmd GrantManualSubscriptionCommand) (*dto.SubscriptionDTO, error) {
	expiresAt := subscription.LifetimeExpiresAt
	if cmd.ExpiresAt != nil {
		expiresAt = cmd.ExpiresAt.UTC()
	}
	ref := cmd.Reference
	if ref == "" {
		ref = "manual-" + uuid.NewString()
	}

	sub, err := subscription.NewSubscription(cmd.UserID, cmd.CourseSlug, subscription.ProviderManual, ref, expiresAt)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid manual grant", err.Error())
	}
	sub.WithPurchaser(cmd.Email, "")

	stored, err := uc.store.Upsert(ctx, sub)
	if err != nil {
		uc.logger.Errorw("failed to grant manual subscription",
			"user_id", cmd.UserID,
			"course_slug", sub.CourseSlug(),
			"error", err,
		)
		return nil, fmt.Errorf("failed to grant manual subscription: %w", err)
	}

	uc.logger.Infow("manual subscription granted",
		"user_id", stored.UserID(),
		"course_slug", stored.CourseSlug(),
		"reference", ref,
		"expires_at", stored.ExpiresAt(),
	)
	return dto.ToSubscriptionDTO(stored, time.Now().UTC()), nil
}
