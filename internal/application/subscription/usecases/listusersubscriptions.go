package usecases

import (
	"context"
	"fmt"
	"time"

	"coursegate/internal/application/subscription/dto"
	apperrors "coursegate/internal/shared/errors"
	"coursegate/internal/shared/logger"
)

type ListUserSubscriptionsQuery struct {
	UserID string
	// IncludeSentinels keeps "no purchase" rows in the listing.
	IncludeSentinels bool
}

type ListUserSubscriptionsResult struct {
	Subscriptions []*dto.SubscriptionDTO `json:"subscriptions"`
	Total         int                    `json:"total"`
}

type ListUserSubscriptionsUseCase struct {
	store  SubscriptionLister
	logger logger.Interface
}

func NewListUserSubscriptionsUseCase(store SubscriptionLister, logger logger.Interface) *ListUserSubscriptionsUseCase {
	return &ListUserSubscriptionsUseCase{store: store, logger: logger}
}

func (uc *ListUserSubscriptionsUseCase) Execute(ctx context.Context, query ListUserSubscriptionsQuery) (*ListUserSubscriptionsResult, error) {
	if query.UserID == "" {
		return nil, apperrors.NewValidationError("user ID is required")
	}

	subs, err := uc.store.ListByUser(ctx, query.UserID)
	if err != nil {
		uc.logger.Errorw("failed to list subscriptions", "error", err, "user_id", query.UserID)
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}

	now := time.Now().UTC()
	dtos := make([]*dto.SubscriptionDTO, 0, len(subs))
	for _, s := range subs {
		if s.IsSentinel() && !query.IncludeSentinels {
			continue
		}
		dtos = append(dtos, dto.ToSubscriptionDTO(s, now))
	}

	return &ListUserSubscriptionsResult{
		Subscriptions: dtos,
		Total:         len(dtos),
	}, nil
}
