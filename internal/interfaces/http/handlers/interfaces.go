package handlers

import (
	"context"

	catalogDTO "coursegate/internal/application/catalog/dto"
	catalogUsecases "coursegate/internal/application/catalog/usecases"
	subscriptionDTO "coursegate/internal/application/subscription/dto"
	subscriptionUsecases "coursegate/internal/application/subscription/usecases"
	"coursegate/internal/domain/subscription"
)

type GetCourseExecutor interface {
	Execute(ctx context.Context, query catalogUsecases.GetCourseQuery) (*catalogDTO.NodeDTO, error)
}

type GetModuleExecutor interface {
	Execute(ctx context.Context, query catalogUsecases.GetModuleQuery) (*catalogDTO.NodeDTO, error)
}

type GetLessonExecutor interface {
	Execute(ctx context.Context, query catalogUsecases.GetLessonQuery) (*catalogDTO.NodeDTO, error)
}

type PopulateCatalogExecutor interface {
	Execute(ctx context.Context, cmd catalogUsecases.PopulateCatalogCommand) (*catalogUsecases.PopulateCatalogResult, error)
}

type ReconcileExecutor interface {
	Execute(ctx context.Context, cmd subscriptionUsecases.ReconcileCommand) (*subscriptionUsecases.ReconcileResult, error)
	ReconcileAsync(user subscription.User)
}

type ListUserSubscriptionsExecutor interface {
	Execute(ctx context.Context, query subscriptionUsecases.ListUserSubscriptionsQuery) (*subscriptionUsecases.ListUserSubscriptionsResult, error)
}

type GrantManualSubscriptionExecutor interface {
	Execute(ctx context.Context, cmd subscriptionUsecases.GrantManualSubscriptionCommand) (*subscriptionDTO.SubscriptionDTO, error)
}

type HandleWebhookExecutor interface {
	Execute(ctx context.Context, cmd subscriptionUsecases.HandleWebhookCommand) (*subscriptionUsecases.HandleWebhookResult, error)
}
