package handlers

import (
	"context"

	catalogDTO "coursegate/internal/application/catalog/dto"
	catalogUsecases "coursegate/internal/application/catalog/usecases"
	subscriptionDTO "coursegate/internal/application/subscription/dto"
	subscriptionUsecases "coursegate/internal/application/subscription/usecases"
	"coursegate/internal/domain/subscription"
)

type mockGetCourse struct {
	ExecuteFunc func(ctx context.Context, query catalogUsecases.GetCourseQuery) (*catalogDTO.NodeDTO, error)
}

func (m *mockGetCourse) Execute(ctx context.Context, query catalogUsecases.GetCourseQuery) (*catalogDTO.NodeDTO, error) {
	return m.ExecuteFunc(ctx, query)
}

type mockGetModule struct {
	ExecuteFunc func(ctx context.Context, query catalogUsecases.GetModuleQuery) (*catalogDTO.NodeDTO, error)
}

func (m *mockGetModule) Execute(ctx context.Context, query catalogUsecases.GetModuleQuery) (*catalogDTO.NodeDTO, error) {
	return m.ExecuteFunc(ctx, query)
}

type mockGetLesson struct {
	ExecuteFunc func(ctx context.Context, query catalogUsecases.GetLessonQuery) (*catalogDTO.NodeDTO, error)
}

func (m *mockGetLesson) Execute(ctx context.Context, query catalogUsecases.GetLessonQuery) (*catalogDTO.NodeDTO, error) {
	return m.ExecuteFunc(ctx, query)
}

type mockPopulate struct {
	cmds []catalogUsecases.PopulateCatalogCommand
}

func (m *mockPopulate) Execute(_ context.Context, cmd catalogUsecases.PopulateCatalogCommand) (*catalogUsecases.PopulateCatalogResult, error) {
	m.cmds = append(m.cmds, cmd)
	return &catalogUsecases.PopulateCatalogResult{Entries: 12, Broadcasted: cmd.Broadcast}, nil
}

type mockReconcile struct {
	asyncUsers  []subscription.User
	ExecuteFunc func(ctx context.Context, cmd subscriptionUsecases.ReconcileCommand) (*subscriptionUsecases.ReconcileResult, error)
}

func (m *mockReconcile) Execute(ctx context.Context, cmd subscriptionUsecases.ReconcileCommand) (*subscriptionUsecases.ReconcileResult, error) {
	return m.ExecuteFunc(ctx, cmd)
}

func (m *mockReconcile) ReconcileAsync(user subscription.User) {
	m.asyncUsers = append(m.asyncUsers, user)
}

type mockList struct {
	queries []subscriptionUsecases.ListUserSubscriptionsQuery
}

func (m *mockList) Execute(_ context.Context, query subscriptionUsecases.ListUserSubscriptionsQuery) (*subscriptionUsecases.ListUserSubscriptionsResult, error) {
	m.queries = append(m.queries, query)
	return &subscriptionUsecases.ListUserSubscriptionsResult{Subscriptions: []*subscriptionDTO.SubscriptionDTO{}}, nil
}

type mockGrant struct {
	cmds []subscriptionUsecases.GrantManualSubscriptionCommand
}

func (m *mockGrant) Execute(_ context.Context, cmd subscriptionUsecases.GrantManualSubscriptionCommand) (*subscriptionDTO.SubscriptionDTO, error) {
	m.cmds = append(m.cmds, cmd)
	return &subscriptionDTO.SubscriptionDTO{UserID: cmd.UserID, CourseSlug: cmd.CourseSlug, Provider: "manual"}, nil
}

type mockHandleWebhook struct {
	cmds []subscriptionUsecases.HandleWebhookCommand
}

func (m *mockHandleWebhook) Execute(_ context.Context, cmd subscriptionUsecases.HandleWebhookCommand) (*subscriptionUsecases.HandleWebhookResult, error) {
	m.cmds = append(m.cmds, cmd)
	return &subscriptionUsecases.HandleWebhookResult{EventID: "evt_1"}, nil
}
