package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"coursegate/internal/application/subscription/dto"
	"coursegate/internal/application/subscription/provider"
	"coursegate/internal/domain/subscription"
	"coursegate/internal/infrastructure/metrics"
	sharedConfig "coursegate/internal/shared/config"
	apperrors "coursegate/internal/shared/errors"
	"coursegate/internal/shared/goroutine"
	"coursegate/internal/shared/logger"
)

type ReconcileCommand struct {
	User subscription.User
}

type ReconcileResult struct {
	UserID    string                    `json:"user_id"`
	Providers []*dto.ProviderOutcomeDTO `json:"providers"`
	Upserted  int                       `json:"upserted"`
}

// Failed reports whether any provider could not be consulted.
func (r *ReconcileResult) Failed() bool {
	for _, p := range r.Providers {
		if p.Outcome == metrics.OutcomeFailed {
			return true
		}
	}
	return false
}

// ReconcileSubscriptionsUseCase pulls the user's purchases from every provider and
// upserts them. Providers run concurrently and never cancel each other.
type ReconcileSubscriptionsUseCase struct {
	adapters        []provider.Adapter
	store           SubscriptionWriter
	recorder        OutcomeRecorder
	providerTimeout time.Duration
	asyncTimeout    time.Duration
	logger          logger.Interface
}

func NewReconcileSubscriptionsUseCase(
	adapters []provider.Adapter,
	store SubscriptionWriter,
	recorder OutcomeRecorder,
	cfg sharedConfig.ReconcileConfig,
	logger logger.Interface,
) *ReconcileSubscriptionsUseCase {
	if recorder == nil {
		recorder = metrics.NewNopReconcileRecorder()
	}
	return &ReconcileSubscriptionsUseCase{
		adapters:        adapters,
		store:           store,
		recorder:        recorder,
		providerTimeout: cfg.ProviderTimeout(),
		asyncTimeout:    cfg.AsyncTimeout(),
		logger:          logger,
	}
}

type providerRun struct {
	outcome  *dto.ProviderOutcomeDTO
	upserted int
	storeErr error
}

// Execute returns a joined error only for store write failures. Provider failures
// are reported in the result.
func (uc *ReconcileSubscriptionsUseCase) Execute(ctx context.Context, cmd ReconcileCommand) (*ReconcileResult, error) {
	if cmd.User.ID == "" {
		return nil, apperrors.NewValidationError("user ID is required")
	}

	runs := make([]providerRun, len(uc.adapters))

	var g errgroup.Group
	for i, adapter := range uc.adapters {
		g.Go(func() error {
			runs[i] = uc.reconcileProvider(ctx, adapter, cmd.User)
			return nil
		})
	}
	_ = g.Wait()

	result := &ReconcileResult{
		UserID:    cmd.User.ID,
		Providers: make([]*dto.ProviderOutcomeDTO, 0, len(runs)),
	}
	var storeErrs []error
	for _, run := range runs {
		result.Providers = append(result.Providers, run.outcome)
		result.Upserted += run.upserted
		if run.storeErr != nil {
			storeErrs = append(storeErrs, run.storeErr)
		}
		uc.recorder.ObserveProvider(run.outcome.Provider, run.outcome.Outcome)
	}

	uc.logger.Infow("subscriptions reconciled",
		"user_id", cmd.User.ID,
		"upserted", result.Upserted,
		"providers", len(result.Providers),
		"store_errors", len(storeErrs),
	)

	if len(storeErrs) > 0 {
		return result, errors.Join(storeErrs...)
	}
	return result, nil
}

func (uc *ReconcileSubscriptionsUseCase) reconcileProvider(ctx context.Context, adapter provider.Adapter, user subscription.User) providerRun {
	name := adapter.Provider().String()
	run := providerRun{outcome: &dto.ProviderOutcomeDTO{Provider: name}}

	fetchCtx, cancel := context.WithTimeout(ctx, uc.providerTimeout)
	subs, err := adapter.FetchSubscriptions(fetchCtx, user)
	cancel()

	if err != nil {
		// An outage is not evidence of absence, so nothing is written.
		uc.logger.Warnw("provider lookup failed",
			"provider", name,
			"user_id", user.ID,
			"error", err,
		)
		run.outcome.Outcome = metrics.OutcomeFailed
		run.outcome.Error = err.Error()
		return run
	}

	if len(subs) == 0 {
		sentinel, err := subscription.NewSentinel(user.ID, adapter.DefaultCourse(), adapter.Provider())
		if err != nil {
			run.outcome.Outcome = metrics.OutcomeFailed
			run.outcome.Error = err.Error()
			return run
		}
		subs = []*subscription.Subscription{sentinel.WithPurchaser(user.Email, "")}
		run.outcome.Outcome = metrics.OutcomeSentinel
	} else {
		run.outcome.Outcome = metrics.OutcomeSynced
		run.outcome.Subscriptions = len(subs)
	}

	var errs []error
	for _, sub := range subs {
		if _, err := uc.store.Upsert(ctx, sub); err != nil {
			uc.logger.Errorw("failed to upsert subscription",
				"provider", name,
				"key", sub.Key().String(),
				"error", err,
			)
			errs = append(errs, fmt.Errorf("%s %s: %w", name, sub.Key(), err))
			continue
		}
		run.upserted++
	}
	if len(errs) > 0 {
		run.outcome.Outcome = metrics.OutcomeStoreError
		run.storeErr = errors.Join(errs...)
	}
	return run
}

// ReconcileAsync reconciles in the background on a detached context, for triggers
// such as login that must not wait on the providers.
func (uc *ReconcileSubscriptionsUseCase) ReconcileAsync(user subscription.User) {
	goroutine.Detached(uc.logger, "reconcile-subscriptions", uc.asyncTimeout, func(ctx context.Context) {
		if _, err := uc.Execute(ctx, ReconcileCommand{User: user}); err != nil {
			uc.logger.Errorw("background reconcile failed", "user_id", user.ID, "error", err)
		}
	})
}
