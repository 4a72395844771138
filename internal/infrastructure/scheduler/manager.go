// Package scheduler runs the periodic maintenance jobs of a coursegate instance.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"coursegate/internal/shared/biztime"
	"coursegate/internal/shared/logger"
)

const (
	catalogJobTimeout = 5 * time.Minute
	pruneJobTimeout   = 2 * time.Minute
)

// CatalogPopulator rebuilds the catalog cache from the system of record.
type CatalogPopulator interface {
	Populate(ctx context.Context) error
}

// WebhookEventPruner deletes settled webhook events older than a cutoff.
type WebhookEventPruner interface {
	PruneSettledBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// SchedulerManager owns the single gocron scheduler of the process.
type SchedulerManager struct {
	scheduler gocron.Scheduler
	logger    logger.Interface

	started   bool
	startedMu sync.RWMutex
}

// NewSchedulerManager creates a scheduler whose daily jobs run on business time.
func NewSchedulerManager(log logger.Interface) (*SchedulerManager, error) {
	s, err := gocron.NewScheduler(gocron.WithLocation(biztime.Location()))
	if err != nil {
		return nil, err
	}
	return &SchedulerManager{scheduler: s, logger: log}, nil
}

// RegisterCatalogJobs repopulates the local catalog cache every interval, so a
// lost catalog change event only delays visibility.
func (m *SchedulerManager) RegisterCatalogJobs(populator CatalogPopulator, interval time.Duration) error {
	_, err := m.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), catalogJobTimeout)
			defer cancel()
			m.populateCatalog(ctx, populator)
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags("catalog"),
		gocron.WithName("catalog-populate"),
	)
	if err != nil {
		return err
	}

	m.logger.Infow("registered catalog jobs", "interval", interval.String())
	return nil
}

// RegisterWebhookRetentionJob deletes settled webhook events older than
// retentionDays business days, once a day at 03:00. Zero days registers nothing.
func (m *SchedulerManager) RegisterWebhookRetentionJob(pruner WebhookEventPruner, retentionDays int) error {
	if retentionDays <= 0 {
		m.logger.Infow("webhook event retention disabled")
		return nil
	}

	_, err := m.scheduler.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(3, 0, 0))),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), pruneJobTimeout)
			defer cancel()
			m.pruneWebhookEvents(ctx, pruner, retentionDays)
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags("webhook"),
		gocron.WithName("webhook-events-prune"),
	)
	if err != nil {
		return err
	}

	m.logger.Infow("registered webhook retention job", "retention_days", retentionDays)
	return nil
}

func (m *SchedulerManager) populateCatalog(ctx context.Context, populator CatalogPopulator) {
	started := biztime.NowUTC()
	if err := populator.Populate(ctx); err != nil {
		m.logger.Errorw("scheduled catalog populate failed", "error", err, "duration", time.Since(started))
		return
	}
	m.logger.Debugw("scheduled catalog populate finished", "duration", time.Since(started))
}

func (m *SchedulerManager) pruneWebhookEvents(ctx context.Context, pruner WebhookEventPruner, retentionDays int) {
	cutoff := biztime.StartOfDayUTC(biztime.NowUTC(), retentionDays)
	deleted, err := pruner.PruneSettledBefore(ctx, cutoff)
	if err != nil {
		m.logger.Errorw("webhook event prune failed", "cutoff", cutoff, "error", err)
		return
	}
	if deleted > 0 {
		m.logger.Infow("pruned webhook events", "cutoff", cutoff, "deleted", deleted)
	}
}

func (m *SchedulerManager) Start() {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if m.started {
		return
	}

	m.scheduler.Start()
	m.started = true
	m.logger.Infow("scheduler started", "job_count", len(m.scheduler.Jobs()))
}

// Stop waits for running jobs to complete before returning.
func (m *SchedulerManager) Stop() error {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if !m.started {
		return nil
	}

	err := m.scheduler.Shutdown()
	m.started = false
	if err != nil {
		m.logger.Errorw("scheduler shutdown with error", "error", err)
		return err
	}

	m.logger.Infow("scheduler stopped")
	return nil
}

func (m *SchedulerManager) IsStarted() bool {
	m.startedMu.RLock()
	defer m.startedMu.RUnlock()
	return m.started
}

func (m *SchedulerManager) Jobs() []gocron.Job {
	return m.scheduler.Jobs()
}
