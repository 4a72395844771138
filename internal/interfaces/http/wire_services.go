package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	catalogServices "coursegate/internal/application/catalog/services"
	catalogUsecases "coursegate/internal/application/catalog/usecases"
	"coursegate/internal/application/subscription/provider"
	subscriptionServices "coursegate/internal/application/subscription/services"
	subscriptionUsecases "coursegate/internal/application/subscription/usecases"
	"coursegate/internal/domain/subscription"
	"coursegate/internal/infrastructure/auth"
	"coursegate/internal/infrastructure/cache"
	"coursegate/internal/infrastructure/metrics"
	"coursegate/internal/infrastructure/provider/credential"
	"coursegate/internal/infrastructure/provider/installment"
	"coursegate/internal/infrastructure/provider/recurring"
	"coursegate/internal/infrastructure/pubsub"
	"coursegate/internal/infrastructure/ratelimit"
	"coursegate/internal/infrastructure/repository"
	"coursegate/internal/infrastructure/scheduler"
	"coursegate/internal/interfaces/http/handlers"
	"coursegate/internal/interfaces/http/middleware"
	"coursegate/internal/shared/services/markdown"
)

const providerHTTPTimeout = 15 * time.Second

type repositories struct {
	subscriptionRepo *repository.SubscriptionRepositoryImpl
	catalogRepo      *repository.CatalogRepositoryImpl
	credentialRepo   *repository.CredentialRepositoryImpl
	webhookEventRepo *repository.WebhookEventRepositoryImpl
}

type allUseCases struct {
	reconcile     *subscriptionUsecases.ReconcileSubscriptionsUseCase
	handleWebhook *subscriptionUsecases.HandleWebhookUseCase
	listUser      *subscriptionUsecases.ListUserSubscriptionsUseCase
	grantManual   *subscriptionUsecases.GrantManualSubscriptionUseCase

	getCourse       *catalogUsecases.GetCourseUseCase
	getModule       *catalogUsecases.GetModuleUseCase
	getLesson       *catalogUsecases.GetLessonUseCase
	populateCatalog *catalogUsecases.PopulateCatalogUseCase
}

type allHandlers struct {
	catalogHandler      *handlers.CatalogHandler
	subscriptionHandler *handlers.SubscriptionHandler
	webhookHandler      *handlers.WebhookHandler
	healthHandler       *handlers.HealthHandler
}

// ============================================================
// Section 1: Infrastructure
// ============================================================

func (c *Container) initInfrastructure() {
	c.repos = &repositories{
		subscriptionRepo: repository.NewSubscriptionRepository(c.db, c.log),
		catalogRepo:      repository.NewCatalogRepository(c.db, c.log),
		credentialRepo:   repository.NewCredentialRepository(c.db, c.log),
		webhookEventRepo: repository.NewWebhookEventRepository(c.db, c.log),
	}

	snapshot := catalogServices.NewSnapshotService(c.repos.catalogRepo, markdown.NewRenderer(), c.log)
	c.catalogCache = cache.NewCatalogCache(snapshot, c.log)
	c.catalogEventBus = pubsub.NewRedisCatalogEventBus(c.redis, c.log)
}

// ============================================================
// Section 2: Providers and use cases
// ============================================================

func (c *Container) initUseCases() error {
	cfg := c.cfg
	log := c.log

	store := subscriptionServices.NewSubscriptionStore(
		c.repos.subscriptionRepo,
		cache.NewRedisSubscriptionExpiryCache(c.redis, log),
		log,
	)

	adapters, parsers, err := c.initProviders()
	if err != nil {
		return err
	}

	recorder, err := metrics.NewReconcileRecorder(prometheus.DefaultRegisterer)
	if err != nil {
		return fmt.Errorf("failed to register reconcile metrics: %w", err)
	}

	reconcile := subscriptionUsecases.NewReconcileSubscriptionsUseCase(adapters, store, recorder, cfg.Reconcile, log)

	c.ucs = &allUseCases{
		reconcile:     reconcile,
		handleWebhook: subscriptionUsecases.NewHandleWebhookUseCase(parsers, c.repos.webhookEventRepo, c.repos.subscriptionRepo, reconcile, log),
		listUser:      subscriptionUsecases.NewListUserSubscriptionsUseCase(store, log),
		grantManual:   subscriptionUsecases.NewGrantManualSubscriptionUseCase(store, log),

		getCourse:       catalogUsecases.NewGetCourseUseCase(c.catalogCache, store, log),
		getModule:       catalogUsecases.NewGetModuleUseCase(c.catalogCache, store, log),
		getLesson:       catalogUsecases.NewGetLessonUseCase(c.catalogCache, store, log),
		populateCatalog: catalogUsecases.NewPopulateCatalogUseCase(c.catalogCache, c.catalogCache, c.catalogEventBus, log),
	}
	return nil
}

// initProviders builds an adapter for every enabled payment platform. Both
// adapters also parse that platform's webhooks.
func (c *Container) initProviders() ([]provider.Adapter, []provider.WebhookParser, error) {
	cfg := c.cfg
	log := c.log

	plans, err := provider.LoadPlanMapping(cfg.PlansFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load plan mapping: %w", err)
	}

	httpClient := &http.Client{Timeout: providerHTTPTimeout}

	var (
		adapters []provider.Adapter
		parsers  []provider.WebhookParser
	)

	if pc := cfg.Providers.Recurring; pc.Enabled {
		creds := credential.NewCache(subscription.ProviderRecurring, pc, c.repos.credentialRepo, httpClient, log.Named("recurring"))
		client := recurring.NewClient(pc.BaseURL, httpClient, log.Named("recurring"))
		a := recurring.NewAdapter(client, creds, plans, pc, log.Named("recurring"))
		adapters = append(adapters, a)
		parsers = append(parsers, a)
	}

	if pc := cfg.Providers.Installment; pc.Enabled {
		creds := credential.NewCache(subscription.ProviderInstallment, pc, c.repos.credentialRepo, httpClient, log.Named("installment"))
		client := installment.NewClient(pc.BaseURL, httpClient, log.Named("installment"))
		a := installment.NewAdapter(client, creds, plans, pc, log.Named("installment"))
		adapters = append(adapters, a)
		parsers = append(parsers, a)
	}

	if len(adapters) == 0 {
		log.Warnw("no payment provider enabled; only manual subscriptions will grant access")
	}
	return adapters, parsers, nil
}

// ============================================================
// Section 3: Handlers
// ============================================================

func (c *Container) initHandlers() {
	jwtSvc := auth.NewJWTService(c.cfg.Auth.JWTSecret, c.cfg.Auth.Issuer)
	c.viewerMiddleware = middleware.NewViewerMiddleware(jwtSvc, c.log)
	c.rateLimiter = middleware.NewRateLimiter(ratelimit.NewRedisLimiter(c.redis, "ratelimit"), c.log)

	c.hdlrs = &allHandlers{
		catalogHandler: handlers.NewCatalogHandler(
			c.ucs.getCourse, c.ucs.getModule, c.ucs.getLesson, c.ucs.populateCatalog, c.log,
		),
		subscriptionHandler: handlers.NewSubscriptionHandler(
			c.ucs.reconcile, c.ucs.listUser, c.ucs.grantManual, c.log,
		),
		webhookHandler: handlers.NewWebhookHandler(c.ucs.handleWebhook, c.cfg.Providers.WebhookSecrets(), c.log),
		healthHandler:  handlers.NewHealthHandler(c.catalogCache),
	}
}

// ============================================================
// Section 4: Scheduler
// ============================================================

func (c *Container) initScheduler() error {
	mgr, err := scheduler.NewSchedulerManager(c.log)
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}
	if err := mgr.RegisterCatalogJobs(c.catalogCache, c.cfg.Catalog.RefreshInterval()); err != nil {
		return fmt.Errorf("failed to register catalog jobs: %w", err)
	}
	if err := mgr.RegisterWebhookRetentionJob(c.repos.webhookEventRepo, c.cfg.Reconcile.WebhookRetentionDays); err != nil {
		return fmt.Errorf("failed to register webhook retention job: %w", err)
	}
	c.schedulerManager = mgr
	return nil
}
