package http

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	catalogUsecases "coursegate/internal/application/catalog/usecases"
	subscriptionUsecases "coursegate/internal/application/subscription/usecases"
	"coursegate/internal/infrastructure/cache"
	"coursegate/internal/infrastructure/config"
	"coursegate/internal/infrastructure/pubsub"
	"coursegate/internal/infrastructure/scheduler"
	"coursegate/internal/interfaces/http/middleware"
	"coursegate/internal/shared/goroutine"
	"coursegate/internal/shared/logger"
)

// Container holds infrastructure, use cases and handlers, wired together once at
// startup. Start launches background work and Shutdown stops it.
type Container struct {
	engine *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
	log    logger.Interface
	redis  *redis.Client

	repos *repositories
	ucs   *allUseCases
	hdlrs *allHandlers

	viewerMiddleware *middleware.ViewerMiddleware
	rateLimiter      *middleware.RateLimiter

	catalogCache     *cache.CatalogCache
	catalogEventBus  *pubsub.RedisCatalogEventBus
	schedulerManager *scheduler.SchedulerManager

	subscriberCancel   context.CancelFunc
	subscriberCancelMu sync.Mutex
}

// NewContainer wires every component. The redis client is owned by the caller.
func NewContainer(db *gorm.DB, redisClient *redis.Client, cfg *config.Config, log logger.Interface) (*Container, error) {
	c := &Container{
		engine: gin.New(),
		db:     db,
		cfg:    cfg,
		log:    log,
		redis:  redisClient,
	}

	// Section 1: repositories, caches, event bus
	c.initInfrastructure()

	// Section 2: provider adapters and use cases
	if err := c.initUseCases(); err != nil {
		return nil, err
	}

	// Section 3: handlers and middleware
	c.initHandlers()

	// Section 4: scheduled catalog refresh
	if err := c.initScheduler(); err != nil {
		return nil, err
	}

	return c, nil
}

// Engine returns the gin engine with routes registered by SetupRoutes.
func (c *Container) Engine() *gin.Engine {
	return c.engine
}

func (c *Container) PopulateCatalog() *catalogUsecases.PopulateCatalogUseCase {
	return c.ucs.populateCatalog
}

func (c *Container) ReconcileSubscriptions() *subscriptionUsecases.ReconcileSubscriptionsUseCase {
	return c.ucs.reconcile
}

// Start fills the catalog cache, subscribes to catalog change events from other
// instances and starts the refresh scheduler. A failed initial population is
// returned; the process should not serve an empty catalog.
func (c *Container) Start(ctx context.Context) error {
	if _, err := c.ucs.populateCatalog.Execute(ctx, catalogUsecases.PopulateCatalogCommand{Reason: "startup"}); err != nil {
		return fmt.Errorf("initial catalog population failed: %w", err)
	}

	subCtx, cancel := context.WithCancel(context.Background())
	c.subscriberCancelMu.Lock()
	c.subscriberCancel = cancel
	c.subscriberCancelMu.Unlock()

	goroutine.SafeGo(c.log, "catalog-event-subscriber", func() {
		err := c.catalogEventBus.Subscribe(subCtx, func(ctx context.Context, event pubsub.CatalogChangedEvent) {
			if _, err := c.ucs.populateCatalog.Execute(ctx, catalogUsecases.PopulateCatalogCommand{
				Reason: "remote:" + event.Reason,
			}); err != nil {
				c.log.Errorw("failed to repopulate catalog after remote change", "source", event.InstanceID, "error", err)
			}
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			c.log.Errorw("catalog event subscriber exited", "error", err)
		}
	})

	c.schedulerManager.Start()
	return nil
}

// Shutdown stops background work. It does not close the database or redis.
func (c *Container) Shutdown() {
	c.subscriberCancelMu.Lock()
	if c.subscriberCancel != nil {
		c.subscriberCancel()
		c.subscriberCancel = nil
	}
	c.subscriberCancelMu.Unlock()

	if c.schedulerManager != nil {
		if err := c.schedulerManager.Stop(); err != nil {
			c.log.Warnw("failed to stop scheduler", "error", err)
		}
	}
}
