package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"coursegate/internal/infrastructure/ratelimit"
	"coursegate/internal/interfaces/http/middleware"
	"coursegate/internal/interfaces/http/routes"
)

// SetupRoutes registers global middleware and every route group.
func (c *Container) SetupRoutes() {
	c.engine.Use(middleware.RequestID())
	c.engine.Use(middleware.RequestLogger(c.log))
	c.engine.Use(middleware.Recovery(c.log))
	c.engine.Use(middleware.ErrorHandler(c.log))
	c.engine.Use(middleware.CORS(c.cfg.Server.AllowedOrigins))

	c.engine.GET("/health", c.hdlrs.healthHandler.Health)
	c.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	routes.SetupCatalogRoutes(c.engine, &routes.CatalogRouteConfig{
		CatalogHandler:   c.hdlrs.catalogHandler,
		ViewerMiddleware: c.viewerMiddleware,
	})

	limits := c.cfg.RateLimit
	reconcileLimit := c.rateLimiter.Limit("reconcile", ratelimit.Limit{
		PerMinute: limits.ReconcilePerMinute,
		PerHour:   limits.ReconcilePerHour,
	}, middleware.ByViewer)
	webhookLimit := c.rateLimiter.Limit("webhook", ratelimit.Limit{
		PerMinute: limits.WebhookPerMinute,
	}, middleware.ByParam("provider"))

	routes.SetupSubscriptionRoutes(c.engine, &routes.SubscriptionRouteConfig{
		SubscriptionHandler: c.hdlrs.subscriptionHandler,
		ViewerMiddleware:    c.viewerMiddleware,
		ReconcileLimit:      reconcileLimit,
	})

	routes.SetupWebhookRoutes(c.engine, &routes.WebhookRouteConfig{
		WebhookHandler: c.hdlrs.webhookHandler,
		WebhookLimit:   webhookLimit,
	})

	routes.SetupAdminRoutes(c.engine, &routes.AdminRouteConfig{
		CatalogHandler:      c.hdlrs.catalogHandler,
		SubscriptionHandler: c.hdlrs.subscriptionHandler,
		ViewerMiddleware:    c.viewerMiddleware,
	})
}
