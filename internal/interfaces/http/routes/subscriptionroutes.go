package routes

import (
	"github.com/gin-gonic/gin"

	"coursegate/internal/interfaces/http/handlers"
	"coursegate/internal/interfaces/http/middleware"
)

type SubscriptionRouteConfig struct {
	SubscriptionHandler *handlers.SubscriptionHandler
	ViewerMiddleware    *middleware.ViewerMiddleware
	ReconcileLimit      gin.HandlerFunc
}

// SetupSubscriptionRoutes configures the signed-in viewer's own subscription routes.
func SetupSubscriptionRoutes(engine *gin.Engine, cfg *SubscriptionRouteConfig) {
	me := engine.Group("/me")
	me.Use(cfg.ViewerMiddleware.RequireViewer())
	{
		me.POST("/reconcile", cfg.ReconcileLimit, cfg.SubscriptionHandler.Reconcile)
		me.GET("/subscriptions", cfg.SubscriptionHandler.ListMine)
	}
}
