package routes

import (
	"github.com/gin-gonic/gin"

	"coursegate/internal/interfaces/http/handlers"
	"coursegate/internal/interfaces/http/middleware"
)

type AdminRouteConfig struct {
	CatalogHandler      *handlers.CatalogHandler
	SubscriptionHandler *handlers.SubscriptionHandler
	ViewerMiddleware    *middleware.ViewerMiddleware
}

// SetupAdminRoutes configures operator routes. All require the admin role.
func SetupAdminRoutes(engine *gin.Engine, cfg *AdminRouteConfig) {
	admin := engine.Group("/admin")
	admin.Use(cfg.ViewerMiddleware.RequireViewer(), cfg.ViewerMiddleware.RequireAdmin())
	{
		admin.POST("/catalog/populate", cfg.CatalogHandler.Populate)

		admin.GET("/users/:user/subscriptions", cfg.SubscriptionHandler.ListForUser)
		admin.POST("/subscriptions", cfg.SubscriptionHandler.GrantManual)
	}
}
