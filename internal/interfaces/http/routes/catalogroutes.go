// Package routes provides HTTP route configurations.
package routes

import (
	"github.com/gin-gonic/gin"

	"coursegate/internal/interfaces/http/handlers"
	"coursegate/internal/interfaces/http/middleware"
)

type CatalogRouteConfig struct {
	CatalogHandler   *handlers.CatalogHandler
	ViewerMiddleware *middleware.ViewerMiddleware
}

// SetupCatalogRoutes configures the public catalog. Anonymous viewers get the
// marketing view; a valid bearer token unlocks what the viewer has paid for.
// Routes: /courses/:course[/modules/:module[/lessons/:lesson]]
func SetupCatalogRoutes(engine *gin.Engine, cfg *CatalogRouteConfig) {
	courses := engine.Group("/courses")
	courses.Use(cfg.ViewerMiddleware.OptionalViewer())
	{
		courses.GET("/:course", cfg.CatalogHandler.GetCourse)
		courses.GET("/:course/modules/:module", cfg.CatalogHandler.GetModule)
		courses.GET("/:course/modules/:module/lessons/:lesson", cfg.CatalogHandler.GetLesson)
	}
}
