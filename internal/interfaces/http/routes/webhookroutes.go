package routes

import (
	"github.com/gin-gonic/gin"

	"coursegate/internal/interfaces/http/handlers"
)

type WebhookRouteConfig struct {
	WebhookHandler *handlers.WebhookHandler
	WebhookLimit   gin.HandlerFunc
}

// SetupWebhookRoutes configures provider callbacks. They carry no bearer token;
// the handler checks the per-provider shared secret.
func SetupWebhookRoutes(engine *gin.Engine, cfg *WebhookRouteConfig) {
	engine.POST("/webhooks/:provider", cfg.WebhookLimit, cfg.WebhookHandler.Handle)
}
