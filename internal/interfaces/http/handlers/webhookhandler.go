package handlers

import (
	"crypto/subtle"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	subscriptionUsecases "coursegate/internal/application/subscription/usecases"
	"coursegate/internal/shared/constants"
	"coursegate/internal/shared/logger"
	"coursegate/internal/shared/utils"
)

const maxWebhookBody = 1 << 20

// WebhookHandler accepts purchase notifications from the payment platforms.
type WebhookHandler struct {
	handleUC HandleWebhookExecutor
	// secrets maps provider name to the shared secret it sends in X-Webhook-Secret.
	secrets map[string]string
	logger  logger.Interface
}

func NewWebhookHandler(handleUC HandleWebhookExecutor, secrets map[string]string, logger logger.Interface) *WebhookHandler {
	return &WebhookHandler{
		handleUC: handleUC,
		secrets:  secrets,
		logger:   logger,
	}
}

// POST /webhooks/:provider
func (h *WebhookHandler) Handle(c *gin.Context) {
	provider := c.Param("provider")

	secret, ok := h.secrets[provider]
	if !ok || secret == "" {
		utils.ErrorResponse(c, http.StatusNotFound, "unknown webhook provider")
		return
	}
	sent := c.GetHeader(constants.HeaderWebhookSecret)
	if subtle.ConstantTimeCompare([]byte(sent), []byte(secret)) != 1 {
		h.logger.Warnw("webhook with invalid secret", "provider", provider, "client_ip", c.ClientIP())
		utils.ErrorResponse(c, http.StatusUnauthorized, "invalid webhook secret")
		return
	}

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody+1))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "failed to read body")
		return
	}
	if len(body) > maxWebhookBody {
		utils.ErrorResponse(c, http.StatusRequestEntityTooLarge, "webhook body too large")
		return
	}

	result, err := h.handleUC.Execute(c.Request.Context(), subscriptionUsecases.HandleWebhookCommand{
		Provider: provider,
		Payload:  body,
	})
	if err != nil {
		h.logger.Errorw("failed to handle webhook", "provider", provider, "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", result)
}
