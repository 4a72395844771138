package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	subscriptionUsecases "coursegate/internal/application/subscription/usecases"
	"coursegate/internal/domain/subscription"
	"coursegate/internal/interfaces/http/middleware"
	"coursegate/internal/shared/logger"
	"coursegate/internal/shared/utils"
)

type SubscriptionHandler struct {
	reconcileUC ReconcileExecutor
	listUC      ListUserSubscriptionsExecutor
	grantUC     GrantManualSubscriptionExecutor
	logger      logger.Interface
}

func NewSubscriptionHandler(
	reconcileUC ReconcileExecutor,
	listUC ListUserSubscriptionsExecutor,
	grantUC GrantManualSubscriptionExecutor,
	logger logger.Interface,
) *SubscriptionHandler {
	return &SubscriptionHandler{
		reconcileUC: reconcileUC,
		listUC:      listUC,
		grantUC:     grantUC,
		logger:      logger,
	}
}

// Reconcile is the login hook. By default it answers 202 and reconciles in the
// background; ?wait=true reconciles inline and returns the per-provider outcome.
//
// POST /me/reconcile
func (h *SubscriptionHandler) Reconcile(c *gin.Context) {
	viewer := middleware.GetViewer(c)
	user := subscription.User{ID: viewer.ID, Email: viewer.Email, PhoneNumber: viewer.PhoneNumber}

	wait, _ := strconv.ParseBool(c.Query("wait"))
	if !wait {
		h.reconcileUC.ReconcileAsync(user)
		utils.SuccessResponse(c, http.StatusAccepted, "reconciliation started", nil)
		return
	}

	result, err := h.reconcileUC.Execute(c.Request.Context(), subscriptionUsecases.ReconcileCommand{User: user})
	if err != nil {
		h.logger.Errorw("reconcile failed", "user_id", user.ID, "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// GET /me/subscriptions
func (h *SubscriptionHandler) ListMine(c *gin.Context) {
	h.list(c, middleware.GetViewer(c).ID, false)
}

// GET /admin/users/:user/subscriptions
func (h *SubscriptionHandler) ListForUser(c *gin.Context) {
	includeSentinels, _ := strconv.ParseBool(c.Query("include_sentinels"))
	h.list(c, c.Param("user"), includeSentinels)
}

func (h *SubscriptionHandler) list(c *gin.Context, userID string, includeSentinels bool) {
	result, err := h.listUC.Execute(c.Request.Context(), subscriptionUsecases.ListUserSubscriptionsQuery{
		UserID:           userID,
		IncludeSentinels: includeSentinels,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", result)
}

type GrantManualSubscriptionRequest struct {
	UserID     string     `json:"user_id" validate:"required,max=64"`
	Email      string     `json:"email" validate:"omitempty,email"`
	CourseSlug string     `json:"course_slug" validate:"required,slug,max=128"`
	Reference  string     `json:"reference" validate:"omitempty,max=128"`
	ExpiresAt  *time.Time `json:"expires_at"`
}

// POST /admin/subscriptions
func (h *SubscriptionHandler) GrantManual(c *gin.Context) {
	var req GrantManualSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.grantUC.Execute(c.Request.Context(), subscriptionUsecases.GrantManualSubscriptionCommand{
		UserID:     req.UserID,
		Email:      req.Email,
		CourseSlug: req.CourseSlug,
		Reference:  req.Reference,
		ExpiresAt:  req.ExpiresAt,
	})
	if err != nil {
		h.logger.Errorw("failed to grant manual subscription", "user_id", req.UserID, "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusCreated, "subscription granted", result)
}
