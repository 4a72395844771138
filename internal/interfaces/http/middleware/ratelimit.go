package middleware

import (
	"github.com/gin-gonic/gin"

	"coursegate/internal/infrastructure/ratelimit"
	apperrors "coursegate/internal/shared/errors"
	"coursegate/internal/shared/logger"
	"coursegate/internal/shared/utils"
)

type RateLimiter struct {
	limiter ratelimit.Limiter
	logger  logger.Interface
}

func NewRateLimiter(limiter ratelimit.Limiter, logger logger.Interface) *RateLimiter {
	return &RateLimiter{limiter: limiter, logger: logger}
}

// Limit throttles requests sharing key(c) under scope. Redis errors let the
// request through.
func (r *RateLimiter) Limit(scope string, limit ratelimit.Limit, key func(c *gin.Context) string) gin.HandlerFunc {
	if !limit.Enabled() {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		allowed, err := r.limiter.Allow(c.Request.Context(), scope+":"+key(c), limit)
		if err != nil {
			r.logger.Warnw("rate limiter unavailable", "scope", scope, "error", err)
			c.Next()
			return
		}
		if !allowed {
			utils.ErrorResponseWithError(c, apperrors.NewRateLimitedError("too many requests", scope))
			c.Abort()
			return
		}
		c.Next()
	}
}

// ByViewer keys on the authenticated viewer, falling back to the client IP.
func ByViewer(c *gin.Context) string {
	if v := GetViewer(c); !v.IsAnonymous() {
		return v.ID
	}
	return c.ClientIP()
}

func ByParam(name string) func(c *gin.Context) string {
	return func(c *gin.Context) string {
		return c.Param(name)
	}
}
