package middleware

import (
	"errors"
	"net/http"
	"runtime/debug"
	"syscall"

	"github.com/gin-gonic/gin"

	"coursegate/internal/shared/constants"
	"coursegate/internal/shared/logger"
	"coursegate/internal/shared/utils"
)

// Recovery turns a handler panic into a 500. Panics caused by a client that
// went away are logged without a stack and get no response.
func Recovery(log logger.Interface) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		fields := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"request_id", c.GetString(constants.ContextKeyRequestID),
			"error", recovered,
		}

		if clientGone(recovered) {
			log.Warnw("client connection lost during request", fields...)
			c.Abort()
			return
		}

		log.Errorw("panic recovered", append(fields, "stack", string(debug.Stack()))...)
		utils.ErrorResponse(c, http.StatusInternalServerError, constants.ErrMsgInternalServerError)
	})
}

func clientGone(recovered any) bool {
	err, ok := recovered.(error)
	if !ok {
		return false
	}
	return errors.Is(err, syscall.EPIPE) || errors.Is(err, syscall.ECONNRESET) || errors.Is(err, http.ErrAbortHandler)
}

// ErrorHandler renders the last error a handler attached with c.Error, unless
// the handler already wrote a response.
func ErrorHandler(log logger.Interface) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err
		log.Errorw("handler error",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"error", err,
		)
		if !c.Writer.Written() {
			utils.ErrorResponseWithError(c, err)
		}
	}
}
