package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"coursegate/internal/domain/entitlement"
	"coursegate/internal/infrastructure/auth"
	"coursegate/internal/shared/constants"
	"coursegate/internal/shared/logger"
	"coursegate/internal/shared/utils"
)

type TokenVerifier interface {
	Verify(token string) (*auth.ViewerClaims, error)
}

// ViewerMiddleware turns the session bearer token into an entitlement.Viewer.
type ViewerMiddleware struct {
	verifier TokenVerifier
	logger   logger.Interface
}

func NewViewerMiddleware(verifier TokenVerifier, logger logger.Interface) *ViewerMiddleware {
	return &ViewerMiddleware{
		verifier: verifier,
		logger:   logger,
	}
}

// OptionalViewer sets the anonymous viewer when no token is sent. A token that is
// present but invalid is rejected rather than silently downgraded.
func (m *ViewerMiddleware) OptionalViewer() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.Set(constants.ContextKeyViewer, entitlement.Anonymous())
			c.Next()
			return
		}
		m.authenticate(c, token)
	}
}

func (m *ViewerMiddleware) RequireViewer() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			utils.ErrorResponse(c, http.StatusUnauthorized, "missing authorization token")
			c.Abort()
			return
		}
		m.authenticate(c, token)
	}
}

// RequireAdmin must run after RequireViewer.
func (m *ViewerMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !GetViewer(c).IsAdmin() {
			utils.ErrorResponse(c, http.StatusForbidden, "administrator role required")
			c.Abort()
			return
		}
		c.Next()
	}
}

func (m *ViewerMiddleware) authenticate(c *gin.Context, token string) {
	claims, err := m.verifier.Verify(token)
	if err != nil {
		m.logger.Warnw("failed to verify token", "error", err, "path", c.Request.URL.Path)
		utils.ErrorResponse(c, http.StatusUnauthorized, "invalid or expired token")
		c.Abort()
		return
	}

	viewer := claims.Viewer()
	c.Set(constants.ContextKeyViewer, viewer)
	c.Set(constants.ContextKeyUserID, viewer.ID)
	c.Next()
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader(constants.HeaderAuthorization)
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// GetViewer returns the request viewer, anonymous when no middleware set one.
func GetViewer(c *gin.Context) entitlement.Viewer {
	if v, ok := c.Get(constants.ContextKeyViewer); ok {
		if viewer, ok := v.(entitlement.Viewer); ok {
			return viewer
		}
	}
	return entitlement.Anonymous()
}
