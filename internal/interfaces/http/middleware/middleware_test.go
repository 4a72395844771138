package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coursegate/internal/domain/entitlement"
	"coursegate/internal/infrastructure/auth"
	"coursegate/internal/shared/constants"
	"coursegate/internal/shared/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestEngine(jwt *auth.JWTService) *gin.Engine {
	m := NewViewerMiddleware(jwt, logger.NewNop())
	r := gin.New()
	r.Use(RequestID())
	echo := func(c *gin.Context) {
		v := GetViewer(c)
		c.JSON(http.StatusOK, gin.H{"id": v.ID, "admin": v.IsAdmin()})
	}
	r.GET("/open", m.OptionalViewer(), echo)
	r.GET("/me", m.RequireViewer(), echo)
	r.GET("/admin", m.RequireViewer(), m.RequireAdmin(), echo)
	return r
}

func do(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestViewerMiddleware(t *testing.T) {
	jwt := auth.NewJWTService("secret", "")
	r := newTestEngine(jwt)

	student, err := jwt.Issue(entitlement.Viewer{ID: "u1", Roles: []string{constants.RoleStudent}}, time.Hour)
	require.NoError(t, err)
	admin, err := jwt.Issue(entitlement.Viewer{ID: "a1", Roles: []string{constants.RoleAdmin}}, time.Hour)
	require.NoError(t, err)

	w := do(r, "/open", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":"","admin":false}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(constants.HeaderXRequestID))

	w = do(r, "/open", student)
	assert.JSONEq(t, `{"id":"u1","admin":false}`, w.Body.String())

	assert.Equal(t, http.StatusUnauthorized, do(r, "/open", "garbage").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "/me", "").Code)
	assert.Equal(t, http.StatusForbidden, do(r, "/admin", student).Code)
	assert.Equal(t, http.StatusOK, do(r, "/admin", admin).Code)
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"https://app.example.com"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "https://app.example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
