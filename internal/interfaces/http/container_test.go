package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"coursegate/internal/domain/entitlement"
	"coursegate/internal/infrastructure/auth"
	"coursegate/internal/infrastructure/config"
	"coursegate/internal/infrastructure/persistence/models"
	sharedConfig "coursegate/internal/shared/config"
	"coursegate/internal/shared/constants"
	"coursegate/internal/shared/logger"
)

const testJWTSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func setupContainer(t *testing.T) (*Container, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(models.All()...))

	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})

	plansFile := filepath.Join(t.TempDir(), "plans.yaml")
	require.NoError(t, os.WriteFile(plansFile, []byte("recurring:\n  plan_mensal: escola-online\n"), 0o600))

	cfg := &config.Config{
		Auth:      sharedConfig.AuthConfig{JWTSecret: testJWTSecret},
		PlansFile: plansFile,
		Providers: sharedConfig.ProvidersConfig{
			Recurring: sharedConfig.ProviderConfig{
				Enabled:       true,
				BaseURL:       "http://127.0.0.1:0",
				DefaultCourse: "escola-online",
				WebhookSecret: "hook-secret",
			},
		},
	}

	c, err := NewContainer(db, client, cfg, logger.NewNop())
	require.NoError(t, err)
	c.SetupRoutes()
	t.Cleanup(c.Shutdown)
	return c, db
}

func seedLesson(t *testing.T, db *gorm.DB) {
	t.Helper()
	course := &models.CourseModel{NodeFields: models.NodeFields{Slug: "escola-online", Name: "Escola Online", Published: true}}
	require.NoError(t, db.Create(course).Error)
	mod := &models.ModuleModel{NodeFields: models.NodeFields{Slug: "modulo-1", Name: "Módulo 1", Published: true}}
	require.NoError(t, db.Create(mod).Error)
	require.NoError(t, db.Create(&models.CourseModuleModel{CourseID: course.ID, ModuleID: mod.ID, SortOrder: 1, Published: true}).Error)
	lesson := &models.LessonModel{NodeFields: models.NodeFields{Slug: "aula-1", Name: "Aula 1", Published: true, Content: "# Bem-vindo"}}
	require.NoError(t, db.Create(lesson).Error)
	require.NoError(t, db.Create(&models.ModuleLessonModel{ModuleID: mod.ID, LessonID: lesson.ID, SortOrder: 1, Published: true}).Error)
}

func token(t *testing.T, viewer entitlement.Viewer) string {
	t.Helper()
	tok, err := auth.NewJWTService(testJWTSecret, "").Issue(viewer, time.Hour)
	require.NoError(t, err)
	return tok
}

func request(c *Container, method, path, bearer string, body []byte, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set(constants.HeaderAuthorization, "Bearer "+bearer)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	c.Engine().ServeHTTP(w, req)
	return w
}

type lessonEnvelope struct {
	Data struct {
		HasAccess bool   `json:"has_access"`
		Content   string `json:"content"`
	} `json:"data"`
}

func TestContainer_LessonAccessFollowsManualGrant(t *testing.T) {
	c, db := setupContainer(t)
	seedLesson(t, db)
	require.NoError(t, c.Start(context.Background()))

	const lessonPath = "/courses/escola-online/modules/modulo-1/lessons/aula-1"
	student := entitlement.Viewer{ID: "u1", Email: "u1@example.com", Roles: []string{constants.RoleStudent}}
	admin := entitlement.Viewer{ID: "a1", Email: "a1@example.com", Roles: []string{constants.RoleAdmin}}

	w := request(c, http.MethodGet, lessonPath, "", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var anon lessonEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &anon))
	assert.False(t, anon.Data.HasAccess)
	assert.NotContains(t, anon.Data.Content, "Bem-vindo")

	w = request(c, http.MethodGet, lessonPath, token(t, student), nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var before lessonEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &before))
	assert.False(t, before.Data.HasAccess)

	grant := []byte(`{"user_id":"u1","email":"u1@example.com","course_slug":"escola-online"}`)
	w = request(c, http.MethodPost, "/admin/subscriptions", token(t, student), grant, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = request(c, http.MethodPost, "/admin/subscriptions", token(t, admin), grant, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = request(c, http.MethodGet, lessonPath, token(t, student), nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var after lessonEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &after))
	assert.True(t, after.Data.HasAccess)
	assert.Contains(t, after.Data.Content, "Bem-vindo")
}

func TestContainer_Routes(t *testing.T) {
	c, _ := setupContainer(t)

	w := request(c, http.MethodGet, "/health", "", nil, nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code, "catalog not populated yet")

	w = request(c, http.MethodGet, "/courses/escola-online", "", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = request(c, http.MethodPost, "/me/reconcile", "", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = request(c, http.MethodGet, "/courses/escola-online", "not-a-jwt", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = request(c, http.MethodGet, "/metrics", "", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = request(c, http.MethodPost, "/webhooks/installment", "", []byte(`{}`), nil)
	assert.Equal(t, http.StatusNotFound, w.Code, "installment is disabled")

	w = request(c, http.MethodPost, "/webhooks/recurring", "", []byte(`{}`), map[string]string{
		constants.HeaderWebhookSecret: "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
