package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"coursegate/internal/shared/version"
)

// HealthHandler reports liveness and whether the catalog cache has been populated.
type HealthHandler struct {
	catalog interface{ Len() int }
}

func NewHealthHandler(catalog interface{ Len() int }) *HealthHandler {
	return &HealthHandler{catalog: catalog}
}

// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	entries := h.catalog.Len()
	status := "ok"
	code := http.StatusOK
	if entries == 0 {
		status = "catalog_empty"
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{
		"status":          status,
		"catalog_entries": entries,
		"version":         version.Get().Version,
	})
}
