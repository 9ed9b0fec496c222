package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hoopsight/prospects/internal/services"
)

type HealthHandler struct {
	dataset *services.DatasetService
}

func NewHealthHandler(dataset *services.DatasetService) *HealthHandler {
	return &HealthHandler{
		dataset: dataset,
	}
}

// GetHealth returns basic health status - always returns 200 if server is running
func (h *HealthHandler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "prospects",
	})
}

// GetReady returns readiness - 200 only once a dataset build is being served
func (h *HealthHandler) GetReady(c *gin.Context) {
	ds := h.dataset.Current()
	if ds == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not_ready",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":   "ready",
		"build_id": ds.BuildID,
		"built_at": ds.BuiltAt,
		"players":  ds.Table.Len(),
	})
}
