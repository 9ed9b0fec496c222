package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/hoopsight/prospects/internal/services"
	"github.com/hoopsight/prospects/pkg/utils"
)

type DatasetHandler struct {
	dataset   *services.DatasetService
	refresher *services.RefresherService
}

func NewDatasetHandler(dataset *services.DatasetService, refresher *services.RefresherService) *DatasetHandler {
	return &DatasetHandler{
		dataset:   dataset,
		refresher: refresher,
	}
}

// GetSummary describes the current build: size, feature means for manual
// entry defaults, and model accuracy.
func (h *DatasetHandler) GetSummary(c *gin.Context) {
	summary, err := h.dataset.Summary()
	if err != nil {
		utils.SendUnavailable(c, "Dataset has not been built yet")
		return
	}
	utils.SendSuccess(c, summary)
}

// Rebuild triggers a background dataset rebuild.
func (h *DatasetHandler) Rebuild(c *gin.Context) {
	h.refresher.RebuildNow()
	utils.SendSuccess(c, gin.H{"status": "rebuild started"})
}

// GetRefreshStatus reports the scheduled refresher's state.
func (h *DatasetHandler) GetRefreshStatus(c *gin.Context) {
	utils.SendSuccess(c, h.refresher.Status())
}
