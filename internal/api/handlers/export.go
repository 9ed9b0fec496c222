package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hoopsight/prospects/internal/services"
	"github.com/hoopsight/prospects/pkg/utils"
)

type ExportHandler struct {
	dataset *services.DatasetService
}

func NewExportHandler(dataset *services.DatasetService) *ExportHandler {
	return &ExportHandler{
		dataset: dataset,
	}
}

// ExportDataset downloads the reconciled player table as a delimited file.
func (h *ExportHandler) ExportDataset(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.dataset.Export(&buf); err != nil {
		utils.SendUnavailable(c, "Dataset has not been built yet")
		return
	}

	filename := fmt.Sprintf("nba_success_dataset_%s.csv", time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}
