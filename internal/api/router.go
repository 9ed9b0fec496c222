package api

import (
	"github.com/gin-gonic/gin"

	"github.com/hoopsight/prospects/internal/api/handlers"
	"github.com/hoopsight/prospects/internal/api/middleware"
	"github.com/hoopsight/prospects/internal/services"
	"github.com/hoopsight/prospects/pkg/config"
)

// SetupRoutes configures all API routes on the given router group
func SetupRoutes(group *gin.RouterGroup, cfg *config.Config, dataset *services.DatasetService, refresher *services.RefresherService) {
	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(dataset)
	playerHandler := handlers.NewPlayerHandler(dataset)
	predictHandler := handlers.NewPredictHandler(dataset)
	datasetHandler := handlers.NewDatasetHandler(dataset, refresher)
	exportHandler := handlers.NewExportHandler(dataset)

	// Health endpoints
	group.GET("/health", healthHandler.GetHealth)
	group.GET("/ready", healthHandler.GetReady)

	// Player endpoints
	group.GET("/players", playerHandler.GetPlayers)
	group.GET("/players/:name", playerHandler.GetPlayer)

	// Dataset endpoints
	group.GET("/dataset/summary", datasetHandler.GetSummary)
	group.GET("/dataset/refresh-status", datasetHandler.GetRefreshStatus)
	group.POST("/dataset/rebuild", datasetHandler.Rebuild)
	group.GET("/dataset/export", exportHandler.ExportDataset)

	// Prediction endpoints, rate limited
	predictGroup := group.Group("")
	predictGroup.Use(middleware.RateLimit(cfg.PredictRateLimit, cfg.PredictRateBurst))
	{
		predictGroup.POST("/predict", predictHandler.Predict)
	}
	group.GET("/models", predictHandler.GetModels)
}
