package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/hoopsight/prospects/internal/predictor"
	"github.com/hoopsight/prospects/internal/services"
	"github.com/hoopsight/prospects/pkg/utils"
)

type PredictHandler struct {
	dataset *services.DatasetService
}

func NewPredictHandler(dataset *services.DatasetService) *PredictHandler {
	return &PredictHandler{
		dataset: dataset,
	}
}

// PredictRequest selects a model and either a known player or a manually
// entered feature map keyed by feature name.
type PredictRequest struct {
	Model    string             `json:"model" binding:"required,oneof=linear tree"`
	Player   string             `json:"player"`
	Features map[string]float64 `json:"features"`
}

// PredictResponse carries the score plus the model's training accuracy.
type PredictResponse struct {
	Model     string            `json:"model"`
	Player    string            `json:"player,omitempty"`
	Predicted float64           `json:"predicted_win_shares"`
	Summary   predictor.Summary `json:"summary"`
	Features  []float64         `json:"features"`
}

// Predict estimates a career-success score from a selected player's row or
// a manually entered stat line. Features omitted from a manual request fall
// back to the training-set mean, like the dashboard's prefilled inputs.
func (h *PredictHandler) Predict(c *gin.Context) {
	var req PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}

	ds := h.dataset.Current()
	if ds == nil || ds.Estimator == nil {
		utils.SendUnavailable(c, "Models are not trained yet")
		return
	}

	var vec []float64
	if req.Player != "" {
		features, ok := h.dataset.PlayerFeatures(req.Player)
		if !ok {
			utils.SendNotFound(c, "Player not found")
			return
		}
		vec = features
	} else {
		names := ds.Estimator.Features()
		means := ds.Estimator.FeatureMeans()
		vec = make([]float64, len(names))
		for j, n := range names {
			if v, ok := req.Features[n]; ok {
				vec[j] = v
			} else if j < len(means) {
				vec[j] = means[j]
			}
		}
	}

	score, summary, err := h.dataset.Predict(req.Model, vec)
	if err != nil {
		utils.SendInternalError(c, "Prediction failed")
		return
	}

	utils.SendSuccess(c, PredictResponse{
		Model:     req.Model,
		Player:    req.Player,
		Predicted: score,
		Summary:   summary,
		Features:  vec,
	})
}

// GetModels returns training accuracy for every available model.
func (h *PredictHandler) GetModels(c *gin.Context) {
	ds := h.dataset.Current()
	if ds == nil || ds.Estimator == nil {
		utils.SendUnavailable(c, "Models are not trained yet")
		return
	}
	utils.SendSuccess(c, ds.Estimator.Summaries())
}
