// Package predictor trains and serves the career-success models over the
// reconciled player table. The pipeline core only ever sees the Model
// fit/predict contract; everything about how the two regressors work stays
// behind it.
package predictor

import (
	"fmt"

	"github.com/hoopsight/prospects/internal/pipeline"
	"github.com/hoopsight/prospects/internal/table"
)

// Model is the estimator collaborator contract: fit on the reconciled
// table's feature matrix, predict a score for one feature vector.
type Model interface {
	Fit(features [][]float64, target []float64) error
	Predict(features []float64) (float64, error)
}

// Supported model names.
const (
	ModelLinear = "linear"
	ModelTree   = "tree"
)

// TargetColumn is the career-success label the models are trained against:
// the player's peak professional win shares.
const TargetColumn = pipeline.ColHighestWS

const treeDepth = 3

// DefaultFeatures returns the predictor columns, in training order.
func DefaultFeatures() []string {
	return []string{
		"stops",
		"bpm",
		"Rec Rank",
		"GP",
		"ftr",
		pipeline.ColEfficientUsage,
		pipeline.ColPointsPerMinute,
		pipeline.ColImpactPerUsage,
		pipeline.ColTwoWayImpact,
		pipeline.ColVersatilityScore,
	}
}

// Summary reports a model's training-set accuracy.
type Summary struct {
	Model    string  `json:"model"`
	RMSE     float64 `json:"rmse"`
	RSquared float64 `json:"r_squared"`
}

// Estimator owns the fitted models for one dataset build. Construct a fresh
// one per build; models are never retrained in place.
type Estimator struct {
	features  []string
	models    map[string]Model
	summaries map[string]Summary
	means     []float64
}

// NewEstimator extracts the feature matrix and target from the reconciled
// table and fits both models. Feature columns absent from the table read as
// zero, matching the reconciler's scrub policy.
func NewEstimator(reconciled *table.Table) (*Estimator, error) {
	if reconciled == nil || reconciled.Len() == 0 {
		return nil, fmt.Errorf("cannot train on an empty reconciled table")
	}

	features := DefaultFeatures()
	x := make([][]float64, 0, reconciled.Len())
	y := make([]float64, 0, reconciled.Len())
	for _, r := range reconciled.Rows() {
		vec := make([]float64, len(features))
		for j, col := range features {
			vec[j] = r.Get(col).FloatOr(0)
		}
		x = append(x, vec)
		y = append(y, r.Get(TargetColumn).FloatOr(0))
	}

	e := &Estimator{
		features:  features,
		models:    make(map[string]Model, 2),
		summaries: make(map[string]Summary, 2),
		means:     featureMeans(x),
	}

	linear := NewLinearRegression()
	if err := linear.Fit(x, y); err != nil {
		return nil, fmt.Errorf("failed to fit linear model: %w", err)
	}
	e.models[ModelLinear] = linear

	tree := NewDecisionTree(treeDepth)
	if err := tree.Fit(x, y); err != nil {
		return nil, fmt.Errorf("failed to fit tree model: %w", err)
	}
	e.models[ModelTree] = tree

	for name, m := range e.models {
		preds := make([]float64, len(x))
		for i, vec := range x {
			p, err := m.Predict(vec)
			if err != nil {
				return nil, fmt.Errorf("failed to evaluate %s model: %w", name, err)
			}
			preds[i] = p
		}
		e.summaries[name] = Summary{Model: name, RMSE: RMSE(preds, y), RSquared: RSquared(preds, y)}
	}
	return e, nil
}

// Features returns the predictor columns in training order.
func (e *Estimator) Features() []string {
	return append([]string(nil), e.features...)
}

// FeatureMeans returns the training-set mean of each feature, used as
// manual-entry defaults on the dashboard.
func (e *Estimator) FeatureMeans() []float64 {
	return append([]float64(nil), e.means...)
}

// Predict runs the named model over one feature vector ordered like
// Features().
func (e *Estimator) Predict(model string, features []float64) (float64, error) {
	m, ok := e.models[model]
	if !ok {
		return 0, fmt.Errorf("unknown model %q", model)
	}
	return m.Predict(features)
}

// Summary returns the named model's training accuracy.
func (e *Estimator) Summary(model string) (Summary, error) {
	s, ok := e.summaries[model]
	if !ok {
		return Summary{}, fmt.Errorf("unknown model %q", model)
	}
	return s, nil
}

// Summaries returns accuracy for every model, linear first.
func (e *Estimator) Summaries() []Summary {
	out := make([]Summary, 0, len(e.summaries))
	for _, name := range []string{ModelLinear, ModelTree} {
		if s, ok := e.summaries[name]; ok {
			out = append(out, s)
		}
	}
	return out
}

func featureMeans(x [][]float64) []float64 {
	if len(x) == 0 {
		return nil
	}
	means := make([]float64, len(x[0]))
	for _, row := range x {
		for j, v := range row {
			means[j] += v
		}
	}
	for j := range means {
		means[j] /= float64(len(x))
	}
	return means
}
