package predictor

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// LinearRegression fits ordinary least squares over standardized features.
type LinearRegression struct {
	scaler    Scaler
	coef      []float64
	intercept float64
	fitted    bool
}

// NewLinearRegression returns an unfitted linear model.
func NewLinearRegression() *LinearRegression {
	return &LinearRegression{}
}

// Fit standardizes the features and solves the least-squares system with an
// intercept column.
func (m *LinearRegression) Fit(features [][]float64, target []float64) error {
	if len(features) == 0 || len(features) != len(target) {
		return fmt.Errorf("linear regression needs matching non-empty features and target, got %d/%d", len(features), len(target))
	}
	cols := len(features[0])
	if len(features) <= cols {
		return fmt.Errorf("linear regression needs more rows (%d) than features (%d)", len(features), cols)
	}

	m.scaler.Fit(features)
	scaled := m.scaler.TransformAll(features)

	a := mat.NewDense(len(scaled), cols+1, nil)
	for i, row := range scaled {
		a.Set(i, 0, 1)
		for j, v := range row {
			a.Set(i, j+1, v)
		}
	}
	y := mat.NewVecDense(len(target), append([]float64(nil), target...))

	var beta mat.VecDense
	if err := beta.SolveVec(a, y); err != nil {
		return fmt.Errorf("least squares solve failed: %w", err)
	}

	m.intercept = beta.AtVec(0)
	m.coef = make([]float64, cols)
	for j := 0; j < cols; j++ {
		m.coef[j] = beta.AtVec(j + 1)
	}
	m.fitted = true
	return nil
}

// Predict returns the fitted response for one raw (unscaled) feature vector.
func (m *LinearRegression) Predict(features []float64) (float64, error) {
	if !m.fitted {
		return 0, fmt.Errorf("linear regression is not fitted")
	}
	if len(features) != len(m.coef) {
		return 0, fmt.Errorf("expected %d features, got %d", len(m.coef), len(features))
	}
	scaled := m.scaler.Transform(features)
	out := m.intercept
	for j, v := range scaled {
		out += m.coef[j] * v
	}
	return out, nil
}
