package predictor

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// deterministic value stream for synthetic feature matrices
type valueStream struct{ state uint64 }

func (s *valueStream) next() float64 {
	s.state = s.state*6364136223846793005 + 1442695040888963407
	return float64(s.state>>33%1000) / 100.0
}

func syntheticMatrix(rows, cols int) [][]float64 {
	stream := &valueStream{state: 42}
	x := make([][]float64, rows)
	for i := range x {
		x[i] = make([]float64, cols)
		for j := range x[i] {
			x[i][j] = stream.next()
		}
	}
	return x
}

func TestScalerStandardizes(t *testing.T) {
	x := [][]float64{{1, 5}, {3, 5}, {5, 5}}
	var s Scaler
	s.Fit(x)

	scaled := s.TransformAll(x)
	// first column: mean 3, population std sqrt(8/3)
	std := math.Sqrt(8.0 / 3.0)
	assert.InDelta(t, -2/std, scaled[0][0], 1e-12)
	assert.InDelta(t, 0, scaled[1][0], 1e-12)
	assert.InDelta(t, 2/std, scaled[2][0], 1e-12)
	// constant column: zero std falls back to 1, so it centers to zero
	for i := range scaled {
		assert.Equal(t, 0.0, scaled[i][1])
	}
}

func TestLinearRegressionRecoversExactRelation(t *testing.T) {
	x := syntheticMatrix(8, 3)
	y := make([]float64, len(x))
	for i, row := range x {
		y[i] = 2 + 1*row[0] - 3*row[1] + 0.5*row[2]
	}

	m := NewLinearRegression()
	require.NoError(t, m.Fit(x, y))

	for i, row := range x {
		got, err := m.Predict(row)
		require.NoError(t, err)
		assert.InDelta(t, y[i], got, 1e-8)
	}

	// the fit is exact, so it extrapolates the same relation
	got, err := m.Predict([]float64{1, 2, 3})
	require.NoError(t, err)
	assert.InDelta(t, 2+1-6+1.5, got, 1e-8)
}

func TestLinearRegressionInputValidation(t *testing.T) {
	m := NewLinearRegression()
	assert.Error(t, m.Fit(nil, nil))
	assert.Error(t, m.Fit([][]float64{{1}}, []float64{1, 2}))
	// as many rows as features leaves no degrees of freedom
	assert.Error(t, m.Fit([][]float64{{1, 2}, {3, 4}}, []float64{1, 2}))

	_, err := m.Predict([]float64{1})
	assert.Error(t, err, "predicting before fitting must fail")

	require.NoError(t, m.Fit(syntheticMatrix(5, 2), []float64{1, 2, 3, 4, 5}))
	_, err = m.Predict([]float64{1})
	assert.Error(t, err, "feature width must match the fit")
}

func TestDecisionTreeSplitsStepFunction(t *testing.T) {
	x := [][]float64{{0}, {1}, {2}, {3}}
	y := []float64{0, 0, 10, 10}

	tree := NewDecisionTree(3)
	require.NoError(t, tree.Fit(x, y))

	for i, row := range x {
		got, err := tree.Predict(row)
		require.NoError(t, err)
		assert.Equal(t, y[i], got)
	}

	got, err := tree.Predict([]float64{-5})
	require.NoError(t, err)
	assert.Equal(t, 0.0, got)
	got, err = tree.Predict([]float64{100})
	require.NoError(t, err)
	assert.Equal(t, 10.0, got)
}

func TestDecisionTreeConstantTarget(t *testing.T) {
	x := [][]float64{{0}, {1}, {2}}
	y := []float64{7, 7, 7}

	tree := NewDecisionTree(3)
	require.NoError(t, tree.Fit(x, y))

	got, err := tree.Predict([]float64{1.5})
	require.NoError(t, err)
	assert.Equal(t, 7.0, got)
}

func TestDecisionTreeDeterministic(t *testing.T) {
	x := syntheticMatrix(20, 4)
	y := make([]float64, len(x))
	for i, row := range x {
		y[i] = row[0]*row[1] - row[2]
	}

	first := NewDecisionTree(3)
	second := NewDecisionTree(3)
	require.NoError(t, first.Fit(x, y))
	require.NoError(t, second.Fit(x, y))

	probe := []float64{2, 4, 1, 9}
	a, err := first.Predict(probe)
	require.NoError(t, err)
	b, err := second.Predict(probe)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestDecisionTreeValidation(t *testing.T) {
	tree := NewDecisionTree(3)
	assert.Error(t, tree.Fit(nil, nil))

	_, err := tree.Predict([]float64{1})
	assert.Error(t, err, "predicting before fitting must fail")
}

func TestRMSE(t *testing.T) {
	assert.Equal(t, 0.0, RMSE([]float64{1, 2, 3}, []float64{1, 2, 3}))
	assert.InDelta(t, math.Sqrt(2), RMSE([]float64{1, 2}, []float64{3, 2}), 1e-12)
	assert.True(t, math.IsNaN(RMSE(nil, nil)))
	assert.True(t, math.IsNaN(RMSE([]float64{1}, []float64{1, 2})))
}

func TestRSquared(t *testing.T) {
	assert.Equal(t, 1.0, RSquared([]float64{1, 2, 3}, []float64{1, 2, 3}))

	// predicting the mean everywhere scores exactly zero
	assert.InDelta(t, 0.0, RSquared([]float64{2, 2, 2}, []float64{1, 2, 3}), 1e-12)

	assert.True(t, math.IsNaN(RSquared([]float64{1, 2}, []float64{5, 5})), "zero-variance actuals are undefined")
	assert.True(t, math.IsNaN(RSquared(nil, nil)))
}
