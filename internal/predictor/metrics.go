package predictor

import "math"

// RMSE is the root-mean-squared error between predictions and actuals.
func RMSE(predicted, actual []float64) float64 {
	if len(predicted) == 0 || len(predicted) != len(actual) {
		return math.NaN()
	}
	sum := 0.0
	for i := range predicted {
		d := predicted[i] - actual[i]
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(predicted)))
}

// RSquared is the coefficient of determination of predictions against
// actuals; 1 is a perfect fit, 0 matches always predicting the mean.
func RSquared(predicted, actual []float64) float64 {
	if len(predicted) == 0 || len(predicted) != len(actual) {
		return math.NaN()
	}
	meanActual := 0.0
	for _, v := range actual {
		meanActual += v
	}
	meanActual /= float64(len(actual))

	var residual, total float64
	for i := range actual {
		residual += (predicted[i] - actual[i]) * (predicted[i] - actual[i])
		total += (actual[i] - meanActual) * (actual[i] - meanActual)
	}
	if total == 0 {
		return math.NaN()
	}
	return 1 - residual/total
}
