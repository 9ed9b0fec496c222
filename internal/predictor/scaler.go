package predictor

import "math"

// Scaler standardizes features to zero mean and unit variance, column by
// column. Constant columns keep a unit divisor so they scale to zero
// instead of blowing up.
type Scaler struct {
	mean []float64
	std  []float64
}

// Fit computes per-column means and standard deviations.
func (s *Scaler) Fit(features [][]float64) {
	if len(features) == 0 {
		return
	}
	cols := len(features[0])
	s.mean = make([]float64, cols)
	s.std = make([]float64, cols)

	for _, row := range features {
		for j, v := range row {
			s.mean[j] += v
		}
	}
	n := float64(len(features))
	for j := range s.mean {
		s.mean[j] /= n
	}

	for _, row := range features {
		for j, v := range row {
			d := v - s.mean[j]
			s.std[j] += d * d
		}
	}
	for j := range s.std {
		s.std[j] = math.Sqrt(s.std[j] / n)
		if s.std[j] == 0 {
			s.std[j] = 1
		}
	}
}

// Transform returns the standardized copy of one feature vector.
func (s *Scaler) Transform(features []float64) []float64 {
	out := make([]float64, len(features))
	for j, v := range features {
		if j < len(s.mean) {
			out[j] = (v - s.mean[j]) / s.std[j]
		} else {
			out[j] = v
		}
	}
	return out
}

// TransformAll standardizes a whole feature matrix.
func (s *Scaler) TransformAll(features [][]float64) [][]float64 {
	out := make([][]float64, len(features))
	for i, row := range features {
		out[i] = s.Transform(row)
	}
	return out
}
