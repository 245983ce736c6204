package regression

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/stat"
)

// Scaler standardises features to zero mean and unit variance.
type Scaler struct {
	Mean  []float64
	Scale []float64
}

// FitScaler computes per-column mean and population standard deviation.
// Constant columns get a scale of 1.
func FitScaler(x [][]float64) (*Scaler, error) {
	if len(x) == 0 {
		return nil, errors.New("no rows to fit scaler")
	}
	cols := len(x[0])
	s := &Scaler{Mean: make([]float64, cols), Scale: make([]float64, cols)}

	column := make([]float64, len(x))
	n := float64(len(x))
	for j := 0; j < cols; j++ {
		for i, row := range x {
			column[i] = row[j]
		}
		mean, variance := stat.MeanVariance(column, nil)
		if len(x) > 1 {
			variance = variance * (n - 1) / n
		} else {
			variance = 0
		}

		s.Mean[j] = mean
		s.Scale[j] = math.Sqrt(variance)
		if s.Scale[j] == 0 {
			s.Scale[j] = 1
		}
	}
	return s, nil
}

// Transform returns a scaled copy of row.
func (s *Scaler) Transform(row []float64) []float64 {
	out := make([]float64, len(row))
	for j, v := range row {
		out[j] = (v - s.Mean[j]) / s.Scale[j]
	}
	return out
}

// TransformAll scales every row.
func (s *Scaler) TransformAll(x [][]float64) [][]float64 {
	out := make([][]float64, len(x))
	for i, row := range x {
		out[i] = s.Transform(row)
	}
	return out
}
