package regression

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Ridge is L2-regularised least squares with an unpenalised intercept.
type Ridge struct {
	Alpha     float64
	Coef      []float64
	Intercept float64
}

// Fit solves (XcᵀXc + αI)w = Xcᵀyc on centred data.
func (r *Ridge) Fit(x [][]float64, y []float64) error {
	if len(x) == 0 || len(x) != len(y) {
		return errors.New("ridge: mismatched or empty training data")
	}
	n, p := len(x), len(x[0])

	xMean := make([]float64, p)
	for _, row := range x {
		for j, v := range row {
			xMean[j] += v / float64(n)
		}
	}
	yMean := stat.Mean(y, nil)

	xc := mat.NewDense(n, p, nil)
	yc := mat.NewVecDense(n, nil)
	for i, row := range x {
		for j, v := range row {
			xc.Set(i, j, v-xMean[j])
		}
		yc.SetVec(i, y[i]-yMean)
	}

	var gram mat.Dense
	gram.Mul(xc.T(), xc)
	for j := 0; j < p; j++ {
		gram.Set(j, j, gram.At(j, j)+r.Alpha)
	}

	var rhs mat.VecDense
	rhs.MulVec(xc.T(), yc)

	var w mat.VecDense
	if err := w.SolveVec(&gram, &rhs); err != nil {
		return fmt.Errorf("ridge: solve failed: %w", err)
	}

	r.Coef = make([]float64, p)
	r.Intercept = yMean
	for j := 0; j < p; j++ {
		r.Coef[j] = w.AtVec(j)
		r.Intercept -= r.Coef[j] * xMean[j]
	}
	return nil
}

// Predict evaluates the linear model on one row.
func (r *Ridge) Predict(row []float64) float64 {
	v := r.Intercept
	for j, c := range r.Coef {
		v += c * row[j]
	}
	return v
}
