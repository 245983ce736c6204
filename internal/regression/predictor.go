// Package regression scores sensor samples with a ridge model fitted at startup.
package regression

import (
	"fmt"
	"math"

	"fruitgrader/internal/model"

	"gonum.org/v1/gonum/stat"
)

// Score bounds of the quality scale.
const (
	MinScore = 1.0
	MaxScore = 5.0
)

// Options control the startup fit.
type Options struct {
	Alpha        float64
	TestFraction float64
	Seed         int64
}

// DefaultOptions matches the station's reference fit.
func DefaultOptions() Options {
	return Options{Alpha: 0.1, TestFraction: 0.3, Seed: 101}
}

// Metrics describe the fit on the held out rows.
type Metrics struct {
	TrainRows int
	TestRows  int
	R2        float64
	RMSE      float64
}

// Predictor holds the fitted scaler and model. It is read-only after Train
// and may be shared freely.
type Predictor struct {
	scaler *Scaler
	model  *Ridge
}

// NewPredictor assembles a predictor from already fitted parts.
func NewPredictor(scaler *Scaler, ridge *Ridge) *Predictor {
	return &Predictor{scaler: scaler, model: ridge}
}

// Train splits the dataset, fits scaler and ridge on the training rows and
// evaluates on the rest.
func Train(ds *Dataset, opts Options) (*Predictor, Metrics, error) {
	train, test := Split(ds, opts.TestFraction, opts.Seed)

	scaler, err := FitScaler(train.X)
	if err != nil {
		return nil, Metrics{}, err
	}

	ridge := &Ridge{Alpha: opts.Alpha}
	if err := ridge.Fit(scaler.TransformAll(train.X), train.Y); err != nil {
		return nil, Metrics{}, err
	}

	p := NewPredictor(scaler, ridge)
	metrics := Metrics{TrainRows: train.Len(), TestRows: test.Len()}
	if test.Len() > 0 {
		metrics.R2, metrics.RMSE = p.evaluate(test)
	}
	return p, metrics, nil
}

// TrainFromFile loads the reference CSV and trains on it.
func TrainFromFile(path string, opts Options) (*Predictor, Metrics, error) {
	ds, err := LoadDataset(path)
	if err != nil {
		return nil, Metrics{}, err
	}
	return Train(ds, opts)
}

func (p *Predictor) evaluate(ds *Dataset) (r2, rmse float64) {
	estimates := make([]float64, ds.Len())
	var sq float64
	for i, row := range ds.X {
		estimates[i] = p.model.Predict(p.scaler.Transform(row))
		d := estimates[i] - ds.Y[i]
		sq += d * d
	}
	return stat.RSquaredFrom(estimates, ds.Y, nil), math.Sqrt(sq / float64(ds.Len()))
}

// Features returns the sample in FeatureColumns order.
func Features(s model.Sample) []float64 {
	return []float64{float64(s.Ripeness), s.PH, s.Brix, float64(s.Softness)}
}

// Raw returns the unrounded model output.
func (p *Predictor) Raw(s model.Sample) float64 {
	return p.model.Predict(p.scaler.Transform(Features(s)))
}

// Predict returns the quality score rounded to the nearest half point and
// kept within [MinScore, MaxScore].
func (p *Predictor) Predict(s model.Sample) float64 {
	return RoundScore(p.Raw(s))
}

// RoundScore rounds to the nearest 0.5 (ties to even, as the reference
// implementation did) and clamps to the score range.
func RoundScore(v float64) float64 {
	score := math.RoundToEven(v*2) / 2
	return math.Max(MinScore, math.Min(MaxScore, score))
}

// FormatScore renders a score with one decimal place.
func FormatScore(score float64) string {
	return fmt.Sprintf("%.1f", score)
}
