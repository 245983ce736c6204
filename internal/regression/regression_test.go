package regression

import (
	"math"
	"strings"
	"testing"

	"fruitgrader/internal/model"
)

const referenceCSV = `Size (cm),Weight (g),Brix (Sweetness),pH (Acidity),Softness (1-5),HarvestTime (days),Ripeness (1-5),Color,Variety,Blemishes (Y/N),Quality (1-5)
7.5,180,12.0,3.2,2,10,4,Orange,Valencia,N,4.0
8.2,220,10.5,3.4,3,14,3,Deep Orange,Navel,N,3.5
6.8,150,8.5,4.1,4,21,2,Light Orange,Cara Cara,Y (Minor),2.0
9.0,250,14.5,3.0,1,7,5,Orange-Red,Blood Orange,N,5.0
7.0,160,9.0,3.9,4,18,2,Yellow-Orange,Valencia,Y (Bruise),2.5
8.0,210,13.0,3.1,2,9,4,Orange,Navel,N,4.5
7.8,190,11.0,3.5,3,12,3,Orange,Hamlin,N,3.5
6.5,140,7.5,4.3,5,25,1,Light Orange,Valencia,Y (Sunburn),1.0
8.5,230,13.5,3.0,1,8,5,Deep Orange,Navel,N,5.0
7.2,170,10.0,3.7,3,15,3,Orange,Cara Cara,N,3.0
`

func TestReadDataset_MatchesColumnsByName(t *testing.T) {
	ds, err := ReadDataset(strings.NewReader(referenceCSV))
	if err != nil {
		t.Fatalf("ReadDataset failed: %v", err)
	}
	if ds.Len() != 10 {
		t.Fatalf("Expected 10 rows, got %d", ds.Len())
	}

	// Ripeness, pH, Brix, Softness regardless of CSV column order
	want := []float64{4, 3.2, 12.0, 2}
	for j, v := range want {
		if ds.X[0][j] != v {
			t.Errorf("Row 0 feature %s = %v, expected %v", FeatureColumns[j], ds.X[0][j], v)
		}
	}
	if ds.Y[0] != 4.0 {
		t.Errorf("Expected target 4.0, got %v", ds.Y[0])
	}
}

func TestReadDataset_Errors(t *testing.T) {
	tests := []struct {
		name string
		csv  string
	}{
		{"missing feature", "Ripeness,pH,Brix,Quality\n1,2,3,4\n"},
		{"missing target", "Ripeness,pH,Brix,Softness\n1,2,3,4\n"},
		{"non numeric", "Ripeness,pH,Brix,Softness,Quality\n1,acid,3,4,5\n"},
		{"no rows", "Ripeness,pH,Brix,Softness,Quality\n"},
	}

	for _, tt := range tests {
		if _, err := ReadDataset(strings.NewReader(tt.csv)); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}
}

func TestSplit_DeterministicAndComplete(t *testing.T) {
	ds, _ := ReadDataset(strings.NewReader(referenceCSV))

	train1, test1 := Split(ds, 0.3, 101)
	train2, test2 := Split(ds, 0.3, 101)

	if test1.Len() != 3 || train1.Len() != 7 {
		t.Fatalf("Expected 7/3 split, got %d/%d", train1.Len(), test1.Len())
	}
	for i := range test1.Y {
		if test1.Y[i] != test2.Y[i] || test1.X[i][0] != test2.X[i][0] {
			t.Fatal("Split with the same seed should be identical")
		}
	}
	if train2.Len()+test2.Len() != ds.Len() {
		t.Error("Split lost rows")
	}
}

func TestFitScaler(t *testing.T) {
	s, err := FitScaler([][]float64{{1, 5}, {2, 5}, {3, 5}})
	if err != nil {
		t.Fatalf("FitScaler failed: %v", err)
	}

	if s.Mean[0] != 2 || s.Mean[1] != 5 {
		t.Errorf("Unexpected means %v", s.Mean)
	}
	if math.Abs(s.Scale[0]-math.Sqrt(2.0/3.0)) > 1e-12 {
		t.Errorf("Expected population std, got %v", s.Scale[0])
	}
	if s.Scale[1] != 1 {
		t.Errorf("Constant column should have scale 1, got %v", s.Scale[1])
	}

	out := s.Transform([]float64{2, 5})
	if out[0] != 0 || out[1] != 0 {
		t.Errorf("Transform of the mean should be zero, got %v", out)
	}
}

func TestRidge_RecoversLinearModel(t *testing.T) {
	var x [][]float64
	var y []float64
	for i := 1; i <= 6; i++ {
		a, b := float64(i), float64(i*i%5)
		x = append(x, []float64{a, b})
		y = append(y, 2*a-0.5*b+1)
	}

	r := &Ridge{Alpha: 0}
	if err := r.Fit(x, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	if math.Abs(r.Coef[0]-2) > 1e-9 || math.Abs(r.Coef[1]+0.5) > 1e-9 || math.Abs(r.Intercept-1) > 1e-9 {
		t.Errorf("Unexpected fit coef=%v intercept=%v", r.Coef, r.Intercept)
	}
	if got := r.Predict([]float64{10, 0}); math.Abs(got-21) > 1e-9 {
		t.Errorf("Predict = %v, expected 21", got)
	}
}

func TestRidge_PenaltyShrinks(t *testing.T) {
	x := [][]float64{{-1}, {0}, {1}}
	y := []float64{-1, 0, 1}

	r := &Ridge{Alpha: 1}
	if err := r.Fit(x, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	// sum(x^2) = 2, so w = 2 / (2 + 1)
	if math.Abs(r.Coef[0]-2.0/3.0) > 1e-12 {
		t.Errorf("Expected shrunk coefficient 2/3, got %v", r.Coef[0])
	}
}

func TestRoundScore(t *testing.T) {
	tests := []struct {
		in, expected float64
	}{
		{3.2, 3.0},
		{3.3, 3.5},
		{2.25, 2.0},
		{2.75, 3.0},
		{4.74, 4.5},
		{7.3, 5.0},
		{-0.4, 1.0},
		{0.9, 1.0},
	}

	for _, tt := range tests {
		if got := RoundScore(tt.in); got != tt.expected {
			t.Errorf("RoundScore(%v) = %v, expected %v", tt.in, got, tt.expected)
		}
	}
}

func TestPredict_HalfPointsWithinRange(t *testing.T) {
	ds, err := ReadDataset(strings.NewReader(referenceCSV))
	if err != nil {
		t.Fatalf("ReadDataset failed: %v", err)
	}
	p, metrics, err := Train(ds, DefaultOptions())
	if err != nil {
		t.Fatalf("Train failed: %v", err)
	}
	if metrics.TrainRows != 7 || metrics.TestRows != 3 {
		t.Errorf("Unexpected metrics rows %+v", metrics)
	}

	samples := []model.Sample{
		{Ripeness: 3, PH: 6.5, Brix: 14.2, Softness: 7},
		{Ripeness: 5, PH: 3.0, Brix: 14.0, Softness: 1},
		{Ripeness: 1, PH: 4.4, Brix: 7.0, Softness: 5},
		{Ripeness: 99, PH: 0, Brix: 100, Softness: -20},
	}
	for _, s := range samples {
		score := p.Predict(s)
		if score < MinScore || score > MaxScore {
			t.Errorf("Predict(%+v) = %v outside [1,5]", s, score)
		}
		if doubled := score * 2; doubled != math.Trunc(doubled) {
			t.Errorf("Predict(%+v) = %v is not a half point", s, score)
		}
		if p.Predict(s) != score {
			t.Errorf("Predict(%+v) is not deterministic", s)
		}
	}
}

func TestPredict_OrdersFruitSensibly(t *testing.T) {
	ds, _ := ReadDataset(strings.NewReader(referenceCSV))
	p, _, err := Train(ds, Options{Alpha: 0.1})
	if err != nil {
		t.Fatalf("Train failed: %v", err)
	}

	good := p.Raw(model.Sample{Ripeness: 5, PH: 3.0, Brix: 14.5, Softness: 1})
	bad := p.Raw(model.Sample{Ripeness: 1, PH: 4.3, Brix: 7.5, Softness: 5})
	if good <= bad {
		t.Errorf("Expected ripe sweet fruit to score higher: good=%v bad=%v", good, bad)
	}
}

func TestFormatScore(t *testing.T) {
	if got := FormatScore(4.5); got != "4.5" {
		t.Errorf("FormatScore = %q", got)
	}
	if got := FormatScore(3); got != "3.0" {
		t.Errorf("FormatScore = %q", got)
	}
}
