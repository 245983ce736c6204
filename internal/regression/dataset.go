package regression

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// FeatureColumns are matched against the dataset header by name prefix, so
// "Ripeness (1-5)" and "pH (Acidity)" are accepted. Order here is the order
// samples are fed to the model.
var FeatureColumns = []string{"Ripeness", "pH", "Brix", "Softness"}

// TargetColumn is the quality score column.
const TargetColumn = "Quality"

// Dataset is a feature matrix with its targets, one row per fruit.
type Dataset struct {
	X [][]float64
	Y []float64
}

// Len returns the number of rows.
func (d *Dataset) Len() int { return len(d.Y) }

// LoadDataset reads the reference CSV. Columns that are neither features nor
// the target are ignored.
func LoadDataset(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	ds, err := ReadDataset(f)
	if err != nil {
		return nil, fmt.Errorf("dataset %s: %w", path, err)
	}
	return ds, nil
}

// ReadDataset parses CSV from r.
func ReadDataset(r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	featureIdx := make([]int, len(FeatureColumns))
	for i, name := range FeatureColumns {
		idx := findColumn(header, name)
		if idx < 0 {
			return nil, fmt.Errorf("missing feature column %q", name)
		}
		featureIdx[i] = idx
	}
	targetIdx := findColumn(header, TargetColumn)
	if targetIdx < 0 {
		return nil, fmt.Errorf("missing target column %q", TargetColumn)
	}

	ds := &Dataset{}
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		row := make([]float64, len(featureIdx))
		for i, idx := range featureIdx {
			v, err := strconv.ParseFloat(strings.TrimSpace(record[idx]), 64)
			if err != nil {
				return nil, fmt.Errorf("line %d column %q: %w", line, header[idx], err)
			}
			row[i] = v
		}
		y, err := strconv.ParseFloat(strings.TrimSpace(record[targetIdx]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d column %q: %w", line, header[targetIdx], err)
		}

		ds.X = append(ds.X, row)
		ds.Y = append(ds.Y, y)
	}

	if ds.Len() == 0 {
		return nil, errors.New("dataset has no rows")
	}
	return ds, nil
}

func findColumn(header []string, name string) int {
	for i, h := range header {
		h = strings.TrimSpace(h)
		if h == name || strings.HasPrefix(h, name+" ") || strings.HasPrefix(h, name+"(") {
			return i
		}
	}
	return -1
}
