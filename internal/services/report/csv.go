package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"fruitgrader/internal/model"
	"fruitgrader/internal/sensor"
)

// LatestCSV keeps a single-row CSV with the most recent sample, rewritten on
// every report, for spreadsheets and other tools polling the file.
type LatestCSV struct {
	path string
}

// NewLatestCSV creates the writer; the file appears on the first report.
func NewLatestCSV(path string) *LatestCSV {
	return &LatestCSV{path: path}
}

// Path returns the output file.
func (c *LatestCSV) Path() string {
	return c.path
}

// Report rewrites the file with the header and one row.
func (c *LatestCSV) Report(ctx context.Context, reading model.Reading) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	s := reading.Sample
	w.Write(sensor.Header)
	w.Write([]string{
		strconv.Itoa(s.Ripeness),
		strconv.FormatFloat(s.PH, 'f', -1, 64),
		strconv.FormatFloat(s.Brix, 'f', -1, 64),
		strconv.Itoa(s.Softness),
	})
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to encode csv: %w", err)
	}

	if dir := filepath.Dir(c.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(c.path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", c.path, err)
	}
	return nil
}
