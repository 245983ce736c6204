package report

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"fruitgrader/internal/model"
)

func TestConsole_PresentOnlyWithVerdict(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)

	c.Present(context.Background(), model.Inspection{})
	if buf.Len() != 0 {
		t.Errorf("Expected no output without a verdict, got %q", buf.String())
	}

	err := c.Present(context.Background(), model.Inspection{
		Left:       model.CameraResult{Camera: "0", Label: "fresh", Detected: true},
		Right:      model.CameraResult{Camera: "1", Label: "defect_A", Detected: true},
		Verdict:    model.VerdictRotten,
		HasVerdict: true,
	})
	if err != nil {
		t.Fatalf("Present failed: %v", err)
	}
	if !strings.Contains(buf.String(), "Final quality of the orange: rotten") {
		t.Errorf("Unexpected output %q", buf.String())
	}
	if !strings.Contains(buf.String(), "camera 1: defect_A") {
		t.Errorf("Expected per-camera labels, got %q", buf.String())
	}
}

func TestConsole_Report(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)

	err := c.Report(context.Background(), model.Reading{
		Timestamp: time.Date(2025, 6, 15, 14, 30, 5, 0, time.UTC),
		Sample:    model.Sample{Ripeness: 3, PH: 6.5, Brix: 14.2, Softness: 7},
		Quality:   4.5,
	})
	if err != nil {
		t.Fatalf("Report failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"Time: 2025-06-15 14:30:05",
		"  Ripeness: 3",
		"  pH: 6.50",
		"  Brix: 14.20",
		"  Softness: 7",
		"Predicted Quality: 4.5/5.0",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in output %q", want, out)
		}
	}
}

func TestLatestCSV_RewritesSingleRow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "sensor_data.csv")
	w := NewLatestCSV(path)

	for _, s := range []model.Sample{
		{Ripeness: 3, PH: 6.5, Brix: 14.2, Softness: 7},
		{Ripeness: 4, PH: 3.9, Brix: 12, Softness: 2},
	} {
		if err := w.Report(context.Background(), model.Reading{Sample: s}); err != nil {
			t.Fatalf("Report failed: %v", err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	expected := "Ripeness,pH,Brix,Softness\n4,3.9,12,2\n"
	if string(data) != expected {
		t.Errorf("CSV = %q, expected %q", data, expected)
	}
}
