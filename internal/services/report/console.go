// Package report prints verdicts and readings for a person watching the terminal.
package report

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"fruitgrader/internal/model"
	"fruitgrader/internal/regression"
)

const ruler = "=================================================="

// Console writes human readable lines to w.
type Console struct {
	w  io.Writer
	mu sync.Mutex
}

// NewConsole creates a console reporter.
func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

// Present prints the fused verdict. Ticks without a verdict print nothing.
func (c *Console) Present(ctx context.Context, inspection model.Inspection) error {
	if !inspection.HasVerdict {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	_, err := fmt.Fprintf(c.w, "Final quality of the orange: %s (camera %s: %s, camera %s: %s)\n",
		inspection.Verdict,
		inspection.Left.Camera, inspection.Left.Label,
		inspection.Right.Camera, inspection.Right.Label)
	return err
}

// Report prints the reading block.
func (c *Console) Report(ctx context.Context, reading model.Reading) error {
	var b strings.Builder
	s := reading.Sample

	fmt.Fprintf(&b, "\n%s\n", ruler)
	fmt.Fprintf(&b, "Time: %s\n", reading.Timestamp.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Sensor Readings:\n")
	fmt.Fprintf(&b, "  Ripeness: %d\n", s.Ripeness)
	fmt.Fprintf(&b, "  pH: %.2f\n", s.PH)
	fmt.Fprintf(&b, "  Brix: %.2f\n", s.Brix)
	fmt.Fprintf(&b, "  Softness: %d\n", s.Softness)
	fmt.Fprintf(&b, "Predicted Quality: %s/%s\n", regression.FormatScore(reading.Quality), regression.FormatScore(regression.MaxScore))
	fmt.Fprintf(&b, "%s\n", ruler)

	c.mu.Lock()
	defer c.mu.Unlock()

	_, err := io.WriteString(c.w, b.String())
	return err
}
