package services

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"fruitgrader/internal/logger"
	"fruitgrader/internal/model"
)

type scriptedSource struct {
	results []sourceResult
	reads   int
	closed  bool
}

type sourceResult struct {
	sample model.Sample
	ok     bool
	err    error
}

func (s *scriptedSource) Next() (model.Sample, bool, error) {
	if s.reads >= len(s.results) {
		s.reads++
		return model.Sample{}, false, nil
	}
	r := s.results[s.reads]
	s.reads++
	return r.sample, r.ok, r.err
}

func (s *scriptedSource) Close() error {
	s.closed = true
	return nil
}

// countingSource also reports how many lines it rejected.
type countingSource struct {
	scriptedSource
	dropped int
}

func (s *countingSource) Dropped() int { return s.dropped }

type fixedPredictor float64

func (p fixedPredictor) Predict(model.Sample) float64 { return float64(p) }

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func TestMonitor_GateLimitsReads(t *testing.T) {
	sample := model.Sample{Ripeness: 3, PH: 6.5, Brix: 14.2, Softness: 7}
	src := &scriptedSource{results: []sourceResult{{sample, true, nil}, {sample, true, nil}}}

	var reported []model.Reading
	sink := ReadingSinkFunc(func(ctx context.Context, r model.Reading) error {
		reported = append(reported, r)
		return nil
	})

	m := NewMonitor(src, fixedPredictor(4.5), 4*time.Second, 0, logger.Discard(), sink)
	clock := &fakeClock{t: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)}
	m.now = clock.now

	ctx := context.Background()
	if _, ok, err := m.Tick(ctx); err != nil || !ok {
		t.Fatalf("First tick should report, ok=%v err=%v", ok, err)
	}

	clock.t = clock.t.Add(100 * time.Millisecond)
	if _, ok, _ := m.Tick(ctx); ok {
		t.Error("Tick inside the interval should not report")
	}
	if src.reads != 1 {
		t.Errorf("Read should be gated, got %d reads", src.reads)
	}

	clock.t = clock.t.Add(4 * time.Second)
	r, ok, err := m.Tick(ctx)
	if err != nil || !ok {
		t.Fatalf("Tick after the interval should report, ok=%v err=%v", ok, err)
	}
	if r.Quality != 4.5 || r.Sample != sample {
		t.Errorf("Unexpected reading %+v", r)
	}
	if len(reported) != 2 {
		t.Errorf("Expected 2 reports, got %d", len(reported))
	}
}

func TestMonitor_DroppedLineStillAdvancesGate(t *testing.T) {
	src := &scriptedSource{results: []sourceResult{{ok: false}}}
	m := NewMonitor(src, fixedPredictor(3), 4*time.Second, 0, logger.Discard())
	clock := &fakeClock{t: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)}
	m.now = clock.now

	if _, ok, err := m.Tick(context.Background()); ok || err != nil {
		t.Fatalf("Dropped line should be silent, ok=%v err=%v", ok, err)
	}

	clock.t = clock.t.Add(time.Second)
	m.Tick(context.Background())
	if src.reads != 1 {
		t.Errorf("Gate should stay closed after a dropped line, got %d reads", src.reads)
	}
}

func TestMonitor_ReadErrorEndsLoopAndCloses(t *testing.T) {
	boom := errors.New("port gone")
	src := &scriptedSource{results: []sourceResult{{err: boom}}}
	m := NewMonitor(src, fixedPredictor(3), 0, 0, logger.Discard())

	if err := m.Run(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("Expected read error, got %v", err)
	}
	if !src.closed {
		t.Error("Source should be closed after an error")
	}
}

func TestMonitor_CancelClosesSource(t *testing.T) {
	src := &scriptedSource{}
	m := NewMonitor(src, fixedPredictor(3), time.Hour, time.Millisecond, logger.Discard())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := m.Run(ctx); err != nil {
		t.Fatalf("Cancelled run should end cleanly, got %v", err)
	}
	if !src.closed {
		t.Error("Source should be closed on stop")
	}
	if src.reads != 1 {
		t.Errorf("Only the first gated read should happen within an hour, got %d", src.reads)
	}
}

func TestMonitor_SummaryIncludesDroppedLines(t *testing.T) {
	tests := []struct {
		name     string
		source   SampleSource
		expected string
	}{
		{"counting source", &countingSource{dropped: 3}, "(0 readings reported, 3 lines dropped)"},
		{"plain source", &scriptedSource{}, "(0 readings reported, 0 lines dropped)"},
	}

	for _, tt := range tests {
		var buf bytes.Buffer
		m := NewMonitor(tt.source, fixedPredictor(3), time.Hour, 0, logger.NewWriter(&buf))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if err := m.Run(ctx); err != nil {
			t.Fatalf("%s: Run failed: %v", tt.name, err)
		}
		if !strings.Contains(buf.String(), tt.expected) {
			t.Errorf("%s: summary missing %q in %q", tt.name, tt.expected, buf.String())
		}
	}
}
