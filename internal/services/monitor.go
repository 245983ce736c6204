package services

import (
	"context"
	"fmt"
	"time"

	"fruitgrader/internal/logger"
	"fruitgrader/internal/model"
	"fruitgrader/internal/sensor"

	"github.com/google/uuid"
)

// SampleSource yields parsed sensor samples. ok is false when the tick
// produced nothing usable.
type SampleSource interface {
	Next() (sample model.Sample, ok bool, err error)
	Close() error
}

// Predictor scores a sample.
type Predictor interface {
	Predict(sample model.Sample) float64
}

// Monitor runs the serial loop: gate, read, parse, predict, report.
type Monitor struct {
	source    SampleSource
	predictor Predictor
	sinks     []ReadingSink
	gate      *sensor.Gate
	poll      time.Duration
	logger    *logger.Logger
	sessionID string
	now       func() time.Time

	accepted int
}

// NewMonitor creates the loop. reportInterval bounds how often a line is
// read and reported; poll is the idle sleep between checks.
func NewMonitor(source SampleSource, predictor Predictor, reportInterval, poll time.Duration, logger *logger.Logger, sinks ...ReadingSink) *Monitor {
	return &Monitor{
		source:    source,
		predictor: predictor,
		sinks:     sinks,
		gate:      sensor.NewGate(reportInterval),
		poll:      poll,
		logger:    logger,
		sessionID: uuid.New().String(),
		now:       time.Now,
	}
}

// SessionID identifies this run in stored history.
func (m *Monitor) SessionID() string {
	return m.sessionID
}

// Run loops until ctx is cancelled or a read/report fails. The port is
// closed on every exit path.
func (m *Monitor) Run(ctx context.Context) error {
	defer func() {
		if err := m.source.Close(); err != nil {
			m.logger.Warning("Failed to close serial connection: %v", err)
		}
		dropped := 0
		if counter, ok := m.source.(interface{ Dropped() int }); ok {
			dropped = counter.Dropped()
		}
		m.logger.Info("Serial connection closed (%d readings reported, %d lines dropped)", m.accepted, dropped)
	}()

	m.logger.Info("Starting quality monitoring, session %s", m.sessionID)

	for {
		if ctx.Err() != nil {
			return nil
		}

		if _, _, err := m.Tick(ctx); err != nil {
			m.logger.Error("An error occurred: %v", err)
			return err
		}

		if m.poll > 0 {
			timer := time.NewTimer(m.poll)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil
			case <-timer.C:
			}
		}
	}
}

// Tick reads and reports at most one sample if the gate is open. reported
// is false when the gate was closed or the line was dropped.
func (m *Monitor) Tick(ctx context.Context) (reading model.Reading, reported bool, err error) {
	now := m.now()
	if !m.gate.Ready(now) {
		return model.Reading{}, false, nil
	}
	defer m.gate.Mark(now)

	sample, ok, err := m.source.Next()
	if err != nil {
		return model.Reading{}, false, err
	}
	if !ok {
		return model.Reading{}, false, nil
	}

	reading = model.Reading{
		ID:        uuid.New().String(),
		SessionID: m.sessionID,
		Timestamp: m.now(),
		Sample:    sample,
		Quality:   m.predictor.Predict(sample),
	}
	m.accepted++

	for _, sink := range m.sinks {
		if err := sink.Report(ctx, reading); err != nil {
			return reading, false, fmt.Errorf("reporting reading: %w", err)
		}
	}
	return reading, true, nil
}
