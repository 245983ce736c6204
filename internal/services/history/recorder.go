// Package history stores verdicts and readings through the repositories.
package history

import (
	"context"
	"fmt"

	"fruitgrader/internal/model"
	"fruitgrader/internal/repository"

	"github.com/google/uuid"
)

// Recorder is a presentation sink that persists what the loops produce.
// Ticks without a verdict are not stored.
type Recorder struct {
	inspections repository.InspectionRepository
	readings    repository.ReadingRepository
}

// NewRecorder creates a recorder. Either repository may be nil when only one
// loop runs.
func NewRecorder(inspections repository.InspectionRepository, readings repository.ReadingRepository) *Recorder {
	return &Recorder{inspections: inspections, readings: readings}
}

// Present stores a fused verdict.
func (r *Recorder) Present(ctx context.Context, inspection model.Inspection) error {
	if r.inspections == nil || !inspection.HasVerdict {
		return nil
	}

	rec := &model.InspectionRecord{
		UUID:        recordID(inspection.ID),
		SessionID:   inspection.SessionID,
		Timestamp:   inspection.Timestamp,
		LeftCamera:  inspection.Left.Camera,
		LeftLabel:   string(inspection.Left.Label),
		RightCamera: inspection.Right.Camera,
		RightLabel:  string(inspection.Right.Label),
		Verdict:     string(inspection.Verdict),
	}
	if _, err := r.inspections.Insert(rec); err != nil {
		return fmt.Errorf("recording inspection: %w", err)
	}
	return nil
}

// Report stores a sensor reading.
func (r *Recorder) Report(ctx context.Context, reading model.Reading) error {
	if r.readings == nil {
		return nil
	}

	rec := &model.ReadingRecord{
		UUID:      recordID(reading.ID),
		SessionID: reading.SessionID,
		Timestamp: reading.Timestamp,
		Ripeness:  reading.Sample.Ripeness,
		PH:        reading.Sample.PH,
		Brix:      reading.Sample.Brix,
		Softness:  reading.Sample.Softness,
		Quality:   reading.Quality,
	}
	if _, err := r.readings.Insert(rec); err != nil {
		return fmt.Errorf("recording reading: %w", err)
	}
	return nil
}

func recordID(id string) string {
	if id == "" {
		return uuid.New().String()
	}
	return id
}
