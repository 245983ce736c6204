package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fruitgrader/internal/camera"
	"fruitgrader/internal/logger"
	"fruitgrader/internal/model"
	"fruitgrader/internal/quality"

	"github.com/google/uuid"
)

// FramePair is the two-camera frame source owned by the Inspector.
type FramePair interface {
	ReadPair() (model.Frame, model.Frame, error)
	Close() error
}

// FrameClassifier labels one frame.
type FrameClassifier interface {
	Classify(frame model.Frame) (model.CameraResult, error)
}

// Inspector runs the two-camera loop: capture, classify, fuse, present.
// Everything happens on the goroutine calling Run.
type Inspector struct {
	cameras    FramePair
	classifier FrameClassifier
	sinks      []InspectionSink
	interval   time.Duration
	logger     *logger.Logger
	sessionID  string
	now        func() time.Time

	ticks    int
	verdicts int
}

// NewInspector creates the loop. The inspector takes ownership of cameras
// and closes them when Run returns.
func NewInspector(cameras FramePair, classifier FrameClassifier, interval time.Duration, logger *logger.Logger, sinks ...InspectionSink) *Inspector {
	return &Inspector{
		cameras:    cameras,
		classifier: classifier,
		sinks:      sinks,
		interval:   interval,
		logger:     logger,
		sessionID:  uuid.New().String(),
		now:        time.Now,
	}
}

// SessionID identifies this run in stored history.
func (i *Inspector) SessionID() string {
	return i.sessionID
}

// Run polls until ctx is cancelled or a tick fails. Cancellation is only
// observed between ticks. Cameras are released on every exit path.
func (i *Inspector) Run(ctx context.Context) error {
	defer func() {
		if cerr := i.cameras.Close(); cerr != nil {
			i.logger.Warning("Failed to release cameras: %v", cerr)
		}
		i.logger.Info("Inspection stopped after %d ticks (%d verdicts)", i.ticks, i.verdicts)
	}()

	i.logger.Info("Inspection session %s started", i.sessionID)

	for {
		if ctx.Err() != nil {
			return nil
		}

		if _, err := i.Tick(ctx); err != nil {
			var capErr *camera.CaptureError
			if errors.As(err, &capErr) {
				i.logger.Error("Failed to capture frames from cameras: %v", err)
			} else {
				i.logger.Error("An error occurred: %v", err)
			}
			return err
		}

		if i.interval > 0 {
			timer := time.NewTimer(i.interval)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil
			case <-timer.C:
			}
		}
	}
}

// Tick performs one capture → classify → fuse → present cycle.
func (i *Inspector) Tick(ctx context.Context) (model.Inspection, error) {
	leftFrame, rightFrame, err := i.cameras.ReadPair()
	if err != nil {
		return model.Inspection{}, err
	}
	i.ticks++

	left, err := i.classifier.Classify(leftFrame)
	if err != nil {
		return model.Inspection{}, err
	}
	right, err := i.classifier.Classify(rightFrame)
	if err != nil {
		return model.Inspection{}, err
	}

	inspection := model.Inspection{
		ID:        uuid.New().String(),
		SessionID: i.sessionID,
		Timestamp: i.now(),
		Left:      left,
		Right:     right,
	}
	inspection.Verdict, inspection.HasVerdict = quality.Conclude(left, right)
	if inspection.HasVerdict {
		i.verdicts++
	}

	for _, sink := range i.sinks {
		if err := sink.Present(ctx, inspection); err != nil {
			return inspection, fmt.Errorf("presenting inspection: %w", err)
		}
	}
	return inspection, nil
}
