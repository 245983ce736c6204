// Package quality turns detector output into per-camera labels and a fused verdict.
package quality

import (
	"fmt"

	"fruitgrader/internal/model"
)

// DefaultMinConfidence is the detection threshold used by the station.
const DefaultMinConfidence = 0.25

// Detector runs inference on a JPEG image and returns boxes in emission order.
type Detector interface {
	Detect(image []byte) ([]model.Detection, error)
}

// Annotator draws detections onto a JPEG image.
type Annotator interface {
	Annotate(image []byte, detections []model.Detection) ([]byte, error)
}

// FirstLabel returns the label of the first detection at or above
// minConfidence, in the order the detector emitted them. Later boxes are
// ignored even if they score higher, so with several fruits in view the
// winner depends on the detector's ordering.
func FirstLabel(detections []model.Detection, minConfidence float64) (model.Label, bool) {
	for _, d := range detections {
		if d.Confidence >= minConfidence {
			return model.Label(d.Label), true
		}
	}
	return "", false
}

// Classifier labels single frames.
type Classifier struct {
	detector      Detector
	annotator     Annotator
	minConfidence float64
}

// NewClassifier creates a classifier. annotator may be nil.
func NewClassifier(detector Detector, annotator Annotator, minConfidence float64) *Classifier {
	if minConfidence <= 0 {
		minConfidence = DefaultMinConfidence
	}
	return &Classifier{
		detector:      detector,
		annotator:     annotator,
		minConfidence: minConfidence,
	}
}

// Classify runs the detector once on the frame and picks its label.
func (c *Classifier) Classify(frame model.Frame) (model.CameraResult, error) {
	detections, err := c.detector.Detect(frame.Data)
	if err != nil {
		return model.CameraResult{}, fmt.Errorf("detection failed on camera %s: %w", frame.Camera, err)
	}

	result := model.CameraResult{
		Camera:     frame.Camera,
		Frame:      frame,
		Detections: detections,
	}
	result.Label, result.Detected = FirstLabel(detections, c.minConfidence)

	if c.annotator != nil && len(detections) > 0 {
		annotated, err := c.annotator.Annotate(frame.Data, detections)
		if err != nil {
			return model.CameraResult{}, fmt.Errorf("annotation failed on camera %s: %w", frame.Camera, err)
		}
		result.Annotated = annotated
	}

	return result, nil
}
