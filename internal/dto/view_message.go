// Messages pushed to dashboard viewers over /api/view.
package dto

import (
	"encoding/base64"
	"time"

	"fruitgrader/internal/model"
)

const (
	MessageInspection = "inspection"
	MessageReading    = "reading"
)

// CameraView is one camera tile on the dashboard.
type CameraView struct {
	Camera   string  `json:"camera"`
	Label    string  `json:"label"`
	Detected bool    `json:"detected"`
	Image    string  `json:"image"` // base64 JPEG
	Best     float64 `json:"confidence,omitempty"`
}

// InspectionMessage carries both annotated frames and the fused verdict.
type InspectionMessage struct {
	Type      string       `json:"type"`
	SessionID string       `json:"sessionId"`
	Timestamp time.Time    `json:"timestamp"`
	Cameras   []CameraView `json:"cameras"`
	Verdict   string       `json:"verdict,omitempty"`
}

// ReadingMessage carries one sensor sample and its score.
type ReadingMessage struct {
	Type      string    `json:"type"`
	SessionID string    `json:"sessionId"`
	Timestamp time.Time `json:"timestamp"`
	Ripeness  int       `json:"ripeness"`
	PH        float64   `json:"ph"`
	Brix      float64   `json:"brix"`
	Softness  int       `json:"softness"`
	Quality   float64   `json:"quality"`
}

// NewInspectionMessage builds the viewer payload for one tick.
func NewInspectionMessage(inspection model.Inspection) InspectionMessage {
	msg := InspectionMessage{
		Type:      MessageInspection,
		SessionID: inspection.SessionID,
		Timestamp: inspection.Timestamp,
		Cameras: []CameraView{
			newCameraView(inspection.Left),
			newCameraView(inspection.Right),
		},
	}
	if inspection.HasVerdict {
		msg.Verdict = string(inspection.Verdict)
	}
	return msg
}

func newCameraView(result model.CameraResult) CameraView {
	view := CameraView{
		Camera:   result.Camera,
		Label:    string(result.Label),
		Detected: result.Detected,
		Image:    base64.StdEncoding.EncodeToString(result.Image()),
	}
	for _, d := range result.Detections {
		if string(result.Label) == d.Label {
			view.Best = d.Confidence
			break
		}
	}
	return view
}

// NewReadingMessage builds the viewer payload for one reading.
func NewReadingMessage(reading model.Reading) ReadingMessage {
	return ReadingMessage{
		Type:      MessageReading,
		SessionID: reading.SessionID,
		Timestamp: reading.Timestamp,
		Ripeness:  reading.Sample.Ripeness,
		PH:        reading.Sample.PH,
		Brix:      reading.Sample.Brix,
		Softness:  reading.Sample.Softness,
		Quality:   reading.Quality,
	}
}
