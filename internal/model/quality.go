package model

import "time"

// Label is a detector class name. The empty label means nothing was detected.
type Label string

const (
	LabelFresh  Label = "fresh"
	LabelRotten Label = "rotten"
)

// Verdict is the fused two-camera decision.
type Verdict string

const (
	VerdictFresh  Verdict = "fresh"
	VerdictRotten Verdict = "rotten"
)

// CameraResult is what one camera contributed to a tick.
type CameraResult struct {
	Camera     string      `json:"camera"`
	Frame      Frame       `json:"-"`
	Annotated  []byte      `json:"-"`
	Detections []Detection `json:"detections"`
	Label      Label       `json:"label"`
	Detected   bool        `json:"detected"`
}

// Image returns the annotated frame when there is one, the raw frame otherwise.
func (r CameraResult) Image() []byte {
	if len(r.Annotated) > 0 {
		return r.Annotated
	}
	return r.Frame.Data
}

// Inspection is the outcome of one camera-loop tick.
type Inspection struct {
	ID         string       `json:"id"`
	SessionID  string       `json:"sessionId"`
	Timestamp  time.Time    `json:"timestamp"`
	Left       CameraResult `json:"left"`
	Right      CameraResult `json:"right"`
	Verdict    Verdict      `json:"verdict,omitempty"`
	HasVerdict bool         `json:"hasVerdict"`
}
