package dto

import (
	"encoding/base64"
	"testing"

	"fruitgrader/internal/model"
)

func TestNewInspectionMessage(t *testing.T) {
	inspection := model.Inspection{
		SessionID: "s1",
		Left: model.CameraResult{
			Camera:     "0",
			Frame:      model.Frame{Data: []byte("raw")},
			Annotated:  []byte("boxed"),
			Detections: []model.Detection{{Label: "fresh", Confidence: 0.9}},
			Label:      model.LabelFresh,
			Detected:   true,
		},
		Right: model.CameraResult{
			Camera: "1",
			Frame:  model.Frame{Data: []byte("raw-right")},
		},
	}

	msg := NewInspectionMessage(inspection)
	if msg.Type != MessageInspection {
		t.Errorf("Type = %q", msg.Type)
	}
	if msg.Verdict != "" {
		t.Errorf("Expected no verdict, got %q", msg.Verdict)
	}
	if len(msg.Cameras) != 2 {
		t.Fatalf("Expected 2 cameras, got %d", len(msg.Cameras))
	}

	left, _ := base64.StdEncoding.DecodeString(msg.Cameras[0].Image)
	if string(left) != "boxed" {
		t.Errorf("Expected annotated left image, got %q", left)
	}
	right, _ := base64.StdEncoding.DecodeString(msg.Cameras[1].Image)
	if string(right) != "raw-right" {
		t.Errorf("Expected raw right image, got %q", right)
	}
	if msg.Cameras[0].Best != 0.9 {
		t.Errorf("Expected confidence 0.9, got %v", msg.Cameras[0].Best)
	}

	inspection.Verdict = model.VerdictRotten
	inspection.HasVerdict = true
	if got := NewInspectionMessage(inspection).Verdict; got != "rotten" {
		t.Errorf("Verdict = %q, expected rotten", got)
	}
}
