package model

import "time"

// Frame is one JPEG-encoded capture from a single camera.
type Frame struct {
	Camera     string
	Data       []byte
	Width      int
	Height     int
	CapturedAt time.Time
}

// Detection is one bounding box reported by the detector, in pixels.
type Detection struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
	X          int     `json:"x"`
	Y          int     `json:"y"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
}
