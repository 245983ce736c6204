package camera

import "fmt"

// DeviceError reports a camera that could not be opened.
type DeviceError struct {
	Camera string
	Err    error
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("camera %s unavailable: %v", e.Camera, e.Err)
}

func (e *DeviceError) Unwrap() error { return e.Err }

// CaptureError reports a failed frame read (dropped frame, unplugged device).
type CaptureError struct {
	Camera string
	Err    error
}

func (e *CaptureError) Error() string {
	return fmt.Sprintf("camera %s capture failed: %v", e.Camera, e.Err)
}

func (e *CaptureError) Unwrap() error { return e.Err }
