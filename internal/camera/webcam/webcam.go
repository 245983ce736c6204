// Package webcam implements camera.Device on top of OpenCV video capture.
package webcam

import (
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"fruitgrader/internal/camera"
	"fruitgrader/internal/model"

	"gocv.io/x/gocv"
)

// Webcam reads frames from a local device, stream URL or video file.
type Webcam struct {
	id      string
	capture *gocv.VideoCapture
	mat     gocv.Mat
	mu      sync.Mutex
	closed  bool
}

// Options are optional capture hints; zero values keep the driver defaults.
type Options struct {
	Width  int
	Height int
}

// Opener returns a camera.Opener using the given options.
func Opener(opts Options) camera.Opener {
	return func(id string) (camera.Device, error) {
		return Open(id, opts)
	}
}

// Open opens a capture. Numeric ids are device indexes, anything else is passed to OpenCV as is.
func Open(id string, opts Options) (*Webcam, error) {
	var device interface{} = id
	if index, err := strconv.Atoi(id); err == nil {
		device = index
	}

	capture, err := gocv.OpenVideoCapture(device)
	if err != nil {
		return nil, fmt.Errorf("failed to open capture %s: %w", id, err)
	}

	if opts.Width > 0 {
		capture.Set(gocv.VideoCaptureFrameWidth, float64(opts.Width))
	}
	if opts.Height > 0 {
		capture.Set(gocv.VideoCaptureFrameHeight, float64(opts.Height))
	}

	return &Webcam{
		id:      id,
		capture: capture,
		mat:     gocv.NewMat(),
	}, nil
}

// Read grabs the next frame and encodes it as JPEG.
func (w *Webcam) Read() (model.Frame, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return model.Frame{}, errors.New("capture closed")
	}

	if ok := w.capture.Read(&w.mat); !ok {
		return model.Frame{}, errors.New("read returned no frame")
	}
	if w.mat.Empty() {
		return model.Frame{}, errors.New("empty frame")
	}

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, w.mat)
	if err != nil {
		return model.Frame{}, fmt.Errorf("failed to encode frame: %w", err)
	}
	defer buf.Close()

	data := make([]byte, len(buf.GetBytes()))
	copy(data, buf.GetBytes())

	return model.Frame{
		Camera:     w.id,
		Data:       data,
		Width:      w.mat.Cols(),
		Height:     w.mat.Rows(),
		CapturedAt: time.Now(),
	}, nil
}

// IsOpened reports whether the underlying capture is usable.
func (w *Webcam) IsOpened() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return !w.closed && w.capture.IsOpened()
}

// Close releases the capture and the frame buffer.
func (w *Webcam) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	w.mat.Close()
	return w.capture.Close()
}
