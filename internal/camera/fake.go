package camera

import (
	"errors"
	"sync"
	"time"

	"fruitgrader/internal/model"
)

// ErrNoFrames is returned by a FakeDevice once its script is exhausted.
var ErrNoFrames = errors.New("no more frames")

// FakeDevice plays back a fixed list of frames.
type FakeDevice struct {
	mu     sync.Mutex
	frames [][]byte
	pos    int
	opened bool
	// FailAt makes the n-th read (0 based) fail; negative disables it.
	FailAt int
}

// NewFakeDevice returns an opened fake device.
func NewFakeDevice(frames ...[]byte) *FakeDevice {
	return &FakeDevice{frames: frames, opened: true, FailAt: -1}
}

func (d *FakeDevice) Read() (model.Frame, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.opened {
		return model.Frame{}, errors.New("device closed")
	}
	if d.pos == d.FailAt || d.pos >= len(d.frames) {
		d.pos++
		return model.Frame{}, ErrNoFrames
	}
	data := d.frames[d.pos]
	d.pos++
	return model.Frame{Data: data, CapturedAt: time.Now()}, nil
}

func (d *FakeDevice) IsOpened() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.opened
}

func (d *FakeDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.opened = false
	return nil
}
