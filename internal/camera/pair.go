// Package camera owns the two capture devices of the inspection station.
package camera

import (
	"errors"
	"fmt"
	"sync"

	"fruitgrader/internal/model"
)

var errNotOpened = errors.New("device reports not opened")

// Device is a single frame source.
type Device interface {
	Read() (model.Frame, error)
	IsOpened() bool
	Close() error
}

// Opener opens the device identified by id (index, URL or file path).
type Opener func(id string) (Device, error)

// Pair holds the left and right cameras. It is owned by one loop.
type Pair struct {
	left, right     Device
	leftID, rightID string

	closeOnce sync.Once
	closeErr  error
}

// OpenPair opens both cameras. If either fails the other one is released
// and a *DeviceError is returned.
func OpenPair(open Opener, leftID, rightID string) (*Pair, error) {
	left, err := openDevice(open, leftID)
	if err != nil {
		return nil, err
	}

	right, err := openDevice(open, rightID)
	if err != nil {
		left.Close()
		return nil, err
	}

	return &Pair{left: left, right: right, leftID: leftID, rightID: rightID}, nil
}

// NewPair wraps two already opened devices.
func NewPair(left, right Device, leftID, rightID string) *Pair {
	return &Pair{left: left, right: right, leftID: leftID, rightID: rightID}
}

func openDevice(open Opener, id string) (Device, error) {
	dev, err := open(id)
	if err != nil {
		return nil, &DeviceError{Camera: id, Err: err}
	}
	if !dev.IsOpened() {
		dev.Close()
		return nil, &DeviceError{Camera: id, Err: errNotOpened}
	}
	return dev, nil
}

// IDs returns the configured camera identifiers.
func (p *Pair) IDs() (string, string) {
	return p.leftID, p.rightID
}

// ReadPair reads one frame from each camera. Any failure is a *CaptureError.
func (p *Pair) ReadPair() (model.Frame, model.Frame, error) {
	left, err := readDevice(p.left, p.leftID)
	if err != nil {
		return model.Frame{}, model.Frame{}, err
	}
	right, err := readDevice(p.right, p.rightID)
	if err != nil {
		return model.Frame{}, model.Frame{}, err
	}
	return left, right, nil
}

func readDevice(dev Device, id string) (model.Frame, error) {
	frame, err := dev.Read()
	if err != nil {
		return model.Frame{}, &CaptureError{Camera: id, Err: err}
	}
	if len(frame.Data) == 0 {
		return model.Frame{}, &CaptureError{Camera: id, Err: errors.New("empty frame")}
	}
	if frame.Camera == "" {
		frame.Camera = id
	}
	return frame, nil
}

// IsOpened reports whether both devices are still open.
func (p *Pair) IsOpened() bool {
	return p.left.IsOpened() && p.right.IsOpened()
}

// Close releases both cameras. Safe to call more than once.
func (p *Pair) Close() error {
	p.closeOnce.Do(func() {
		errLeft := p.left.Close()
		errRight := p.right.Close()
		switch {
		case errLeft != nil:
			p.closeErr = fmt.Errorf("close camera %s: %w", p.leftID, errLeft)
		case errRight != nil:
			p.closeErr = fmt.Errorf("close camera %s: %w", p.rightID, errRight)
		}
	})
	return p.closeErr
}
