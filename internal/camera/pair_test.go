package camera

import (
	"errors"
	"testing"
)

func fakeOpener(devices map[string]*FakeDevice) Opener {
	return func(id string) (Device, error) {
		dev, ok := devices[id]
		if !ok {
			return nil, errors.New("no such device")
		}
		return dev, nil
	}
}

func TestOpenPair_Success(t *testing.T) {
	left := NewFakeDevice([]byte("l1"))
	right := NewFakeDevice([]byte("r1"))

	pair, err := OpenPair(fakeOpener(map[string]*FakeDevice{"0": left, "1": right}), "0", "1")
	if err != nil {
		t.Fatalf("OpenPair failed: %v", err)
	}
	defer pair.Close()

	if !pair.IsOpened() {
		t.Error("Expected pair to be opened")
	}

	l, r, err := pair.ReadPair()
	if err != nil {
		t.Fatalf("ReadPair failed: %v", err)
	}
	if string(l.Data) != "l1" || string(r.Data) != "r1" {
		t.Errorf("Unexpected frames %q %q", l.Data, r.Data)
	}
	if l.Camera != "0" || r.Camera != "1" {
		t.Errorf("Expected camera ids to be filled in, got %q %q", l.Camera, r.Camera)
	}
}

func TestOpenPair_RightMissingReleasesLeft(t *testing.T) {
	left := NewFakeDevice()

	_, err := OpenPair(fakeOpener(map[string]*FakeDevice{"0": left}), "0", "1")
	if err == nil {
		t.Fatal("Expected error for missing right camera")
	}

	var devErr *DeviceError
	if !errors.As(err, &devErr) {
		t.Fatalf("Expected *DeviceError, got %T", err)
	}
	if devErr.Camera != "1" {
		t.Errorf("Expected failing camera 1, got %s", devErr.Camera)
	}
	if left.IsOpened() {
		t.Error("Left camera should have been released")
	}
}

func TestOpenPair_NotOpenedDevice(t *testing.T) {
	left := NewFakeDevice()
	left.Close()
	right := NewFakeDevice()

	_, err := OpenPair(fakeOpener(map[string]*FakeDevice{"0": left, "1": right}), "0", "1")

	var devErr *DeviceError
	if !errors.As(err, &devErr) {
		t.Fatalf("Expected *DeviceError, got %v", err)
	}
	if !right.IsOpened() {
		t.Error("Right camera was never opened, it should be untouched")
	}
}

func TestReadPair_CaptureFailure(t *testing.T) {
	tests := []struct {
		name   string
		failOn string
	}{
		{"left fails", "0"},
		{"right fails", "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			left := NewFakeDevice([]byte("l1"), []byte("l2"))
			right := NewFakeDevice([]byte("r1"), []byte("r2"))
			if tt.failOn == "0" {
				left.FailAt = 0
			} else {
				right.FailAt = 0
			}

			pair := NewPair(left, right, "0", "1")
			_, _, err := pair.ReadPair()

			var capErr *CaptureError
			if !errors.As(err, &capErr) {
				t.Fatalf("Expected *CaptureError, got %v", err)
			}
			if capErr.Camera != tt.failOn {
				t.Errorf("Expected camera %s, got %s", tt.failOn, capErr.Camera)
			}
			if !errors.Is(err, ErrNoFrames) {
				t.Errorf("Expected wrapped ErrNoFrames, got %v", err)
			}
		})
	}
}

func TestReadPair_EmptyFrame(t *testing.T) {
	pair := NewPair(NewFakeDevice([]byte{}), NewFakeDevice([]byte("r")), "0", "1")

	_, _, err := pair.ReadPair()
	var capErr *CaptureError
	if !errors.As(err, &capErr) {
		t.Fatalf("Expected *CaptureError for empty frame, got %v", err)
	}
}

func TestClose_Idempotent(t *testing.T) {
	left := NewFakeDevice()
	right := NewFakeDevice()
	pair := NewPair(left, right, "0", "1")

	if err := pair.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := pair.Close(); err != nil {
		t.Fatalf("Second Close failed: %v", err)
	}
	if left.IsOpened() || right.IsOpened() || pair.IsOpened() {
		t.Error("Both cameras should report released")
	}
}
