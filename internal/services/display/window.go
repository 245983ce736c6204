// Package display shows the annotated camera frames in desktop windows.
package display

import (
	"context"
	"fmt"
	"image"
	"image/color"

	"fruitgrader/internal/model"

	"gocv.io/x/gocv"
)

// WindowSink opens one window per camera. Pressing q calls stop.
// Present must be called from the goroutine that created the sink.
type WindowSink struct {
	left  *gocv.Window
	right *gocv.Window
	stop  context.CancelFunc
}

func NewWindowSink(stop context.CancelFunc) *WindowSink {
	return &WindowSink{
		left:  gocv.NewWindow("Camera 1"),
		right: gocv.NewWindow("Camera 2"),
		stop:  stop,
	}
}

// Present draws both frames with their labels and polls the keyboard.
func (w *WindowSink) Present(ctx context.Context, inspection model.Inspection) error {
	if err := show(w.left, inspection.Left, inspection); err != nil {
		return err
	}
	if err := show(w.right, inspection.Right, inspection); err != nil {
		return err
	}

	if key := w.left.WaitKey(1); key == 'q' || key == 'Q' {
		w.stop()
	}
	return nil
}

func show(window *gocv.Window, result model.CameraResult, inspection model.Inspection) error {
	mat, err := gocv.IMDecode(result.Image(), gocv.IMReadColor)
	if err != nil {
		return fmt.Errorf("failed to decode frame from camera %s: %w", result.Camera, err)
	}
	defer mat.Close()

	if mat.Empty() {
		return nil
	}

	label := "no detection"
	if result.Detected {
		label = string(result.Label)
	}
	gocv.PutText(&mat, label, image.Pt(10, 30), gocv.FontHersheySimplex, 0.8, color.RGBA{R: 255, G: 255, B: 255}, 2)

	if inspection.HasVerdict {
		c := color.RGBA{G: 200}
		if inspection.Verdict == model.VerdictRotten {
			c = color.RGBA{R: 255}
		}
		gocv.PutText(&mat, "Final: "+string(inspection.Verdict), image.Pt(10, 60), gocv.FontHersheySimplex, 0.8, c, 2)
	}

	window.IMShow(mat)
	return nil
}

// Close destroys the windows.
func (w *WindowSink) Close() error {
	w.left.Close()
	return w.right.Close()
}
