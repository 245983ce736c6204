package ai

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"sync"

	"fruitgrader/internal/logger"
	"fruitgrader/internal/model"

	"gocv.io/x/gocv"
)

// Config describes the exported YOLOv8 fruit model.
type Config struct {
	ModelPath           string
	Classes             []string
	ConfidenceThreshold float32
	NMSThreshold        float32
	InputSize           int
}

// DetectorService runs the fruit-quality model through OpenCV's DNN module.
type DetectorService struct {
	net    gocv.Net
	config Config
	mu     sync.Mutex
	logger *logger.Logger
}

// NewDetectorService loads the ONNX model.
func NewDetectorService(cfg Config, logger *logger.Logger) (*DetectorService, error) {
	if cfg.InputSize <= 0 {
		cfg.InputSize = 640
	}
	if len(cfg.Classes) == 0 {
		return nil, fmt.Errorf("no detector classes configured")
	}

	service := &DetectorService{config: cfg, logger: logger}
	if err := service.initializeNet(); err != nil {
		return nil, err
	}
	return service, nil
}

// initializeNet wczytuje sieć z pliku ONNX
func (s *DetectorService) initializeNet() error {
	if _, err := os.Stat(s.config.ModelPath); os.IsNotExist(err) {
		return fmt.Errorf("model file not found: %s", s.config.ModelPath)
	}

	net := gocv.ReadNetFromONNX(s.config.ModelPath)
	if net.Empty() {
		return fmt.Errorf("failed to load network from %s", s.config.ModelPath)
	}

	errBackend := net.SetPreferableBackend(gocv.NetBackendDefault)
	errTarget := net.SetPreferableTarget(gocv.NetTargetCPU)
	if errBackend != nil || errTarget != nil {
		net.Close()
		return fmt.Errorf("failed to set preferable backend or target")
	}

	s.net = net
	s.logger.Info("Detection network loaded from %s (%d classes)", s.config.ModelPath, len(s.config.Classes))
	return nil
}

// Detect returns boxes above the confidence threshold after NMS, in the
// order OpenCV's NMS emits them.
func (s *DetectorService) Detect(imageBytes []byte) ([]model.Detection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.net.Empty() {
		return nil, fmt.Errorf("detection network not initialized")
	}

	mat, err := gocv.IMDecode(imageBytes, gocv.IMReadColor)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	defer mat.Close()

	if mat.Empty() {
		return nil, fmt.Errorf("decoded image is empty")
	}

	size := image.Pt(s.config.InputSize, s.config.InputSize)
	blob := gocv.BlobFromImage(mat, 1.0/255.0, size, gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	s.net.SetInput(blob, "")
	output := s.net.Forward("")
	defer output.Close()

	return s.parseOutput(output, float32(mat.Cols()), float32(mat.Rows()))
}

// parseOutput handles the YOLOv8 layout [1, 4+classes, anchors].
func (s *DetectorService) parseOutput(output gocv.Mat, imgW, imgH float32) ([]model.Detection, error) {
	dims := output.Size()
	if len(dims) != 3 {
		return nil, fmt.Errorf("unexpected output shape %v", dims)
	}
	attrs, anchors := dims[1], dims[2]
	if attrs < 5 {
		return nil, fmt.Errorf("unexpected output shape %v", dims)
	}

	data, err := output.DataPtrFloat32()
	if err != nil {
		return nil, fmt.Errorf("failed to read output tensor: %w", err)
	}

	scaleX := imgW / float32(s.config.InputSize)
	scaleY := imgH / float32(s.config.InputSize)

	var boxes []image.Rectangle
	var scores []float32
	var classIDs []int

	for i := 0; i < anchors; i++ {
		best, bestClass := float32(0), -1
		for c := 4; c < attrs; c++ {
			if score := data[c*anchors+i]; score > best {
				best, bestClass = score, c-4
			}
		}
		if best < s.config.ConfidenceThreshold {
			continue
		}

		cx, cy := data[i], data[anchors+i]
		w, h := data[2*anchors+i], data[3*anchors+i]

		x1 := int((cx - w/2) * scaleX)
		y1 := int((cy - h/2) * scaleY)
		x2 := int((cx + w/2) * scaleX)
		y2 := int((cy + h/2) * scaleY)

		boxes = append(boxes, image.Rect(x1, y1, x2, y2))
		scores = append(scores, best)
		classIDs = append(classIDs, bestClass)
	}

	if len(boxes) == 0 {
		return nil, nil
	}

	indices := gocv.NMSBoxes(boxes, scores, s.config.ConfidenceThreshold, s.config.NMSThreshold)

	results := make([]model.Detection, 0, len(indices))
	for _, idx := range indices {
		box := boxes[idx]
		results = append(results, model.Detection{
			Label:      s.className(classIDs[idx]),
			Confidence: float64(scores[idx]),
			X:          box.Min.X,
			Y:          box.Min.Y,
			Width:      box.Dx(),
			Height:     box.Dy(),
		})
	}
	return results, nil
}

func (s *DetectorService) className(id int) string {
	if id >= 0 && id < len(s.config.Classes) {
		return s.config.Classes[id]
	}
	return fmt.Sprintf("class_%d", id)
}

// Annotate rysuje prostokąty i etykiety na obrazie
func (s *DetectorService) Annotate(img []byte, detections []model.Detection) ([]byte, error) {
	mat, err := gocv.IMDecode(img, gocv.IMReadColor)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	defer mat.Close()

	for _, detection := range detections {
		c := boxColor(detection.Label)
		rect := image.Rect(detection.X, detection.Y, detection.X+detection.Width, detection.Y+detection.Height)
		if err := gocv.Rectangle(&mat, rect, c, 2); err != nil {
			return nil, fmt.Errorf("failed to draw rectangle: %w", err)
		}

		label := fmt.Sprintf("%s %.2f", detection.Label, detection.Confidence)
		pt := image.Pt(detection.X, detection.Y-5)
		if err := gocv.PutText(&mat, label, pt, gocv.FontHersheySimplex, 0.5, c, 1); err != nil {
			return nil, fmt.Errorf("failed to draw text: %w", err)
		}
	}

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, mat)
	if err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	defer buf.Close()

	out := make([]byte, len(buf.GetBytes()))
	copy(out, buf.GetBytes())
	return out, nil
}

func boxColor(label string) color.RGBA {
	if label == string(model.LabelFresh) {
		return color.RGBA{G: 200, A: 0}
	}
	return color.RGBA{R: 255, A: 0}
}

// Close releases the network.
func (s *DetectorService) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.net.Close()
}
