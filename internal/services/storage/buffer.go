package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"fruitgrader/internal/logger"
	"fruitgrader/internal/model"
)

const timestampLayout = "2006-01-02_15-04-05"

// DefaultFlushInterval is used by Run when given a non-positive interval.
const DefaultFlushInterval = 30 * time.Second

// Snapshot is one annotated frame waiting to be written.
type Snapshot struct {
	Timestamp string
	Camera    string
	Label     string
	Data      []byte
}

// Filename returns <timestamp>_<camera>_<label>.jpg.
func (s Snapshot) Filename() string {
	return fmt.Sprintf("%s_%s_%s.jpg", s.Timestamp, sanitize(s.Camera), sanitize(s.Label))
}

// BufferService keeps frames of rotten verdicts in memory and writes them
// to disk in batches. Frames beyond the limit are dropped until the next flush.
type BufferService struct {
	imagesDir   string
	snapshots   []Snapshot
	bufferLimit int
	mu          sync.Mutex
	logger      *logger.Logger
}

func NewBufferService(imagesDir string, bufferLimit int, logger *logger.Logger) *BufferService {
	return &BufferService{
		imagesDir:   imagesDir,
		bufferLimit: bufferLimit,
		snapshots:   make([]Snapshot, 0, bufferLimit),
		logger:      logger,
	}
}

// Run flushes every interval and once more when ctx is cancelled.
func (s *BufferService) Run(ctx context.Context, flushInterval time.Duration) {
	if flushInterval <= 0 {
		flushInterval = DefaultFlushInterval
	}
	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.Flush()
			return
		case <-ticker.C:
			s.Flush()
		}
	}
}

// Present buffers both cameras' frames when the fused verdict is rotten.
func (s *BufferService) Present(ctx context.Context, inspection model.Inspection) error {
	if !inspection.HasVerdict || inspection.Verdict != model.VerdictRotten {
		return nil
	}

	timestamp := inspection.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now()
	}
	for _, result := range []model.CameraResult{inspection.Left, inspection.Right} {
		s.Add(Snapshot{
			Timestamp: timestamp.Format(timestampLayout),
			Camera:    result.Camera,
			Label:     string(result.Label),
			Data:      result.Image(),
		})
	}
	return nil
}

// Add buffers a snapshot, reporting false when the buffer is full.
func (s *BufferService) Add(snapshot Snapshot) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.snapshots) >= s.bufferLimit {
		return false
	}
	s.snapshots = append(s.snapshots, snapshot)
	return true
}

// Len returns the number of buffered snapshots.
func (s *BufferService) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.snapshots)
}

// Flush writes buffered snapshots and returns how many were saved.
func (s *BufferService) Flush() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.snapshots) == 0 {
		return 0
	}

	if err := os.MkdirAll(s.imagesDir, 0755); err != nil {
		s.logger.Error("Error creating directory: %v", err)
		return 0
	}

	saved := 0
	for _, snapshot := range s.snapshots {
		filename := snapshot.Filename()
		if err := os.WriteFile(filepath.Join(s.imagesDir, filename), snapshot.Data, 0644); err != nil {
			s.logger.Error("Error saving snapshot %s: %v", filename, err)
			continue
		}
		saved++
	}

	s.logger.Info("Flushed %d snapshots to disk", saved)
	s.snapshots = s.snapshots[:0]
	return saved
}

// sanitize keeps file names portable; camera ids may be URLs.
func sanitize(part string) string {
	if part == "" {
		return "none"
	}
	out := []rune(part)
	for i, r := range out {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
		default:
			out[i] = '-'
		}
	}
	return string(out)
}
