// Package sensor reads ripeness/pH/Brix/softness samples from the sensor board over a serial line.
package sensor

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"fruitgrader/internal/model"

	"github.com/tarm/serial"
)

const (
	pollDelay = 10 * time.Millisecond
	// maxLineLength bounds the bytes buffered while waiting for a newline.
	maxLineLength = 256
)

// PortError reports a serial port that cannot be opened.
type PortError struct {
	Port string
	Err  error
}

func (e *PortError) Error() string {
	return fmt.Sprintf("serial port %s unavailable: %v", e.Port, e.Err)
}

func (e *PortError) Unwrap() error { return e.Err }

// PortConfig describes the sensor board connection.
type PortConfig struct {
	Name        string
	Baud        int
	ReadTimeout time.Duration
	// SettleDelay is waited after opening; most boards reset when the port opens.
	SettleDelay time.Duration
}

// Source yields samples from a line-oriented byte stream.
type Source struct {
	port    io.ReadCloser
	timeout time.Duration
	pending []byte
	buf     []byte
	now     func() time.Time

	dropped   int
	closeOnce sync.Once
	closeErr  error
	closed    bool
}

// Open opens the serial port and waits for the board to settle.
func Open(cfg PortConfig) (*Source, error) {
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = time.Second
	}

	port, err := serial.OpenPort(&serial.Config{
		Name:        cfg.Name,
		Baud:        cfg.Baud,
		ReadTimeout: cfg.ReadTimeout,
	})
	if err != nil {
		return nil, &PortError{Port: cfg.Name, Err: err}
	}

	if cfg.SettleDelay > 0 {
		time.Sleep(cfg.SettleDelay)
	}
	return NewSource(port, cfg.ReadTimeout), nil
}

// NewSource wraps any reader. Reads returning no data (or io.EOF, which is
// how a timed out serial read surfaces on Linux) count as silence.
func NewSource(port io.ReadCloser, timeout time.Duration) *Source {
	return &Source{
		port:    port,
		timeout: timeout,
		buf:     make([]byte, 128),
		now:     time.Now,
	}
}

// ReadLine returns one line without its terminator. If no newline arrives
// before the timeout, whatever was received is returned (possibly empty).
// Runs longer than maxLineLength without a newline are discarded and counted
// as dropped.
func (s *Source) ReadLine() (string, error) {
	deadline := s.now().Add(s.timeout)

	for {
		if i := bytes.IndexByte(s.pending, '\n'); i >= 0 {
			line := string(s.pending[:i])
			s.pending = s.pending[i+1:]
			return line, nil
		}

		n, err := s.port.Read(s.buf)
		if n > 0 {
			s.pending = append(s.pending, s.buf[:n]...)
			if len(s.pending) > maxLineLength && bytes.IndexByte(s.pending, '\n') < 0 {
				// Brak nowej linii, np. zły baud: odrzucamy śmieci
				s.pending = s.pending[:0]
				s.dropped++
			}
		}
		if err != nil && !isSilence(err) {
			return "", err
		}
		if bytes.IndexByte(s.pending, '\n') >= 0 {
			continue
		}
		if !s.now().Before(deadline) {
			line := string(s.pending)
			s.pending = nil
			return line, nil
		}
		if n == 0 {
			time.Sleep(pollDelay)
		}
	}
}

func isSilence(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, os.ErrDeadlineExceeded)
}

// Next reads one line and parses it. Silence and malformed lines yield
// ok=false with a nil error; only port failures are returned as errors.
func (s *Source) Next() (model.Sample, bool, error) {
	line, err := s.ReadLine()
	if err != nil {
		return model.Sample{}, false, fmt.Errorf("serial read failed: %w", err)
	}
	sample, err := ParseLine(line)
	if err != nil {
		if line != "" {
			s.dropped++
		}
		return model.Sample{}, false, nil
	}
	return sample, true, nil
}

// Dropped returns how many non-empty lines were rejected so far.
func (s *Source) Dropped() int {
	return s.dropped
}

// Close closes the port. Safe to call more than once.
func (s *Source) Close() error {
	s.closeOnce.Do(func() {
		s.closed = true
		s.closeErr = s.port.Close()
	})
	return s.closeErr
}

// Closed reports whether Close has been called.
func (s *Source) Closed() bool {
	return s.closed
}
