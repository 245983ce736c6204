package sensor

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"fruitgrader/internal/model"
)

// ErrMalformedLine is wrapped by every ParseLine failure.
var ErrMalformedLine = errors.New("malformed sensor line")

// Header is the field order of the serial protocol and of the output CSV.
var Header = []string{"Ripeness", "pH", "Brix", "Softness"}

// ParseLine parses "Ripeness,pH,Brix,Softness" (int, float, float, int).
func ParseLine(line string) (model.Sample, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return model.Sample{}, fmt.Errorf("%w: empty line", ErrMalformedLine)
	}

	fields := strings.Split(line, ",")
	if len(fields) != len(Header) {
		return model.Sample{}, fmt.Errorf("%w: expected %d fields, got %d", ErrMalformedLine, len(Header), len(fields))
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	ripeness, err := strconv.Atoi(fields[0])
	if err != nil {
		return model.Sample{}, fmt.Errorf("%w: ripeness %q", ErrMalformedLine, fields[0])
	}
	ph, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return model.Sample{}, fmt.Errorf("%w: pH %q", ErrMalformedLine, fields[1])
	}
	brix, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return model.Sample{}, fmt.Errorf("%w: brix %q", ErrMalformedLine, fields[2])
	}
	softness, err := strconv.Atoi(fields[3])
	if err != nil {
		return model.Sample{}, fmt.Errorf("%w: softness %q", ErrMalformedLine, fields[3])
	}

	return model.Sample{Ripeness: ripeness, PH: ph, Brix: brix, Softness: softness}, nil
}
