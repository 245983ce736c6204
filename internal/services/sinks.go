package services

import (
	"context"

	"fruitgrader/internal/model"
)

// InspectionSink receives every camera tick. Inspections without a verdict
// still carry both frames so viewers keep a live picture.
type InspectionSink interface {
	Present(ctx context.Context, inspection model.Inspection) error
}

// ReadingSink receives every accepted sensor reading.
type ReadingSink interface {
	Report(ctx context.Context, reading model.Reading) error
}

// InspectionSinkFunc adapts a function to InspectionSink.
type InspectionSinkFunc func(ctx context.Context, inspection model.Inspection) error

func (f InspectionSinkFunc) Present(ctx context.Context, inspection model.Inspection) error {
	return f(ctx, inspection)
}

// ReadingSinkFunc adapts a function to ReadingSink.
type ReadingSinkFunc func(ctx context.Context, reading model.Reading) error

func (f ReadingSinkFunc) Report(ctx context.Context, reading model.Reading) error {
	return f(ctx, reading)
}
