package repository

import "fruitgrader/internal/model"

// InspectionRepository defines the interface for verdict history.
type InspectionRepository interface {
	// Create operations
	Insert(rec *model.InspectionRecord) (int64, error)

	// Read operations
	GetAll(filter *model.InspectionFilter) ([]model.InspectionRecord, error)
	GetTotalCount(filter *model.InspectionFilter) (int, error)
	GetStats() (*model.InspectionStats, error)

	// Delete operations
	DeleteAll() error
}

// ReadingRepository defines the interface for sensor reading history.
type ReadingRepository interface {
	// Create operations
	Insert(rec *model.ReadingRecord) (int64, error)

	// Read operations
	GetAll(filter *model.ReadingFilter) ([]model.ReadingRecord, error)
	GetTotalCount(filter *model.ReadingFilter) (int, error)

	// Delete operations
	DeleteAll() error
}
