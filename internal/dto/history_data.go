// Paginated history payloads returned by the dashboard API.
package dto

import "fruitgrader/internal/model"

type InspectionsData struct {
	Inspections []model.InspectionRecord `json:"inspections"`
	Length      int                      `json:"length"`
	TotalPages  int                      `json:"totalPages"`
	CurrentPage int                      `json:"currentPage"`
	Limit       int                      `json:"pageSize"`
}

type ReadingsData struct {
	Readings    []model.ReadingRecord `json:"readings"`
	Length      int                   `json:"length"`
	TotalPages  int                   `json:"totalPages"`
	CurrentPage int                   `json:"currentPage"`
	Limit       int                   `json:"pageSize"`
}
