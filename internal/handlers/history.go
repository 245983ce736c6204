package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"fruitgrader/internal/dto"
	"fruitgrader/internal/logger"
	"fruitgrader/internal/model"
	"fruitgrader/internal/repository"
)

const defaultPageSize = 24

// GetInspectionsHandler lists stored verdicts with filtering and pagination.
// Query: page, limit, session, verdict, after, before.
func GetInspectionsHandler(repo repository.InspectionRepository, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		page := atoiDefault(q.Get("page"), 1)
		limit := atoiDefault(q.Get("limit"), defaultPageSize)

		filter := &model.InspectionFilter{
			SessionID: q.Get("session"),
			Verdict:   q.Get("verdict"),
			After:     parseTimestamp(q.Get("after")),
			Before:    parseTimestamp(q.Get("before")),
		}

		total, err := repo.GetTotalCount(filter)
		if err != nil {
			logger.Error("Error counting inspections: %v", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		filter.Limit = limit
		filter.Offset = (page - 1) * limit
		records, err := repo.GetAll(filter)
		if err != nil {
			logger.Error("Error querying inspections: %v", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		if records == nil {
			records = []model.InspectionRecord{}
		}

		writeJSON(w, logger, dto.InspectionsData{
			Inspections: records,
			Length:      total,
			TotalPages:  (total + limit - 1) / limit,
			CurrentPage: page,
			Limit:       limit,
		})
	}
}

// GetInspectionStatsHandler returns verdict and label totals.
func GetInspectionStatsHandler(repo repository.InspectionRepository, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := repo.GetStats()
		if err != nil {
			logger.Error("Error reading inspection stats: %v", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, logger, stats)
	}
}

// GetReadingsHandler lists stored sensor readings.
// Query: page, limit, session, after, before.
func GetReadingsHandler(repo repository.ReadingRepository, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		page := atoiDefault(q.Get("page"), 1)
		limit := atoiDefault(q.Get("limit"), defaultPageSize)

		filter := &model.ReadingFilter{
			SessionID: q.Get("session"),
			After:     parseTimestamp(q.Get("after")),
			Before:    parseTimestamp(q.Get("before")),
		}

		total, err := repo.GetTotalCount(filter)
		if err != nil {
			logger.Error("Error counting readings: %v", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		filter.Limit = limit
		filter.Offset = (page - 1) * limit
		records, err := repo.GetAll(filter)
		if err != nil {
			logger.Error("Error querying readings: %v", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		if records == nil {
			records = []model.ReadingRecord{}
		}

		writeJSON(w, logger, dto.ReadingsData{
			Readings:    records,
			Length:      total,
			TotalPages:  (total + limit - 1) / limit,
			CurrentPage: page,
			Limit:       limit,
		})
	}
}

func writeJSON(w http.ResponseWriter, logger *logger.Logger, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Error encoding JSON response: %v", err)
	}
}

// atoiDefault returns the positive integer in s or def.
func atoiDefault(s string, def int) int {
	if v, err := strconv.Atoi(s); err == nil && v > 0 {
		return v
	}
	return def
}

// parseTimestamp accepts RFC 3339, "2006-01-02T15:04" (HTML datetime-local) or a bare date.
func parseTimestamp(v string) time.Time {
	if v == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, v, time.Local); err == nil {
			return t
		}
	}
	return time.Time{}
}
