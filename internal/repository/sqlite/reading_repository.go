package sqlite

import (
	"fmt"
	"strings"

	"fruitgrader/internal/model"
)

// ReadingRepository implements repository.ReadingRepository for SQLite.
type ReadingRepository struct {
	db *DB
}

// NewReadingRepository creates a new SQLite reading repository.
func NewReadingRepository(db *DB) *ReadingRepository {
	return &ReadingRepository{db: db}
}

// Insert adds a new reading record to the database.
func (r *ReadingRepository) Insert(rec *model.ReadingRecord) (int64, error) {
	r.db.Lock()
	defer r.db.Unlock()

	result, err := r.db.Conn().Exec(`
		INSERT INTO readings (uuid, session_id, timestamp, ripeness, ph, brix, softness, quality)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.UUID, rec.SessionID, rec.Timestamp.UTC(), rec.Ripeness, rec.PH, rec.Brix, rec.Softness, rec.Quality)
	if err != nil {
		return 0, fmt.Errorf("failed to insert reading: %w", err)
	}

	return result.LastInsertId()
}

func readingWhere(filter *model.ReadingFilter) (string, []interface{}) {
	var clauses []string
	args := []interface{}{}

	if filter == nil {
		return "", args
	}
	if filter.SessionID != "" {
		clauses = append(clauses, "session_id = ?")
		args = append(args, filter.SessionID)
	}
	if !filter.After.IsZero() {
		clauses = append(clauses, "timestamp >= ?")
		args = append(args, filter.After.UTC())
	}
	if !filter.Before.IsZero() {
		clauses = append(clauses, "timestamp <= ?")
		args = append(args, filter.Before.UTC())
	}

	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// GetAll retrieves readings, newest first.
func (r *ReadingRepository) GetAll(filter *model.ReadingFilter) ([]model.ReadingRecord, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	where, args := readingWhere(filter)
	query := `
		SELECT id, uuid, session_id, timestamp, ripeness, ph, brix, softness, quality
		FROM readings` + where + " ORDER BY timestamp DESC, id DESC"

	if filter != nil && filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
		if filter.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, filter.Offset)
		}
	}

	rows, err := r.db.Conn().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query readings: %w", err)
	}
	defer rows.Close()

	var records []model.ReadingRecord
	for rows.Next() {
		var rec model.ReadingRecord
		if err := rows.Scan(&rec.ID, &rec.UUID, &rec.SessionID, &rec.Timestamp, &rec.Ripeness, &rec.PH, &rec.Brix, &rec.Softness, &rec.Quality); err != nil {
			return nil, fmt.Errorf("failed to scan reading: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// GetTotalCount returns the number of readings matching the filter.
func (r *ReadingRepository) GetTotalCount(filter *model.ReadingFilter) (int, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	where, args := readingWhere(filter)

	var count int
	if err := r.db.Conn().QueryRow(`SELECT COUNT(*) FROM readings`+where, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count readings: %w", err)
	}
	return count, nil
}

// DeleteAll removes every reading.
func (r *ReadingRepository) DeleteAll() error {
	r.db.Lock()
	defer r.db.Unlock()

	if _, err := r.db.Conn().Exec(`DELETE FROM readings`); err != nil {
		return fmt.Errorf("failed to delete readings: %w", err)
	}
	return nil
}
