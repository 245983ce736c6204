package sqlite

import (
	"fmt"
	"strings"

	"fruitgrader/internal/model"
)

// InspectionRepository implements repository.InspectionRepository for SQLite.
type InspectionRepository struct {
	db *DB
}

// NewInspectionRepository creates a new SQLite inspection repository.
func NewInspectionRepository(db *DB) *InspectionRepository {
	return &InspectionRepository{db: db}
}

// Insert adds a new verdict record to the database.
func (r *InspectionRepository) Insert(rec *model.InspectionRecord) (int64, error) {
	r.db.Lock()
	defer r.db.Unlock()

	result, err := r.db.Conn().Exec(`
		INSERT INTO inspections (uuid, session_id, timestamp, left_camera, left_label, right_camera, right_label, verdict)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.UUID, rec.SessionID, rec.Timestamp.UTC(), rec.LeftCamera, rec.LeftLabel, rec.RightCamera, rec.RightLabel, rec.Verdict)
	if err != nil {
		return 0, fmt.Errorf("failed to insert inspection: %w", err)
	}

	return result.LastInsertId()
}

func inspectionWhere(filter *model.InspectionFilter) (string, []interface{}) {
	var clauses []string
	args := []interface{}{}

	if filter == nil {
		return "", args
	}
	if filter.SessionID != "" {
		clauses = append(clauses, "session_id = ?")
		args = append(args, filter.SessionID)
	}
	if filter.Verdict != "" {
		clauses = append(clauses, "verdict = ?")
		args = append(args, filter.Verdict)
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

// GetAll retrieves verdicts, newest first.
func (r *InspectionRepository) GetAll(filter *model.InspectionFilter) ([]model.InspectionRecord, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	where, args := inspectionWhere(filter)
	query := `
		SELECT id, uuid, session_id, timestamp, left_camera, left_label, right_camera, right_label, verdict
		FROM inspections` + where + " ORDER BY timestamp DESC, id DESC"

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
		return nil, fmt.Errorf("failed to query inspections: %w", err)
	}
	defer rows.Close()

	var records []model.InspectionRecord
	for rows.Next() {
		var rec model.InspectionRecord
		if err := rows.Scan(&rec.ID, &rec.UUID, &rec.SessionID, &rec.Timestamp, &rec.LeftCamera, &rec.LeftLabel, &rec.RightCamera, &rec.RightLabel, &rec.Verdict); err != nil {
			return nil, fmt.Errorf("failed to scan inspection: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// GetTotalCount returns the number of verdicts matching the filter.
func (r *InspectionRepository) GetTotalCount(filter *model.InspectionFilter) (int, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	where, args := inspectionWhere(filter)

	var count int
	if err := r.db.Conn().QueryRow(`SELECT COUNT(*) FROM inspections`+where, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count inspections: %w", err)
	}
	return count, nil
}

// GetStats returns verdict totals and how often each camera label occurred.
func (r *InspectionRepository) GetStats() (*model.InspectionStats, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	stats := &model.InspectionStats{
		PerVerdict: make(map[string]int),
		PerLabel:   make(map[string]int),
	}

	if err := r.db.Conn().QueryRow(`SELECT COUNT(*) FROM inspections`).Scan(&stats.Total); err != nil {
		return nil, err
	}

	// Verdicts
	rows, err := r.db.Conn().Query(`SELECT verdict, COUNT(*) FROM inspections GROUP BY verdict`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var verdict string
		var count int
		if err := rows.Scan(&verdict, &count); err != nil {
			return nil, err
		}
		stats.PerVerdict[verdict] = count
	}

	// Labels from both cameras
	labelRows, err := r.db.Conn().Query(`
		SELECT label, COUNT(*) FROM (
			SELECT left_label AS label FROM inspections
			UNION ALL
			SELECT right_label AS label FROM inspections
		)
		GROUP BY label
	`)
	if err != nil {
		return nil, err
	}
	defer labelRows.Close()

	for labelRows.Next() {
		var label string
		var count int
		if err := labelRows.Scan(&label, &count); err != nil {
			return nil, err
		}
		stats.PerLabel[label] = count
	}

	return stats, nil
}

// DeleteAll removes every verdict.
func (r *InspectionRepository) DeleteAll() error {
	r.db.Lock()
	defer r.db.Unlock()

	if _, err := r.db.Conn().Exec(`DELETE FROM inspections`); err != nil {
		return fmt.Errorf("failed to delete inspections: %w", err)
	}
	return nil
}
