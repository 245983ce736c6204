package model

import "time"

// InspectionRecord is a stored fused verdict.
type InspectionRecord struct {
	ID          int64     `json:"id"`
	UUID        string    `json:"uuid"`
	SessionID   string    `json:"sessionId"`
	Timestamp   time.Time `json:"timestamp"`
	LeftCamera  string    `json:"leftCamera"`
	LeftLabel   string    `json:"leftLabel"`
	RightCamera string    `json:"rightCamera"`
	RightLabel  string    `json:"rightLabel"`
	Verdict     string    `json:"verdict"`
}

// ReadingRecord is a stored sensor sample with its score.
type ReadingRecord struct {
	ID        int64     `json:"id"`
	UUID      string    `json:"uuid"`
	SessionID string    `json:"sessionId"`
	Timestamp time.Time `json:"timestamp"`
	Ripeness  int       `json:"ripeness"`
	PH        float64   `json:"ph"`
	Brix      float64   `json:"brix"`
	Softness  int       `json:"softness"`
	Quality   float64   `json:"quality"`
}

// InspectionFilter narrows history queries.
type InspectionFilter struct {
	SessionID string
	Verdict   string
	After     time.Time
	Before    time.Time
	Limit     int
	Offset    int
}

// ReadingFilter narrows reading history queries.
type ReadingFilter struct {
	SessionID string
	After     time.Time
	Before    time.Time
	Limit     int
	Offset    int
}

// InspectionStats summarises stored verdicts.
type InspectionStats struct {
	Total      int            `json:"total"`
	PerVerdict map[string]int `json:"perVerdict"`
	PerLabel   map[string]int `json:"perLabel"`
}
