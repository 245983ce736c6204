package model

import "time"

// Sample is one parsed serial line.
type Sample struct {
	Ripeness int     `json:"ripeness"`
	PH       float64 `json:"ph"`
	Brix     float64 `json:"brix"`
	Softness int     `json:"softness"`
}

// Reading is a sample together with its predicted quality score (1.0-5.0).
type Reading struct {
	ID        string    `json:"id"`
	SessionID string    `json:"sessionId"`
	Timestamp time.Time `json:"timestamp"`
	Sample    Sample    `json:"sample"`
	Quality   float64   `json:"quality"`
}
