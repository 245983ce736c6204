package sensor

import "time"

// Gate lets one report through per interval, based on the last report time.
type Gate struct {
	Interval time.Duration
	last     time.Time
}

// NewGate returns a gate that is open immediately.
func NewGate(interval time.Duration) *Gate {
	return &Gate{Interval: interval}
}

// Ready reports whether at least Interval has passed since the last Mark.
func (g *Gate) Ready(now time.Time) bool {
	return g.last.IsZero() || now.Sub(g.last) >= g.Interval
}

// Mark records now as the last report time.
func (g *Gate) Mark(now time.Time) {
	g.last = now
}
