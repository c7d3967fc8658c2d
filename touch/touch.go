package touch

import (
	"time"
)

// Sensor is the analog input the touch electrode is wired to.
type Sensor interface {
	ReadRaw() int
}

// State is the pending touch request shared between the detector, which
// sets it, and the sequence player, which clears it once the debounce
// time has passed.
type State struct {
	Pending     bool
	TriggeredAt time.Time
}

// Debounced reports whether a pending touch is older than debounce.
func (s *State) Debounced(now time.Time, debounce time.Duration) bool {
	return s.Pending && now.Sub(s.TriggeredAt) > debounce
}

// Clear drops the pending touch so the next one can be detected.
func (s *State) Clear() {
	s.Pending = false
}

// Event describes a newly detected touch.
type Event struct {
	Reading    int
	Baseline   int
	Difference int
	Timestamp  time.Time
}
