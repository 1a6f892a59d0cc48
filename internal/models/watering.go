package models

import "time"

// WateringState tracks when a plant was last watered and how often it should be.
// LastWateredAt is always the latest entry in History, or the initial
// sentinel while History is empty.
type WateringState struct {
	LastWateredAt time.Time   `json:"last_watered_at"`
	IntervalHours int         `json:"interval_hours"`
	History       []time.Time `json:"history"`
}

// Tail returns the most recent n history entries, oldest first.
func (s WateringState) Tail(n int) []time.Time {
	if n <= 0 || n >= len(s.History) {
		out := make([]time.Time, len(s.History))
		copy(out, s.History)
		return out
	}
	out := make([]time.Time, n)
	copy(out, s.History[len(s.History)-n:])
	return out
}
