package evaluator

import (
	"time"

	"plant_monitor/internal/models"
)

// DefaultIntervalHours is the watering interval used when none is configured.
const DefaultIntervalHours = 24

// Allowed watering interval, in hours.
const (
	MinIntervalHours = 1
	MaxIntervalHours = 72
)

// ValidInterval reports whether hours lies within the allowed range.
func ValidInterval(hours int) bool {
	return hours >= MinIntervalHours && hours <= MaxIntervalHours
}

// NewWateringState returns the initial state for a plant. The last-watered
// sentinel is placed one interval in the past, so the first due check fires as
// soon as any further time has elapsed.
func NewWateringState(now time.Time, intervalHours int) models.WateringState {
	if intervalHours <= 0 {
		intervalHours = DefaultIntervalHours
	}
	return models.WateringState{
		LastWateredAt: now.Add(-time.Duration(intervalHours) * time.Hour),
		IntervalHours: intervalHours,
		History:       []time.Time{},
	}
}

// Interval returns the state's interval as a duration.
func Interval(s models.WateringState) time.Duration {
	h := s.IntervalHours
	if h <= 0 {
		h = DefaultIntervalHours
	}
	return time.Duration(h) * time.Hour
}

// IsWateringDue reports whether strictly more than the interval has passed
// since the last watering.
func IsWateringDue(s models.WateringState, now time.Time) bool {
	return now.Sub(s.LastWateredAt) > Interval(s)
}

// NextDue returns the instant after which the plant becomes due.
func NextDue(s models.WateringState) time.Time {
	return s.LastWateredAt.Add(Interval(s))
}

// RecordWatering returns a copy of s with now appended to the history and set
// as the last-watered time. s itself is left untouched.
func RecordWatering(s models.WateringState, now time.Time) models.WateringState {
	history := make([]time.Time, len(s.History), len(s.History)+1)
	copy(history, s.History)
	s.History = append(history, now)
	s.LastWateredAt = now
	return s
}
