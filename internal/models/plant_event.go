package models

import "time"

// Event types written to the plant event log.
const (
	EventStart          = "START"
	EventStop           = "STOP"
	EventWatering       = "WATERING"
	EventIntervalChange = "INTERVAL_CHANGE"
	EventSensorError    = "SENSOR_ERROR"
)

// IsEventType reports whether s is one of the Event* constants.
func IsEventType(s string) bool {
	switch s {
	case EventStart, EventStop, EventWatering, EventIntervalChange, EventSensorError:
		return true
	}
	return false
}

// PlantEvent is a single log entry.
type PlantEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`        // START | STOP | WATERING | INTERVAL_CHANGE | SENSOR_ERROR
	Description string    `json:"description"` // human-readable
	Metadata    any       `json:"metadata,omitempty"`
}
