package service

import "time"

// LogFilter supports history filtering by time range and type.
type LogFilter struct {
	From time.Time // inclusive; zero means no lower bound
	To   time.Time // inclusive; zero means no upper bound
	Type string    // "", "START", "STOP", "WATERING", "INTERVAL_CHANGE", "SENSOR_ERROR"
	// Limit keeps only the most recent events; zero keeps all.
	Limit int
}
