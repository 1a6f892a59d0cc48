package service

import "errors"

var (
	// ErrNoReading is returned before the first successful sample.
	ErrNoReading = errors.New("no reading sampled yet")
	// ErrInvalidInterval rejects watering intervals outside 1..72 hours.
	ErrInvalidInterval  = errors.New("watering interval must be between 1 and 72 hours")
	ErrInvalidTimeRange = errors.New("invalid time range: from must be <= to")
	ErrUnknownEventType = errors.New("unknown event type")
)
