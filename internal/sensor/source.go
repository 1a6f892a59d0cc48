// Package sensor provides the places a SensorReading can come from: a local
// simulator, a hardware probe, or a remote sensor server over TCP.
package sensor

import (
	"context"
	"errors"

	"plant_monitor/internal/models"
)

// CommandGetData asks a sensor server for one reading. Commands and replies
// are newline terminated.
const CommandGetData = "GET_DATA"

var (
	// ErrSensorUnavailable is returned while the circuit breaker is open.
	ErrSensorUnavailable = errors.New("sensor unavailable")
	// ErrBadReply is returned when a sensor server answers with something other than a reading.
	ErrBadReply = errors.New("malformed sensor reply")
)

// Source yields readings on demand.
type Source interface {
	Read(ctx context.Context) (models.SensorReading, error)
}

// SourceFunc adapts a plain function to Source.
type SourceFunc func(ctx context.Context) (models.SensorReading, error)

func (f SourceFunc) Read(ctx context.Context) (models.SensorReading, error) { return f(ctx) }
