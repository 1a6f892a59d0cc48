package sensor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"plant_monitor/internal/logger"
	"plant_monitor/internal/models"

	"github.com/sony/gobreaker"
)

// Guarded wraps a Source with a circuit breaker so a dead sensor is not
// polled on every tick.
type Guarded struct {
	src Source
	cb  *gobreaker.CircuitBreaker
}

// NewGuarded trips after maxFailures consecutive errors and stays open for openFor.
func NewGuarded(name string, src Source, maxFailures uint32, openFor time.Duration, log *logger.Logger) *Guarded {
	if maxFailures == 0 {
		maxFailures = 1
	}
	if log == nil {
		log = logger.Nop()
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    name,
		Timeout: openFor,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warnf("sensor breaker %s: %s -> %s", name, from, to)
		},
	})
	return &Guarded{src: src, cb: cb}
}

func (g *Guarded) Read(ctx context.Context) (models.SensorReading, error) {
	out, err := g.cb.Execute(func() (interface{}, error) {
		return g.src.Read(ctx)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return models.SensorReading{}, fmt.Errorf("%w: %v", ErrSensorUnavailable, err)
		}
		return models.SensorReading{}, err
	}
	return out.(models.SensorReading), nil
}

// State reports the breaker state, e.g. "closed" or "open".
func (g *Guarded) State() string { return g.cb.State().String() }
