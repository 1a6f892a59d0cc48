// Package publish ships plant snapshots to external telemetry sinks.
package publish

import (
	"context"
	"errors"

	"plant_monitor/internal/logger"
	"plant_monitor/internal/models"
)

// Publisher delivers one snapshot to a sink.
type Publisher interface {
	Publish(ctx context.Context, s models.Snapshot) error
	Close() error
}

// Fanout forwards each snapshot to every publisher. A failing sink is logged
// and never blocks the others.
type Fanout struct {
	pubs []Publisher
	log  *logger.Logger
	// OnError, when set, is called once per failed sink.
	OnError func(sink string, err error)
}

// Named lets a publisher report a sink name in logs.
type Named interface {
	Name() string
}

func NewFanout(log *logger.Logger, pubs ...Publisher) *Fanout {
	if log == nil {
		log = logger.Nop()
	}
	return &Fanout{pubs: pubs, log: log}
}

// Len reports how many sinks are attached.
func (f *Fanout) Len() int { return len(f.pubs) }

func (f *Fanout) Publish(ctx context.Context, s models.Snapshot) error {
	for _, p := range f.pubs {
		if err := p.Publish(ctx, s); err != nil {
			name := sinkName(p)
			f.log.Warnw("publish_failed", "sink", name, "err", err)
			if f.OnError != nil {
				f.OnError(name, err)
			}
		}
	}
	return nil
}

func (f *Fanout) Close() error {
	var errs []error
	for _, p := range f.pubs {
		if err := p.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func sinkName(p Publisher) string {
	if n, ok := p.(Named); ok {
		return n.Name()
	}
	return "unknown"
}
