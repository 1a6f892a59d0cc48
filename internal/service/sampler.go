package service

import (
	"context"
	"time"

	"plant_monitor/internal/logger"
	"plant_monitor/internal/metrics"
	"plant_monitor/internal/models"
	"plant_monitor/internal/publish"
	"plant_monitor/internal/repository"
	"plant_monitor/internal/sensor"
)

const stopEventTimeout = 2 * time.Second

// SamplerService polls the sensor on a fixed tick and drives everything that
// follows from a reading: advisory, auto-watering, metrics and publishing.
type SamplerService struct {
	src       sensor.Source
	plant     *PlantService
	watering  *WateringService
	eventRepo repository.EventRepo
	pub       publish.Publisher
	metrics   *metrics.Metrics
	log       *logger.Logger
	autoWater bool

	// failing suppresses repeated SENSOR_ERROR events while the sensor stays down.
	failing bool
}

func NewSamplerService(
	src sensor.Source,
	plant *PlantService,
	watering *WateringService,
	eventRepo repository.EventRepo,
	pub publish.Publisher,
	m *metrics.Metrics,
	log *logger.Logger,
	autoWater bool,
) *SamplerService {
	if log == nil {
		log = logger.Nop()
	}
	return &SamplerService{
		src:       src,
		plant:     plant,
		watering:  watering,
		eventRepo: eventRepo,
		pub:       pub,
		metrics:   m,
		log:       log,
		autoWater: autoWater,
	}
}

// Run samples once immediately, then on every tick until ctx is cancelled.
func (s *SamplerService) Run(ctx context.Context, tick time.Duration) {
	s.appendEvent(ctx, models.EventStart, "Sampler started", map[string]any{"tick": tick.String()})
	s.log.Infow("sampler_started", "tick", tick)

	t := time.NewTicker(tick)
	defer t.Stop()

	_, _ = s.Tick(ctx)
	for {
		select {
		case <-ctx.Done():
			stopCtx, cancel := context.WithTimeout(context.Background(), stopEventTimeout)
			s.appendEvent(stopCtx, models.EventStop, "Sampler stopped", nil)
			cancel()
			s.log.Infow("sampler_stopped")
			return
		case <-t.C:
			_, _ = s.Tick(ctx)
		}
	}
}

// Tick performs one sampling cycle. A sensor failure skips the cycle and
// leaves the previous snapshot in place.
func (s *SamplerService) Tick(ctx context.Context) (models.Snapshot, error) {
	reading, err := s.src.Read(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return models.Snapshot{}, err
		}
		s.metrics.SensorError()
		s.log.Warnw("sensor_read_failed", "err", err)
		if !s.failing {
			s.failing = true
			s.appendEvent(ctx, models.EventSensorError, "Sensor read failed", map[string]any{"error": err.Error()})
		}
		return models.Snapshot{}, err
	}
	if s.failing {
		s.failing = false
		s.log.Infow("sensor_recovered")
	}

	if s.autoWater {
		if _, err := s.watering.CheckAndWater(ctx); err != nil {
			s.log.Errorw("auto_watering_failed", "err", err)
		}
	}

	snap := s.plant.observe(reading)
	s.metrics.ObserveSnapshot(snap)
	s.log.Debugw("snapshot_sampled", "reading", snap.Reading, "advisory", snap.Advisory.Code, "watering_due", snap.WateringDue)

	if s.pub != nil {
		if err := s.pub.Publish(ctx, snap); err != nil {
			s.log.Warnw("publish_failed", "err", err)
		}
	}
	return snap, nil
}

func (s *SamplerService) appendEvent(ctx context.Context, typ, desc string, meta map[string]any) {
	if s.eventRepo == nil {
		return
	}
	e := models.PlantEvent{OccurredAt: time.Now().UTC(), Type: typ, Description: desc}
	if meta != nil {
		e.Metadata = meta
	}
	if err := s.eventRepo.Append(ctx, e); err != nil {
		s.log.Warnw("event_append_failed", "type", typ, "err", err)
	}
}
