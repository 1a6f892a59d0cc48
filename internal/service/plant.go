package service

import (
	"sync"
	"time"

	"plant_monitor/internal/evaluator"
	"plant_monitor/internal/models"
)

// PlantService turns readings into snapshots and remembers the latest one.
type PlantService struct {
	plantID   string
	evaluator *evaluator.Evaluator
	watering  *WateringService
	now       func() time.Time

	mu     sync.RWMutex
	latest models.Snapshot
	have   bool
}

func NewPlantService(plantID string, ev *evaluator.Evaluator, w *WateringService, now func() time.Time) *PlantService {
	if now == nil {
		now = time.Now
	}
	return &PlantService{plantID: plantID, evaluator: ev, watering: w, now: now}
}

// Latest returns the most recent sampled snapshot, or ErrNoReading.
func (s *PlantService) Latest() (models.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.have {
		return models.Snapshot{}, ErrNoReading
	}
	return s.latest, nil
}

// Evaluate builds a snapshot for r without storing it.
func (s *PlantService) Evaluate(r models.SensorReading) models.Snapshot {
	return models.Snapshot{
		PlantID:     s.plantID,
		Reading:     r,
		Advisory:    s.evaluator.Evaluate(r),
		WateringDue: s.watering.Due(),
		SampledAt:   s.now().UTC(),
	}
}

// observe evaluates a sampled reading and makes it the latest snapshot.
func (s *PlantService) observe(r models.SensorReading) models.Snapshot {
	snap := s.Evaluate(r)
	s.mu.Lock()
	s.latest = snap
	s.have = true
	s.mu.Unlock()
	return snap
}
