package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"plant_monitor/internal/evaluator"
	"plant_monitor/internal/logger"
	"plant_monitor/internal/metrics"
	"plant_monitor/internal/models"
	"plant_monitor/internal/repository"
)

// WateringService is the single owner of the watering state. Reads return
// copies; every change is persisted before it becomes visible.
type WateringService struct {
	repo    repository.WateringRepo
	events  repository.EventRepo
	metrics *metrics.Metrics
	log     *logger.Logger
	now     func() time.Time

	mu    sync.Mutex
	state models.WateringState
}

// NewWateringService loads the stored state, or starts a fresh one whose
// last watering lies exactly one interval in the past. A zero interval means
// the default; anything else outside 1..72 is rejected.
func NewWateringService(
	ctx context.Context,
	repo repository.WateringRepo,
	events repository.EventRepo,
	m *metrics.Metrics,
	log *logger.Logger,
	intervalHours int,
	now func() time.Time,
) (*WateringService, error) {
	if log == nil {
		log = logger.Nop()
	}
	if now == nil {
		now = time.Now
	}
	if intervalHours == 0 {
		intervalHours = evaluator.DefaultIntervalHours
	}
	if !evaluator.ValidInterval(intervalHours) {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidInterval, intervalHours)
	}

	st, err := repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load watering state: %w", err)
	}
	if st.IntervalHours == 0 {
		st = evaluator.NewWateringState(now().UTC(), intervalHours)
		if err := repo.Save(ctx, st); err != nil {
			return nil, fmt.Errorf("save initial watering state: %w", err)
		}
		log.Infow("watering_state_initialised", "interval_hours", st.IntervalHours, "last_watered_at", st.LastWateredAt)
	}

	return &WateringService{repo: repo, events: events, metrics: m, log: log, now: now, state: st}, nil
}

// State returns a copy of the current state.
func (s *WateringService) State() models.WateringState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Due reports whether more than one interval has passed since the last watering.
func (s *WateringService) Due() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return evaluator.IsWateringDue(s.state, s.now())
}

// History returns the most recent limit waterings, oldest first. limit <= 0 returns all.
func (s *WateringService) History(limit int) []time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Tail(limit)
}

// WaterNow records a manual watering.
func (s *WateringService) WaterNow(ctx context.Context) (models.WateringState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.recordLocked(ctx, s.now(), metrics.TriggerManual); err != nil {
		return models.WateringState{}, err
	}
	return s.snapshotLocked(), nil
}

// CheckAndWater records an automatic watering if one is due. The check and
// the update happen under one lock, so concurrent callers water at most once.
func (s *WateringService) CheckAndWater(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	due := evaluator.IsWateringDue(s.state, now)
	s.metrics.SetWateringDue(due)
	if !due {
		return false, nil
	}
	if err := s.recordLocked(ctx, now, metrics.TriggerAuto); err != nil {
		return false, err
	}
	return true, nil
}

// SetInterval changes the watering interval. It does not touch the history.
func (s *WateringService) SetInterval(ctx context.Context, hours int) (models.WateringState, error) {
	if !evaluator.ValidInterval(hours) {
		return models.WateringState{}, fmt.Errorf("%w: got %d", ErrInvalidInterval, hours)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.state.IntervalHours
	if prev == hours {
		return s.snapshotLocked(), nil
	}

	next := s.state
	next.IntervalHours = hours
	if err := s.repo.Save(ctx, next); err != nil {
		return models.WateringState{}, fmt.Errorf("save interval: %w", err)
	}
	s.state = next

	s.appendEvent(ctx, models.PlantEvent{
		OccurredAt:  s.now().UTC(),
		Type:        models.EventIntervalChange,
		Description: fmt.Sprintf("Watering interval changed from %dh to %dh", prev, hours),
		Metadata:    map[string]any{"from": prev, "to": hours},
	})
	return s.snapshotLocked(), nil
}

func (s *WateringService) recordLocked(ctx context.Context, now time.Time, trigger string) error {
	now = now.UTC()
	next := evaluator.RecordWatering(s.state, now)
	if err := s.repo.AppendWatering(ctx, now); err != nil {
		return fmt.Errorf("record watering: %w", err)
	}
	s.state = next

	s.metrics.Watered(trigger)
	s.metrics.SetWateringDue(false)
	s.log.Infow("watering_recorded", "trigger", trigger, "at", now)
	s.appendEvent(ctx, models.PlantEvent{
		OccurredAt:  now,
		Type:        models.EventWatering,
		Description: fmt.Sprintf("Plant watered (%s)", trigger),
		Metadata:    map[string]any{"trigger": trigger},
	})
	return nil
}

// appendEvent logs append failures instead of returning them.
func (s *WateringService) appendEvent(ctx context.Context, e models.PlantEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.Append(ctx, e); err != nil {
		s.log.Warnw("event_append_failed", "type", e.Type, "err", err)
	}
}

func (s *WateringService) snapshotLocked() models.WateringState {
	out := s.state
	out.History = s.state.Tail(0)
	return out
}
