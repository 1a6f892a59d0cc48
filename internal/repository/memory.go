package repository

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"plant_monitor/internal/models"
)

// WateringMemory keeps the watering state for the lifetime of the process.
type WateringMemory struct {
	mu    sync.Mutex
	state models.WateringState
	saved bool
}

func NewWateringMemory() *WateringMemory { return &WateringMemory{} }

var _ WateringRepo = (*WateringMemory)(nil)

func (r *WateringMemory) Load(context.Context) (models.WateringState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.saved {
		return models.WateringState{}, nil
	}
	s := r.state
	s.History = append([]time.Time(nil), r.state.History...)
	return s, nil
}

func (r *WateringMemory) Save(_ context.Context, s models.WateringState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.LastWateredAt = s.LastWateredAt.UTC()
	r.state.IntervalHours = s.IntervalHours
	r.saved = true
	return nil
}

func (r *WateringMemory) AppendWatering(_ context.Context, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.saved {
		return ErrStateMissing
	}
	at = at.UTC()
	r.state.LastWateredAt = at
	r.state.History = append(r.state.History, at)
	return nil
}

// EventMemory is an in-process event log.
type EventMemory struct {
	mu     sync.RWMutex
	events []models.PlantEvent
}

func NewEventMemory() *EventMemory { return &EventMemory{} }

var _ EventRepo = (*EventMemory)(nil)

func (r *EventMemory) Append(_ context.Context, e models.PlantEvent) error {
	e = normalizeEvent(e)
	r.mu.Lock()
	defer r.mu.Unlock()
	// keep ascending order even if callers pass older timestamps
	i := len(r.events)
	for i > 0 && r.events[i-1].OccurredAt.After(e.OccurredAt) {
		i--
	}
	r.events = append(r.events, models.PlantEvent{})
	copy(r.events[i+1:], r.events[i:])
	r.events[i] = e
	return nil
}

func (r *EventMemory) List(_ context.Context, from, to time.Time, typ string) ([]models.PlantEvent, error) {
	typ = strings.ToUpper(strings.TrimSpace(typ))
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.PlantEvent, 0, len(r.events))
	for _, e := range r.events {
		if !from.IsZero() && e.OccurredAt.Before(from) {
			continue
		}
		if !to.IsZero() && e.OccurredAt.After(to) {
			continue
		}
		if typ != "" && e.Type != typ {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// UserMemory stores accounts in a map keyed by username.
type UserMemory struct {
	mu     sync.Mutex
	nextID int
	users  map[string]models.User
}

func NewUserMemory() *UserMemory {
	return &UserMemory{users: make(map[string]models.User)}
}

var _ Authorization = (*UserMemory)(nil)

func (r *UserMemory) Create(_ context.Context, username, passwordHash string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[username]; ok {
		return 0, fmt.Errorf("insert user %q: %w", username, ErrUserExists)
	}
	r.nextID++
	r.users[username] = models.User{ID: r.nextID, Username: username, PasswordHash: passwordHash}
	return r.nextID, nil
}

func (r *UserMemory) GetByUsername(_ context.Context, username string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[username]
	if !ok {
		return nil, nil
	}
	return &u, nil
}
