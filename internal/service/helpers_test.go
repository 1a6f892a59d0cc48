package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"plant_monitor/internal/repository"
)

// fakeClock is a settable time source.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock(t time.Time) *fakeClock { return &fakeClock{t: t} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

var testStart = time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

func newTestWatering(t *testing.T, hours int) (*WateringService, *repository.Repository, *fakeClock) {
	t.Helper()
	repos := repository.NewMemoryRepository()
	clock := newFakeClock(testStart)
	w, err := NewWateringService(context.Background(), repos.WateringRepo, repos.EventRepo, nil, nil, hours, clock.Now)
	if err != nil {
		t.Fatalf("NewWateringService: %v", err)
	}
	return w, repos, clock
}

func eventTypes(t *testing.T, repos *repository.Repository) []string {
	t.Helper()
	evs, err := repos.EventRepo.List(context.Background(), time.Time{}, time.Time{}, "")
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	out := make([]string, 0, len(evs))
	for _, e := range evs {
		out = append(out, e.Type)
	}
	return out
}
