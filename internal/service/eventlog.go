package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"plant_monitor/internal/models"
	"plant_monitor/internal/repository"
)

// EventLogService answers event log queries for the API.
type EventLogService struct {
	eventRepo repository.EventRepo
}

func NewEventLogService(eventRepo repository.EventRepo) *EventLogService {
	return &EventLogService{eventRepo: eventRepo}
}

// normalizeToUTC returns t in UTC, preserving zero time values.
func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

// normalizeFilter puts the bounds in UTC, canonicalises the type and rejects
// inverted ranges, unknown types and negative limits.
func normalizeFilter(f LogFilter) (LogFilter, error) {
	out := LogFilter{
		From:  normalizeToUTC(f.From),
		To:    normalizeToUTC(f.To),
		Type:  strings.ToUpper(strings.TrimSpace(f.Type)),
		Limit: f.Limit,
	}
	if !out.From.IsZero() && !out.To.IsZero() && out.From.After(out.To) {
		return LogFilter{}, ErrInvalidTimeRange
	}
	if out.Type != "" && !models.IsEventType(out.Type) {
		return LogFilter{}, fmt.Errorf("%w: %q", ErrUnknownEventType, f.Type)
	}
	if out.Limit < 0 {
		return LogFilter{}, fmt.Errorf("negative limit %d", f.Limit)
	}
	return out, nil
}

// List returns matching events oldest first, trimmed to the newest Limit.
func (s *EventLogService) List(ctx context.Context, f LogFilter) ([]models.PlantEvent, error) {
	f, err := normalizeFilter(f)
	if err != nil {
		return nil, err
	}
	events, err := s.eventRepo.List(ctx, f.From, f.To, f.Type)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	if f.Limit > 0 && len(events) > f.Limit {
		events = events[len(events)-f.Limit:]
	}
	return events, nil
}
