package service

import (
	"context"
	"testing"
	"time"

	"plant_monitor/internal/evaluator"
	"plant_monitor/internal/models"
	"plant_monitor/internal/repository"
)

func TestPlantService_EvaluateDoesNotStore(t *testing.T) {
	w, _, clock := newTestWatering(t, 24)
	p := NewPlantService("fern", evaluator.NewSeeded(evaluator.DefaultRules(), 1), w, clock.Now)

	snap := p.Evaluate(models.SensorReading{Temperature: 25, Humidity: 55, Moisture: models.MoistureOf(models.SoilWet), Light: 500, PH: 6.5})
	if snap.Advisory.Code != evaluator.CodeAllWell || snap.PlantID != "fern" {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	if !snap.SampledAt.Equal(testStart) {
		t.Fatalf("SampledAt = %v", snap.SampledAt)
	}
	if _, err := p.Latest(); err != ErrNoReading {
		t.Fatalf("Evaluate must not replace the latest snapshot, got %v", err)
	}
}

func TestNewService_WiresComponents(t *testing.T) {
	repos := repository.NewMemoryRepository()
	clock := newFakeClock(testStart)

	svc, err := NewService(context.Background(), repos, Deps{
		Source: &scriptedSource{steps: []func() (models.SensorReading, error){ok(hotReading())}},
	}, Options{
		PlantID:       "fern",
		IntervalHours: 6,
		AutoWater:     true,
		SigningKey:    "k",
		TokenTTL:      time.Minute,
		Now:           clock.Now,
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	if svc.State().IntervalHours != 6 {
		t.Fatalf("interval = %d", svc.State().IntervalHours)
	}
	if _, err := svc.SetInterval(context.Background(), 72); err != nil {
		t.Fatalf("SetInterval: %v", err)
	}
	if svc.Evaluate(hotReading()).Advisory.Code != evaluator.CodeTooHot {
		t.Fatalf("evaluator not wired")
	}
	if _, err := svc.SignUp(context.Background(), "gardener", "pw"); err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if _, err := svc.GenerateToken(context.Background(), "gardener", "pw"); err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
}
