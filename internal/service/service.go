package service

import (
	"context"
	"fmt"
	"time"

	"plant_monitor/internal/evaluator"
	"plant_monitor/internal/logger"
	"plant_monitor/internal/metrics"
	"plant_monitor/internal/models"
	"plant_monitor/internal/publish"
	"plant_monitor/internal/repository"
	"plant_monitor/internal/sensor"
)

// Authorization guards the control endpoints with operator accounts.
type Authorization interface {
	SignUp(ctx context.Context, username, password string) (int, error)
	GenerateToken(ctx context.Context, username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// Plant exposes the latest snapshot and on-demand evaluation.
type Plant interface {
	Latest() (models.Snapshot, error)
	Evaluate(r models.SensorReading) models.Snapshot
}

// Watering owns the plant's watering state. All changes go through it.
type Watering interface {
	State() models.WateringState
	Due() bool
	WaterNow(ctx context.Context) (models.WateringState, error)
	CheckAndWater(ctx context.Context) (bool, error)
	SetInterval(ctx context.Context, hours int) (models.WateringState, error)
	History(limit int) []time.Time
}

// EventLog exposes append-only logs with filtering access.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]models.PlantEvent, error)
}

// Sampler runs the background loop that polls the sensor.
// Stop via context cancellation in main() for graceful shutdown.
type Sampler interface {
	Run(ctx context.Context, tick time.Duration)
}

type Service struct {
	Plant
	Watering
	EventLog
	Sampler
	Authorization
}

// Deps are the collaborators the services are built from. Publisher, Metrics
// and Log may be nil.
type Deps struct {
	Source    sensor.Source
	Evaluator *evaluator.Evaluator
	Publisher publish.Publisher
	Metrics   *metrics.Metrics
	Log       *logger.Logger
}

type Options struct {
	PlantID       string
	IntervalHours int // used only when no state is stored yet
	AutoWater     bool
	SigningKey    string
	TokenTTL      time.Duration
	Now           func() time.Time
}

// NewService wires repositories and collaborators into concrete services. It
// loads the stored watering state or initialises a fresh one.
func NewService(ctx context.Context, repos *repository.Repository, deps Deps, opts Options) (*Service, error) {
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if deps.Evaluator == nil {
		deps.Evaluator = evaluator.New(evaluator.DefaultRules(), nil)
	}

	watering, err := NewWateringService(ctx, repos.WateringRepo, repos.EventRepo, deps.Metrics, deps.Log.Named("watering"), opts.IntervalHours, opts.Now)
	if err != nil {
		return nil, fmt.Errorf("init watering: %w", err)
	}
	plant := NewPlantService(opts.PlantID, deps.Evaluator, watering, opts.Now)

	return &Service{
		Plant:         plant,
		Watering:      watering,
		EventLog:      NewEventLogService(repos.EventRepo),
		Sampler:       NewSamplerService(deps.Source, plant, watering, repos.EventRepo, deps.Publisher, deps.Metrics, deps.Log.Named("sampler"), opts.AutoWater),
		Authorization: NewAuthService(repos.Auth, opts.SigningKey, opts.TokenTTL),
	}, nil
}
