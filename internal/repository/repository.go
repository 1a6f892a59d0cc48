package repository

import (
	"context"
	"database/sql"
	"time"

	"plant_monitor/internal/models"
)

// Authorization stores operator accounts. GetByUsername returns (nil, nil)
// for an unknown user.
type Authorization interface {
	Create(ctx context.Context, username, hash string) (int, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// WateringRepo stores the single plant's watering state and history.
// Load returns a zero state (IntervalHours == 0) when nothing is stored yet.
type WateringRepo interface {
	Load(ctx context.Context) (models.WateringState, error)
	Save(ctx context.Context, s models.WateringState) error
	AppendWatering(ctx context.Context, at time.Time) error
}

type EventRepo interface {
	Append(ctx context.Context, e models.PlantEvent) error
	List(ctx context.Context, from, to time.Time, typ string) ([]models.PlantEvent, error)
}

type Repository struct {
	WateringRepo WateringRepo
	EventRepo    EventRepo
	Auth         Authorization
}

// NewRepository returns SQLite-backed repositories sharing db.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		WateringRepo: NewWateringSQLite(db),
		EventRepo:    NewEventSQLite(db),
		Auth:         NewUserRepository(db),
	}
}

// NewMemoryRepository returns repositories that live only as long as the process.
func NewMemoryRepository() *Repository {
	return &Repository{
		WateringRepo: NewWateringMemory(),
		EventRepo:    NewEventMemory(),
		Auth:         NewUserMemory(),
	}
}
