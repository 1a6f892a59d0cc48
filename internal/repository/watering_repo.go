package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"plant_monitor/internal/models"
)

// ErrStateMissing is returned when a watering is recorded before any state was saved.
var ErrStateMissing = errors.New("watering state not initialised")

type WateringSQLite struct {
	db *sql.DB
}

func NewWateringSQLite(db *sql.DB) *WateringSQLite { return &WateringSQLite{db: db} }

var _ WateringRepo = (*WateringSQLite)(nil)

const (
	selectWateringStateSQL = `SELECT last_watered_at, interval_hours FROM watering_state WHERE id = 1`
	selectWateringHistSQL  = `SELECT watered_at FROM watering_history ORDER BY id ASC`
	upsertWateringStateSQL = `INSERT INTO watering_state (id, last_watered_at, interval_hours, updated_at) VALUES (1, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET last_watered_at = excluded.last_watered_at, interval_hours = excluded.interval_hours, updated_at = excluded.updated_at`
	updateLastWateredSQL = `UPDATE watering_state SET last_watered_at = ?, updated_at = ? WHERE id = 1`
	insertWateringSQL    = `INSERT INTO watering_history (watered_at) VALUES (?)`
)

// Load returns the stored state with its full history, or a zero state if
// nothing has been saved yet.
func (r *WateringSQLite) Load(ctx context.Context) (models.WateringState, error) {
	var s models.WateringState
	err := r.db.QueryRowContext(ctx, selectWateringStateSQL).Scan(&s.LastWateredAt, &s.IntervalHours)
	if errors.Is(err, sql.ErrNoRows) {
		return models.WateringState{}, nil
	}
	if err != nil {
		return models.WateringState{}, fmt.Errorf("select watering state: %w", err)
	}
	s.LastWateredAt = s.LastWateredAt.UTC()

	rows, err := r.db.QueryContext(ctx, selectWateringHistSQL)
	if err != nil {
		return models.WateringState{}, fmt.Errorf("query watering history: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var at time.Time
		if err := rows.Scan(&at); err != nil {
			return models.WateringState{}, fmt.Errorf("scan watering history: %w", err)
		}
		s.History = append(s.History, at.UTC())
	}
	if err := rows.Err(); err != nil {
		return models.WateringState{}, err
	}
	return s, nil
}

// Save writes LastWateredAt and IntervalHours. History is only ever
// extended through AppendWatering.
func (r *WateringSQLite) Save(ctx context.Context, s models.WateringState) error {
	if _, err := r.db.ExecContext(ctx, upsertWateringStateSQL,
		s.LastWateredAt.UTC(),
		s.IntervalHours,
		time.Now().UTC(),
	); err != nil {
		return fmt.Errorf("upsert watering state: %w", err)
	}
	return nil
}

// AppendWatering moves LastWateredAt to at and adds it to the history in one transaction.
func (r *WateringSQLite) AppendWatering(ctx context.Context, at time.Time) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin watering tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	at = at.UTC()
	res, err := tx.ExecContext(ctx, updateLastWateredSQL, at, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update last watered: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrStateMissing
	}
	if _, err = tx.ExecContext(ctx, insertWateringSQL, at); err != nil {
		return fmt.Errorf("insert watering: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit watering tx: %w", err)
	}
	return nil
}
