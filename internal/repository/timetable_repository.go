package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/polarhive/timetable-backend/internal/model"
)

// ErrNotFound is returned when no timetable is stored under a name.
var ErrNotFound = errors.New("timetable not found")

// TimetableRepository persists normalized WeekGrid documents as JSONB keyed
// by their canonical derived name.
type TimetableRepository struct {
	pool *pgxpool.Pool
}

func NewTimetableRepository(pool *pgxpool.Pool) *TimetableRepository {
	return &TimetableRepository{pool: pool}
}

// Upsert stores the document under name, replacing any previous version.
func (r *TimetableRepository) Upsert(ctx context.Context, name string, grid model.WeekGrid) error {
	doc, err := json.Marshal(grid)
	if err != nil {
		return fmt.Errorf("marshal timetable: %w", err)
	}
	_, err = r.pool.Exec(ctx,
		`INSERT INTO timetables (name, document) VALUES ($1, $2)
		 ON CONFLICT (name) DO UPDATE SET document = EXCLUDED.document, updated_at = NOW()`,
		name, doc)
	return err
}

// GetByName loads one stored timetable document.
func (r *TimetableRepository) GetByName(ctx context.Context, name string) (model.WeekGrid, error) {
	var doc []byte
	err := r.pool.QueryRow(ctx,
		`SELECT document FROM timetables WHERE name = $1`, name).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.WeekGrid{}, ErrNotFound
	}
	if err != nil {
		return model.WeekGrid{}, err
	}

	var grid model.WeekGrid
	if err := json.Unmarshal(doc, &grid); err != nil {
		return model.WeekGrid{}, fmt.Errorf("unmarshal timetable %s: %w", name, err)
	}
	return grid, nil
}

// List returns the stored index (name + metadata), sorted by name.
func (r *TimetableRepository) List(ctx context.Context) ([]model.StoredTimetable, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT name, document -> 'meta' FROM timetables ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var index []model.StoredTimetable
	for rows.Next() {
		var entry model.StoredTimetable
		var meta []byte
		if err := rows.Scan(&entry.Name, &meta); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(meta, &entry.Meta); err != nil {
			return nil, fmt.Errorf("unmarshal meta for %s: %w", entry.Name, err)
		}
		index = append(index, entry)
	}
	return index, rows.Err()
}
