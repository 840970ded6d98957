package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/meltforce/ironlog/internal/models"
)

// InsertExercise adds a catalog entry. Returns true if inserted, false if
// the ID already exists.
func (db *DB) InsertExercise(ctx context.Context, ex models.ExerciseDefinition) (bool, error) {
	tag, err := db.Pool.Exec(ctx,
		`INSERT INTO exercises (id, name, muscle_group, measurement, hidden)
		 VALUES ($1,$2,$3,$4,$5)
		 ON CONFLICT DO NOTHING`,
		ex.ID, ex.Name, ex.MuscleGroup, ex.Measurement, ex.Hidden)
	if err != nil {
		return false, fmt.Errorf("inserting exercise: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ListExercises returns the catalog. Hidden entries are included only when
// includeHidden is set; history screens need them, pickers do not.
func (db *DB) ListExercises(ctx context.Context, includeHidden bool) ([]models.ExerciseDefinition, error) {
	query := `SELECT id, name, muscle_group, measurement, hidden FROM exercises`
	if !includeHidden {
		query += ` WHERE NOT hidden`
	}
	query += ` ORDER BY name ASC`

	rows, err := db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying exercises: %w", err)
	}
	defer rows.Close()

	var result []models.ExerciseDefinition
	for rows.Next() {
		var ex models.ExerciseDefinition
		if err := rows.Scan(&ex.ID, &ex.Name, &ex.MuscleGroup, &ex.Measurement, &ex.Hidden); err != nil {
			return nil, fmt.Errorf("scanning exercise: %w", err)
		}
		result = append(result, ex)
	}
	return result, rows.Err()
}

// ExerciseCatalog returns all definitions (hidden included) keyed by ID, for
// resolving logs against the catalog.
func (db *DB) ExerciseCatalog(ctx context.Context) (map[uuid.UUID]models.ExerciseDefinition, error) {
	list, err := db.ListExercises(ctx, true)
	if err != nil {
		return nil, err
	}
	catalog := make(map[uuid.UUID]models.ExerciseDefinition, len(list))
	for _, ex := range list {
		catalog[ex.ID] = ex
	}
	return catalog, nil
}

// HideExercise soft-deletes a catalog entry. Historical logs keep referencing
// it; the row is never removed.
func (db *DB) HideExercise(ctx context.Context, id uuid.UUID) error {
	tag, err := db.Pool.Exec(ctx, `UPDATE exercises SET hidden = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("hiding exercise: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("hiding exercise: %s not found", id)
	}
	return nil
}
