package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/meltforce/ironlog/internal/journal"
	"github.com/meltforce/ironlog/internal/models"
)

// InsertTemplate stores a workout template with its plan entries in one
// transaction. Planned sets are stored as JSON on the plan row; they are
// only ever read back as a whole.
func (db *DB) InsertTemplate(ctx context.Context, t *models.WorkoutTemplate) error {
	return pgx.BeginFunc(ctx, db.Pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO templates (id, name) VALUES ($1,$2)`, t.ID, t.Name)
		if err != nil {
			return fmt.Errorf("inserting template: %w", err)
		}
		for _, plan := range t.Plans {
			if err := insertPlan(ctx, tx, plan); err != nil {
				return err
			}
		}
		return nil
	})
}

func insertPlan(ctx context.Context, tx pgx.Tx, plan models.ExercisePlan) error {
	sets, err := json.Marshal(plan.Sets)
	if err != nil {
		return fmt.Errorf("encoding planned sets: %w", err)
	}
	_, err = tx.Exec(ctx,
		`INSERT INTO exercise_plans (id, template_id, exercise_id, position, rest_seconds, notes, tempo, sets)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		plan.ID, plan.TemplateID, plan.ExerciseID, plan.Position,
		plan.RestSeconds, plan.Notes, plan.Tempo, sets)
	if err != nil {
		return fmt.Errorf("inserting exercise plan: %w", err)
	}
	return nil
}

// GetTemplate retrieves one template with its ordered plan entries.
func (db *DB) GetTemplate(ctx context.Context, id uuid.UUID) (*models.WorkoutTemplate, error) {
	var t models.WorkoutTemplate
	err := db.Pool.QueryRow(ctx,
		`SELECT id, name FROM templates WHERE id = $1`, id,
	).Scan(&t.ID, &t.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, journal.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying template: %w", err)
	}

	rows, err := db.Pool.Query(ctx,
		`SELECT id, template_id, exercise_id, position, rest_seconds, notes, tempo, sets
		 FROM exercise_plans
		 WHERE template_id = $1
		 ORDER BY position ASC`, id)
	if err != nil {
		return nil, fmt.Errorf("querying exercise plans: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var plan models.ExercisePlan
		var sets []byte
		if err := rows.Scan(&plan.ID, &plan.TemplateID, &plan.ExerciseID, &plan.Position,
			&plan.RestSeconds, &plan.Notes, &plan.Tempo, &sets); err != nil {
			return nil, fmt.Errorf("scanning exercise plan: %w", err)
		}
		if err := json.Unmarshal(sets, &plan.Sets); err != nil {
			return nil, fmt.Errorf("decoding planned sets: %w", err)
		}
		t.Plans = append(t.Plans, plan)
	}
	return &t, rows.Err()
}

// ListTemplates returns all templates without their plan entries; the
// template picker only needs names.
func (db *DB) ListTemplates(ctx context.Context) ([]models.WorkoutTemplate, error) {
	rows, err := db.Pool.Query(ctx, `SELECT id, name FROM templates ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying templates: %w", err)
	}
	defer rows.Close()

	var result []models.WorkoutTemplate
	for rows.Next() {
		var t models.WorkoutTemplate
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, fmt.Errorf("scanning template: %w", err)
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

// DeleteTemplate removes a template and its plan entries. Sessions recorded
// from it are untouched: they carry copies of the plan data and only
// reference the template by ID.
func (db *DB) DeleteTemplate(ctx context.Context, id uuid.UUID) error {
	return pgx.BeginFunc(ctx, db.Pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM exercise_plans WHERE template_id = $1`, id); err != nil {
			return fmt.Errorf("deleting exercise plans: %w", err)
		}
		tag, err := tx.Exec(ctx, `DELETE FROM templates WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("deleting template: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("deleting template: %s not found", id)
		}
		return nil
	})
}
