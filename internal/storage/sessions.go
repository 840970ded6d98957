package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/meltforce/ironlog/internal/journal"
	"github.com/meltforce/ironlog/internal/models"
)

// InsertSession stores a freshly created session graph.
func (db *DB) InsertSession(ctx context.Context, s *models.Session) error {
	return pgx.BeginFunc(ctx, db.Pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO sessions (id, user_id, template_id, start_time, end_time, started, completed)
			 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
			s.ID, s.UserID, s.TemplateID, s.Start, s.End, s.Started, s.Completed)
		if err != nil {
			return fmt.Errorf("inserting session: %w", err)
		}
		return insertSessionLogs(ctx, tx, s)
	})
}

// SaveSession persists the full session graph in one transaction. Child rows
// are replaced wholesale; a session's log set is small and the graph in
// memory is the source of truth.
func (db *DB) SaveSession(ctx context.Context, s *models.Session) error {
	return pgx.BeginFunc(ctx, db.Pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE sessions SET start_time = $2, end_time = $3, started = $4, completed = $5
			 WHERE id = $1`,
			s.ID, s.Start, s.End, s.Started, s.Completed)
		if err != nil {
			return fmt.Errorf("updating session: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("saving session: %s not found", s.ID)
		}

		if _, err := tx.Exec(ctx,
			`DELETE FROM set_logs WHERE exercise_log_id IN
			 (SELECT id FROM exercise_logs WHERE session_id = $1)`, s.ID); err != nil {
			return fmt.Errorf("clearing set logs: %w", err)
		}
		if _, err := tx.Exec(ctx,
			`DELETE FROM exercise_logs WHERE session_id = $1`, s.ID); err != nil {
			return fmt.Errorf("clearing exercise logs: %w", err)
		}
		return insertSessionLogs(ctx, tx, s)
	})
}

func insertSessionLogs(ctx context.Context, tx pgx.Tx, s *models.Session) error {
	for _, ex := range s.Exercises {
		_, err := tx.Exec(ctx,
			`INSERT INTO exercise_logs (id, session_id, plan_id, exercise_id, position, rest_seconds)
			 VALUES ($1,$2,$3,$4,$5,$6)`,
			ex.ID, ex.SessionID, ex.PlanID, ex.ExerciseID, ex.Position, ex.RestSeconds)
		if err != nil {
			return fmt.Errorf("inserting exercise log: %w", err)
		}
		for _, set := range ex.Sets {
			if err := insertSetLog(ctx, tx, ex.ID, set); err != nil {
				return err
			}
		}
	}
	return nil
}

func insertSetLog(ctx context.Context, tx pgx.Tx, exerciseLogID uuid.UUID, set models.SetLog) error {
	var targetReps *int
	var targetWeight, targetSeconds, targetMeters *float64
	if set.Weight != nil {
		targetReps, targetWeight = &set.Weight.Reps, &set.Weight.Weight
	}
	if set.Distance != nil {
		targetSeconds, targetMeters = &set.Distance.Seconds, &set.Distance.Meters
	}

	var resultReps, resultRIR *int
	var resultWeight, resultSeconds, resultMeters *float64
	if set.Result != nil {
		if w := set.Result.Weight; w != nil {
			resultReps, resultWeight, resultRIR = &w.Reps, &w.Weight, w.RIR
		}
		if d := set.Result.Distance; d != nil {
			resultSeconds, resultMeters = &d.Seconds, &d.Meters
		}
	}

	_, err := tx.Exec(ctx,
		`INSERT INTO set_logs (exercise_log_id, set_index, set_type, status,
		 target_reps, target_weight, target_seconds, target_meters,
		 result_reps, result_weight, result_rir, result_seconds, result_meters)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		exerciseLogID, set.Index, set.Type, set.Status,
		targetReps, targetWeight, targetSeconds, targetMeters,
		resultReps, resultWeight, resultRIR, resultSeconds, resultMeters)
	if err != nil {
		return fmt.Errorf("inserting set log: %w", err)
	}
	return nil
}

// GetSession retrieves one session with its full log graph.
func (db *DB) GetSession(ctx context.Context, id uuid.UUID) (*models.Session, error) {
	var s models.Session
	err := db.Pool.QueryRow(ctx,
		`SELECT id, user_id, template_id, start_time, end_time, started, completed
		 FROM sessions WHERE id = $1`, id,
	).Scan(&s.ID, &s.UserID, &s.TemplateID, &s.Start, &s.End, &s.Started, &s.Completed)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, journal.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying session: %w", err)
	}
	if err := db.loadSessionLogs(ctx, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (db *DB) loadSessionLogs(ctx context.Context, s *models.Session) error {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, session_id, plan_id, exercise_id, position, rest_seconds
		 FROM exercise_logs WHERE session_id = $1 ORDER BY position ASC`, s.ID)
	if err != nil {
		return fmt.Errorf("querying exercise logs: %w", err)
	}
	defer rows.Close()

	byID := make(map[uuid.UUID]int)
	for rows.Next() {
		var ex models.ExerciseLog
		if err := rows.Scan(&ex.ID, &ex.SessionID, &ex.PlanID, &ex.ExerciseID, &ex.Position, &ex.RestSeconds); err != nil {
			return fmt.Errorf("scanning exercise log: %w", err)
		}
		byID[ex.ID] = len(s.Exercises)
		s.Exercises = append(s.Exercises, ex)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	setRows, err := db.Pool.Query(ctx,
		`SELECT exercise_log_id, set_index, set_type, status,
		 target_reps, target_weight, target_seconds, target_meters,
		 result_reps, result_weight, result_rir, result_seconds, result_meters
		 FROM set_logs
		 WHERE exercise_log_id IN (SELECT id FROM exercise_logs WHERE session_id = $1)
		 ORDER BY set_index ASC`, s.ID)
	if err != nil {
		return fmt.Errorf("querying set logs: %w", err)
	}
	defer setRows.Close()

	for setRows.Next() {
		var logID uuid.UUID
		set, err := scanSetLog(setRows, &logID)
		if err != nil {
			return err
		}
		if i, ok := byID[logID]; ok {
			s.Exercises[i].Sets = append(s.Exercises[i].Sets, set)
		}
	}
	return setRows.Err()
}

// scanSetLog reassembles a SetLog from its nullable columns.
func scanSetLog(rows pgx.Rows, logID *uuid.UUID) (models.SetLog, error) {
	var set models.SetLog
	var targetReps, resultReps, resultRIR *int
	var targetWeight, targetSeconds, targetMeters *float64
	var resultWeight, resultSeconds, resultMeters *float64

	if err := rows.Scan(logID, &set.Index, &set.Type, &set.Status,
		&targetReps, &targetWeight, &targetSeconds, &targetMeters,
		&resultReps, &resultWeight, &resultRIR, &resultSeconds, &resultMeters); err != nil {
		return set, fmt.Errorf("scanning set log: %w", err)
	}

	if targetReps != nil && targetWeight != nil {
		set.Weight = &models.WeightTarget{Reps: *targetReps, Weight: *targetWeight}
	}
	if targetSeconds != nil && targetMeters != nil {
		set.Distance = &models.DistanceTarget{Seconds: *targetSeconds, Meters: *targetMeters}
	}
	if resultReps != nil && resultWeight != nil {
		set.Result = &models.SetResult{Weight: &models.WeightResult{Reps: *resultReps, Weight: *resultWeight, RIR: resultRIR}}
	}
	if resultSeconds != nil && resultMeters != nil {
		set.Result = &models.SetResult{Distance: &models.DistanceResult{Seconds: *resultSeconds, Meters: *resultMeters}}
	}
	return set, nil
}

// QuerySessions retrieves sessions started in a time range, newest first,
// with their full log graphs.
func (db *DB) QuerySessions(ctx context.Context, start, end time.Time, userID int) ([]*models.Session, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, user_id, template_id, start_time, end_time, started, completed
		 FROM sessions
		 WHERE start_time >= $1 AND start_time < $2 AND user_id = $3
		 ORDER BY start_time DESC`, start, end, userID)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	var result []*models.Session
	for rows.Next() {
		var s models.Session
		if err := rows.Scan(&s.ID, &s.UserID, &s.TemplateID, &s.Start, &s.End, &s.Started, &s.Completed); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		result = append(result, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, s := range result {
		if err := db.loadSessionLogs(ctx, s); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// ListStaleSessions returns started, uncompleted sessions that began at or
// before the cutoff, full graphs included so the sweeper can save them back.
func (db *DB) ListStaleSessions(ctx context.Context, startedBefore time.Time) ([]*models.Session, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id FROM sessions
		 WHERE started AND NOT completed AND start_time <= $1
		 ORDER BY start_time ASC`, startedBefore)
	if err != nil {
		return nil, fmt.Errorf("querying stale sessions: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning stale session id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var result []*models.Session
	for _, id := range ids {
		s, err := db.GetSession(ctx, id)
		if err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, nil
}

// SessionDates returns the start timestamps of all started sessions, oldest
// first. Input for the streak calculator.
func (db *DB) SessionDates(ctx context.Context, userID int) ([]time.Time, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT start_time FROM sessions
		 WHERE user_id = $1 AND started
		 ORDER BY start_time ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying session dates: %w", err)
	}
	defer rows.Close()

	var dates []time.Time
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("scanning session date: %w", err)
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}
