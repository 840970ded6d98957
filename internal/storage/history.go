package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/meltforce/ironlog/internal/models"
	"github.com/meltforce/ironlog/internal/stats"
)

// ExerciseHistory returns a date-ordered list of one exercise's sets across
// all completed sessions: the read-only input the PR tracker and 1RM
// estimator consume. Derived stats never mutate session state.
func (db *DB) ExerciseHistory(ctx context.Context, exerciseID uuid.UUID, userID int) ([]stats.HistoryEntry, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT s.id, s.start_time, sl.set_index, sl.set_type, sl.status,
		 sl.target_reps, sl.target_weight, sl.target_seconds, sl.target_meters,
		 sl.result_reps, sl.result_weight, sl.result_rir, sl.result_seconds, sl.result_meters
		 FROM sessions s
		 JOIN exercise_logs el ON el.session_id = s.id
		 JOIN set_logs sl ON sl.exercise_log_id = el.id
		 WHERE el.exercise_id = $1 AND s.user_id = $2 AND s.completed
		 ORDER BY s.start_time ASC, sl.set_index ASC`,
		exerciseID, userID)
	if err != nil {
		return nil, fmt.Errorf("querying exercise history: %w", err)
	}
	defer rows.Close()

	var history []stats.HistoryEntry
	var lastSession uuid.UUID
	for rows.Next() {
		var sessionID uuid.UUID
		var start time.Time
		var set models.SetLog
		var targetReps, resultReps, resultRIR *int
		var targetWeight, targetSeconds, targetMeters *float64
		var resultWeight, resultSeconds, resultMeters *float64

		if err := rows.Scan(&sessionID, &start, &set.Index, &set.Type, &set.Status,
			&targetReps, &targetWeight, &targetSeconds, &targetMeters,
			&resultReps, &resultWeight, &resultRIR, &resultSeconds, &resultMeters); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
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

		if len(history) == 0 || sessionID != lastSession {
			history = append(history, stats.HistoryEntry{Date: start})
			lastSession = sessionID
		}
		entry := &history[len(history)-1]
		entry.Sets = append(entry.Sets, set)
	}
	return history, rows.Err()
}

// VolumeEvents returns one (date, tonnage) event per completed session:
// the sum of reps × weight over completed sets whose type passes the
// filters. Raw input for the time-series aggregator.
func (db *DB) VolumeEvents(ctx context.Context, userID int, f models.Filters) ([]stats.Point, error) {
	types := []string{string(models.SetMain)}
	if f.IncludeWarmup {
		types = append(types, string(models.SetWarmup))
	}
	if f.IncludeDropSet {
		types = append(types, string(models.SetDropSet))
	}
	if f.IncludeCooldown {
		types = append(types, string(models.SetCooldown))
	}

	rows, err := db.Pool.Query(ctx,
		`SELECT s.start_time,
		        COALESCE(SUM(sl.result_reps * sl.result_weight), 0)
		 FROM sessions s
		 JOIN exercise_logs el ON el.session_id = s.id
		 JOIN set_logs sl ON sl.exercise_log_id = el.id
		 WHERE s.user_id = $1 AND s.completed
		   AND sl.status = 'completed'
		   AND sl.set_type = ANY($2)
		   AND sl.result_reps IS NOT NULL
		 GROUP BY s.id, s.start_time
		 ORDER BY s.start_time ASC`,
		userID, types)
	if err != nil {
		return nil, fmt.Errorf("querying volume events: %w", err)
	}
	defer rows.Close()

	var events []stats.Point
	for rows.Next() {
		var p stats.Point
		if err := rows.Scan(&p.Date, &p.Value); err != nil {
			return nil, fmt.Errorf("scanning volume event: %w", err)
		}
		events = append(events, p)
	}
	return events, rows.Err()
}
