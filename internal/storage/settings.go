package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/meltforce/ironlog/internal/models"
)

// GetSettings returns the user's settings, falling back to defaults when no
// row exists yet.
func (db *DB) GetSettings(ctx context.Context, userID int) (models.Settings, error) {
	s := models.DefaultSettings(userID)
	err := db.Pool.QueryRow(ctx,
		`SELECT include_warmup, include_dropset, include_cooldown,
		        show_rir, weight_unit, weekly_target, longest_streak
		 FROM user_settings WHERE user_id = $1`, userID,
	).Scan(&s.Filters.IncludeWarmup, &s.Filters.IncludeDropSet, &s.Filters.IncludeCooldown,
		&s.ShowRIR, &s.WeightUnit, &s.WeeklyTarget, &s.LongestStreak)
	if errors.Is(err, pgx.ErrNoRows) {
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("querying settings: %w", err)
	}
	return s, nil
}

// SaveSettings upserts the user's settings. The longest-streak column is a
// one-way ratchet: GREATEST keeps it from ever decreasing, even if a caller
// passes a stale value.
func (db *DB) SaveSettings(ctx context.Context, s models.Settings) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO user_settings (user_id, include_warmup, include_dropset, include_cooldown,
		 show_rir, weight_unit, weekly_target, longest_streak)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		 ON CONFLICT (user_id) DO UPDATE SET
		   include_warmup = EXCLUDED.include_warmup,
		   include_dropset = EXCLUDED.include_dropset,
		   include_cooldown = EXCLUDED.include_cooldown,
		   show_rir = EXCLUDED.show_rir,
		   weight_unit = EXCLUDED.weight_unit,
		   weekly_target = EXCLUDED.weekly_target,
		   longest_streak = GREATEST(user_settings.longest_streak, EXCLUDED.longest_streak)`,
		s.UserID, s.Filters.IncludeWarmup, s.Filters.IncludeDropSet, s.Filters.IncludeCooldown,
		s.ShowRIR, s.WeightUnit, s.WeeklyTarget, s.LongestStreak)
	if err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}
	return nil
}

// RatchetLongestStreak raises the stored longest streak if the computed one
// is higher. Never lowers it.
func (db *DB) RatchetLongestStreak(ctx context.Context, userID, streak int) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO user_settings (user_id, longest_streak)
		 VALUES ($1, $2)
		 ON CONFLICT (user_id) DO UPDATE SET
		   longest_streak = GREATEST(user_settings.longest_streak, EXCLUDED.longest_streak)`,
		userID, streak)
	if err != nil {
		return fmt.Errorf("ratcheting longest streak: %w", err)
	}
	return nil
}
