package mcp

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/meltforce/ironlog/internal/models"
	"github.com/meltforce/ironlog/internal/stats"
	"github.com/meltforce/ironlog/internal/storage"
)

// DataSource abstracts the data layer for MCP tools. Both *storage.DB (local)
// and HTTPClient (remote via REST API) satisfy this interface. Tools fetch
// raw history and run the stats engine themselves, so both modes compute
// identical numbers.
type DataSource interface {
	ExerciseHistory(ctx context.Context, exerciseID uuid.UUID, userID int) ([]stats.HistoryEntry, error)
	SessionDates(ctx context.Context, userID int) ([]time.Time, error)
	GetSettings(ctx context.Context, userID int) (models.Settings, error)
	VolumeEvents(ctx context.Context, userID int, f models.Filters) ([]stats.Point, error)
	QuerySessions(ctx context.Context, start, end time.Time, userID int) ([]*models.Session, error)
	ListExercises(ctx context.Context, includeHidden bool) ([]models.ExerciseDefinition, error)
}

// Compile-time check: *storage.DB satisfies DataSource.
var _ DataSource = (*storage.DB)(nil)
