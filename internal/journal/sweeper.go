package journal

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/meltforce/ironlog/internal/models"
)

// SweeperStore is the slice of the persistence layer the sweeper needs.
type SweeperStore interface {
	ListStaleSessions(ctx context.Context, startedBefore time.Time) ([]*models.Session, error)
	SaveSession(ctx context.Context, s *models.Session) error
}

// Sweeper force-closes sessions left open past the maximum age. It runs at
// process startup and periodically after that, and skips sessions that are
// live in the service registry.
type Sweeper struct {
	store  SweeperStore
	maxAge time.Duration
	isLive func(uuid.UUID) bool
	log    *slog.Logger
}

// NewSweeper creates a Sweeper. isLive may be nil when no service registry
// exists yet (the usual case at startup).
func NewSweeper(store SweeperStore, maxAge time.Duration, isLive func(uuid.UUID) bool, log *slog.Logger) *Sweeper {
	if isLive == nil {
		isLive = func(uuid.UUID) bool { return false }
	}
	return &Sweeper{store: store, maxAge: maxAge, isLive: isLive, log: log}
}

// Run closes every started, uncompleted session whose start is at least
// maxAge ago. Each is finished at start+maxAge — one day after it began by
// default — not at the current time, so a forgotten session never records
// an inflated duration. Returns the number of sessions closed.
func (sw *Sweeper) Run(ctx context.Context, now time.Time) (int, error) {
	stale, err := sw.store.ListStaleSessions(ctx, now.Add(-sw.maxAge))
	if err != nil {
		return 0, fmt.Errorf("listing stale sessions: %w", err)
	}

	closed := 0
	for _, s := range stale {
		if sw.isLive(s.ID) {
			continue
		}
		if !FinishSession(s, s.Start.Add(sw.maxAge)) {
			continue
		}
		if err := sw.store.SaveSession(ctx, s); err != nil {
			sw.log.Error("failed to close stale session", "session", s.ID, "error", err)
			continue
		}
		sw.log.Info("closed stale session", "session", s.ID, "started", s.Start, "end", s.End)
		closed++
	}
	return closed, nil
}
