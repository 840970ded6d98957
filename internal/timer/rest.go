package timer

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/meltforce/ironlog/internal/journal"
	"github.com/meltforce/ironlog/internal/models"
)

// Rest durations fixed by set type; main and drop sets use the plan's
// configured rest instead.
const (
	warmupRest   = 30 * time.Second
	cooldownRest = 60 * time.Second
)

// RestDuration picks the rest countdown for a just-finished set: 30s after a
// warm-up, 60s after a cool-down, otherwise the plan's configured rest.
func RestDuration(t models.SetType, planned time.Duration) time.Duration {
	switch t {
	case models.SetWarmup:
		return warmupRest
	case models.SetCooldown:
		return cooldownRest
	default:
		return planned
	}
}

// restState is one session's countdown: a deadline, nothing more. Remaining
// time is computed against the wall clock on read, so there is no per-timer
// goroutine to leak.
type restState struct {
	deadline time.Time
}

// RestCoordinator consumes set events and maintains one advisory rest
// countdown per session. Each finish restarts the session's countdown
// (last-finish-wins); skips and undos never start one. The countdown never
// blocks set transitions — it only answers Remaining queries.
type RestCoordinator struct {
	log *slog.Logger
	now func() time.Time

	mu     sync.Mutex
	timers map[uuid.UUID]restState
}

// NewRestCoordinator creates a coordinator. nowFn defaults to time.Now and
// exists for tests.
func NewRestCoordinator(log *slog.Logger, nowFn func() time.Time) *RestCoordinator {
	if nowFn == nil {
		nowFn = time.Now
	}
	return &RestCoordinator{
		log:    log,
		now:    nowFn,
		timers: make(map[uuid.UUID]restState),
	}
}

// Run consumes events until the channel closes or ctx is cancelled. Meant to
// run as a goroutine alongside the journal service.
func (rc *RestCoordinator) Run(ctx context.Context, events <-chan journal.SetEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			rc.Handle(ev)
		}
	}
}

// Handle applies one event: a finish (re)starts the session's countdown,
// everything else is ignored.
func (rc *RestCoordinator) Handle(ev journal.SetEvent) {
	if ev.Kind != journal.EventFinished {
		return
	}
	d := RestDuration(ev.SetType, time.Duration(ev.RestSeconds)*time.Second)
	if d <= 0 {
		return
	}

	rc.mu.Lock()
	rc.timers[ev.SessionID] = restState{deadline: rc.now().Add(d)}
	rc.mu.Unlock()

	rc.log.Debug("rest timer started", "session", ev.SessionID, "set", ev.SetIndex, "duration", d)
}

// Remaining reports the session's rest countdown. Zero with false means no
// countdown is running (never started, stopped, or already expired).
func (rc *RestCoordinator) Remaining(sessionID uuid.UUID) (time.Duration, bool) {
	rc.mu.Lock()
	st, ok := rc.timers[sessionID]
	rc.mu.Unlock()
	if !ok {
		return 0, false
	}

	left := st.deadline.Sub(rc.now())
	if left <= 0 {
		rc.Stop(sessionID)
		return 0, false
	}
	return left, true
}

// Stop cancels a session's countdown, e.g. when the user navigates away or
// the session completes. Stopping an absent timer is a no-op.
func (rc *RestCoordinator) Stop(sessionID uuid.UUID) {
	rc.mu.Lock()
	delete(rc.timers, sessionID)
	rc.mu.Unlock()
}
