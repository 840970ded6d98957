package timer

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/meltforce/ironlog/internal/journal"
	"github.com/meltforce/ironlog/internal/models"
)

func TestRestDuration(t *testing.T) {
	planned := 90 * time.Second
	tests := []struct {
		typ  models.SetType
		want time.Duration
	}{
		{models.SetWarmup, 30 * time.Second},
		{models.SetCooldown, 60 * time.Second},
		{models.SetMain, planned},
		{models.SetDropSet, planned},
	}

	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			if got := RestDuration(tt.typ, planned); got != tt.want {
				t.Errorf("RestDuration(%s) = %v, want %v", tt.typ, got, tt.want)
			}
		})
	}
}

func testCoordinator(start time.Time) (*RestCoordinator, *time.Time) {
	now := start
	rc := NewRestCoordinator(slog.New(slog.NewTextHandler(io.Discard, nil)), func() time.Time { return now })
	return rc, &now
}

func finishEvent(session uuid.UUID, typ models.SetType, restSeconds int) journal.SetEvent {
	return journal.SetEvent{
		Kind:        journal.EventFinished,
		SessionID:   session,
		SetIndex:    1,
		SetType:     typ,
		RestSeconds: restSeconds,
	}
}

func TestRestCoordinatorCountdown(t *testing.T) {
	base := time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC)
	rc, now := testCoordinator(base)
	session := uuid.New()

	rc.Handle(finishEvent(session, models.SetMain, 90))

	left, ok := rc.Remaining(session)
	if !ok || left != 90*time.Second {
		t.Fatalf("Remaining = (%v, %v), want (90s, true)", left, ok)
	}

	*now = base.Add(30 * time.Second)
	left, ok = rc.Remaining(session)
	if !ok || left != 60*time.Second {
		t.Errorf("Remaining after 30s = (%v, %v), want (60s, true)", left, ok)
	}

	*now = base.Add(2 * time.Minute)
	if _, ok := rc.Remaining(session); ok {
		t.Error("expired countdown still reported as running")
	}
}

// TestRestCoordinatorLastFinishWins verifies a second finish restarts the
// countdown instead of running two timers.
func TestRestCoordinatorLastFinishWins(t *testing.T) {
	base := time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC)
	rc, now := testCoordinator(base)
	session := uuid.New()

	rc.Handle(finishEvent(session, models.SetMain, 120))
	*now = base.Add(100 * time.Second)
	rc.Handle(finishEvent(session, models.SetWarmup, 120)) // warm-up: 30s

	left, ok := rc.Remaining(session)
	if !ok || left != 30*time.Second {
		t.Errorf("Remaining = (%v, %v), want the restarted 30s countdown", left, ok)
	}
}

func TestRestCoordinatorIgnoresNonFinish(t *testing.T) {
	rc, _ := testCoordinator(time.Now())
	session := uuid.New()

	for _, kind := range []journal.EventKind{journal.EventSkipped, journal.EventUnfinished, journal.EventUnskipped} {
		rc.Handle(journal.SetEvent{Kind: kind, SessionID: session, SetType: models.SetMain, RestSeconds: 90})
	}
	if _, ok := rc.Remaining(session); ok {
		t.Error("non-finish events must not start a rest timer")
	}
}

func TestRestCoordinatorStop(t *testing.T) {
	rc, _ := testCoordinator(time.Now())
	session := uuid.New()

	rc.Handle(finishEvent(session, models.SetMain, 90))
	rc.Stop(session)
	if _, ok := rc.Remaining(session); ok {
		t.Error("stopped countdown still reported as running")
	}
	rc.Stop(session) // stopping again is fine
}

func TestRestCoordinatorIndependentSessions(t *testing.T) {
	rc, _ := testCoordinator(time.Now())
	a, b := uuid.New(), uuid.New()

	rc.Handle(finishEvent(a, models.SetMain, 90))
	rc.Handle(finishEvent(b, models.SetMain, 60))
	rc.Stop(a)

	if _, ok := rc.Remaining(a); ok {
		t.Error("session a countdown should be stopped")
	}
	if _, ok := rc.Remaining(b); !ok {
		t.Error("session b countdown should be unaffected")
	}
}

func TestClockStopsOnCancel(t *testing.T) {
	c := NewClock(func(now time.Time) time.Duration { return time.Minute })
	c.interval = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	out := make(chan time.Duration)
	go c.Run(ctx, out)

	if d := <-out; d != time.Minute {
		t.Errorf("tick = %v, want 1m", d)
	}

	cancel()
	deadline := time.After(time.Second)
	for {
		select {
		case _, open := <-out:
			if !open {
				return // channel closed, ticker stopped
			}
		case <-deadline:
			t.Fatal("clock did not stop after cancel")
		}
	}
}
