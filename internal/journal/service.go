package journal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/meltforce/ironlog/internal/models"
)

// ErrNotFound is returned when a session or one of its logs does not exist.
var ErrNotFound = errors.New("not found")

// Store is the persistence collaborator the service mutates through. Saves
// are expected to be transactional per session.
type Store interface {
	GetSession(ctx context.Context, id uuid.UUID) (*models.Session, error)
	InsertSession(ctx context.Context, s *models.Session) error
	SaveSession(ctx context.Context, s *models.Session) error
}

// liveSession pairs a session with the mutex that serializes commands
// against it. Each HTTP request runs in its own goroutine, so the transport
// cannot guarantee one writer per session; the per-session lock does.
type liveSession struct {
	mu sync.Mutex
	s  *models.Session
}

// Service owns the live sessions and applies commands to them. The registry
// mutex guards the map; each entry carries its own lock held across a
// mutation and its save, so concurrent commands on one session serialize
// while different sessions proceed independently. Every mutation is followed
// by a save; a failed save is reported to the caller but the in-memory
// session is kept as the source of truth rather than rolled back.
type Service struct {
	store  Store
	log    *slog.Logger
	events chan SetEvent

	mu   sync.Mutex
	live map[uuid.UUID]*liveSession
}

// NewService creates a Service. The event channel is buffered; if nothing
// drains it, events are dropped rather than blocking a set transition.
func NewService(store Store, log *slog.Logger) *Service {
	return &Service{
		store:  store,
		log:    log,
		events: make(chan SetEvent, 16),
		live:   make(map[uuid.UUID]*liveSession),
	}
}

// Events is the stream of successful set transitions. The rest-timer
// coordinator consumes it.
func (svc *Service) Events() <-chan SetEvent { return svc.events }

// Create instantiates a session from a template and persists it.
func (svc *Service) Create(ctx context.Context, template *models.WorkoutTemplate, userID int) (*models.Session, error) {
	s := NewSession(template, userID)
	if err := svc.store.InsertSession(ctx, s); err != nil {
		return nil, fmt.Errorf("inserting session: %w", err)
	}
	svc.mu.Lock()
	svc.live[s.ID] = &liveSession{s: s}
	svc.mu.Unlock()
	return s, nil
}

// Open loads a session into the live registry, or returns the live copy if
// it is already open.
func (svc *Service) Open(ctx context.Context, id uuid.UUID) (*models.Session, error) {
	ls, err := svc.open(ctx, id)
	if err != nil {
		return nil, err
	}
	return ls.s, nil
}

// open returns the registry entry for a session, loading it from the store
// on first access. Two concurrent first accesses re-check under the lock so
// only one loaded copy ever enters the registry.
func (svc *Service) open(ctx context.Context, id uuid.UUID) (*liveSession, error) {
	svc.mu.Lock()
	if ls, ok := svc.live[id]; ok {
		svc.mu.Unlock()
		return ls, nil
	}
	svc.mu.Unlock()

	s, err := svc.store.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()
	if ls, ok := svc.live[id]; ok {
		return ls, nil
	}
	ls := &liveSession{s: s}
	svc.live[id] = ls
	return ls, nil
}

// Release drops a session from the live registry, e.g. when the user
// navigates away. The persisted copy is unaffected.
func (svc *Service) Release(id uuid.UUID) {
	svc.mu.Lock()
	delete(svc.live, id)
	svc.mu.Unlock()
}

// IsLive reports whether a session is currently open in the registry. The
// sweeper uses this to avoid racing a session the user is editing.
func (svc *Service) IsLive(id uuid.UUID) bool {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	_, ok := svc.live[id]
	return ok
}

// StartSession begins the session's clock. Starting twice is a no-op.
func (svc *Service) StartSession(ctx context.Context, id uuid.UUID) (*models.Session, error) {
	return svc.mutate(ctx, id, func(s *models.Session) {
		Start(s, time.Now())
	})
}

// FinishSet records performance values for one set and completes it. When
// that makes the whole session finished, the session is completed in the
// same save.
func (svc *Service) FinishSet(ctx context.Context, id, exerciseLogID uuid.UUID, setIndex int, res models.SetResult) (*models.Session, error) {
	return svc.mutate(ctx, id, func(s *models.Session) {
		ex, set := findSet(s, exerciseLogID, setIndex)
		if set == nil {
			return
		}
		if !Finish(set, res) {
			return
		}
		svc.emit(SetEvent{
			Kind:        EventFinished,
			SessionID:   s.ID,
			ExerciseID:  ex.ID,
			SetIndex:    set.Index,
			SetType:     set.Type,
			RestSeconds: ex.RestSeconds,
		})
		if SessionFinished(s) {
			FinishSession(s, time.Now())
		}
	})
}

// SkipSet marks one set skipped. Does not start a rest timer.
func (svc *Service) SkipSet(ctx context.Context, id, exerciseLogID uuid.UUID, setIndex int) (*models.Session, error) {
	return svc.mutate(ctx, id, func(s *models.Session) {
		ex, set := findSet(s, exerciseLogID, setIndex)
		if set == nil {
			return
		}
		if !Skip(set) {
			return
		}
		svc.emit(SetEvent{Kind: EventSkipped, SessionID: s.ID, ExerciseID: ex.ID, SetIndex: set.Index, SetType: set.Type})
		if SessionFinished(s) {
			FinishSession(s, time.Now())
		}
	})
}

// UnfinishSet reverts a completed set to pending, keeping its values.
func (svc *Service) UnfinishSet(ctx context.Context, id, exerciseLogID uuid.UUID, setIndex int) (*models.Session, error) {
	return svc.mutate(ctx, id, func(s *models.Session) {
		ex, set := findSet(s, exerciseLogID, setIndex)
		if set == nil || !Unfinish(set) {
			return
		}
		svc.emit(SetEvent{Kind: EventUnfinished, SessionID: s.ID, ExerciseID: ex.ID, SetIndex: set.Index, SetType: set.Type})
	})
}

// UnskipSet reverts a skipped set to pending.
func (svc *Service) UnskipSet(ctx context.Context, id, exerciseLogID uuid.UUID, setIndex int) (*models.Session, error) {
	return svc.mutate(ctx, id, func(s *models.Session) {
		ex, set := findSet(s, exerciseLogID, setIndex)
		if set == nil || !Unskip(set) {
			return
		}
		svc.emit(SetEvent{Kind: EventUnskipped, SessionID: s.ID, ExerciseID: ex.ID, SetIndex: set.Index, SetType: set.Type})
	})
}

// CompleteSession force-finishes the session at the current time, e.g. the
// user closing out a workout early. No-op when already completed.
func (svc *Service) CompleteSession(ctx context.Context, id uuid.UUID) (*models.Session, error) {
	return svc.mutate(ctx, id, func(s *models.Session) {
		FinishSession(s, time.Now())
	})
}

// mutate opens the session, applies fn, and saves, holding the session's
// lock across both so concurrent commands serialize. Completed sessions are
// immutable; commands against them are silent no-ops.
func (svc *Service) mutate(ctx context.Context, id uuid.UUID, fn func(*models.Session)) (*models.Session, error) {
	ls, err := svc.open(ctx, id)
	if err != nil {
		return nil, err
	}

	ls.mu.Lock()
	defer ls.mu.Unlock()

	s := ls.s
	if s.Completed {
		return s, nil
	}
	fn(s)

	if err := svc.store.SaveSession(ctx, s); err != nil {
		svc.log.Error("session save failed; in-memory state kept", "session", id, "error", err)
		return s, fmt.Errorf("saving session: %w", err)
	}
	return s, nil
}

func (svc *Service) emit(ev SetEvent) {
	select {
	case svc.events <- ev:
	default:
		svc.log.Warn("set event dropped", "session", ev.SessionID, "kind", ev.Kind)
	}
}

func findSet(s *models.Session, exerciseLogID uuid.UUID, setIndex int) (*models.ExerciseLog, *models.SetLog) {
	for i := range s.Exercises {
		ex := &s.Exercises[i]
		if ex.ID != exerciseLogID {
			continue
		}
		for j := range ex.Sets {
			if ex.Sets[j].Index == setIndex {
				return ex, &ex.Sets[j]
			}
		}
	}
	return nil, nil
}
