package journal

import (
	"github.com/google/uuid"

	"github.com/meltforce/ironlog/internal/models"
)

// EventKind names a successful set transition.
type EventKind string

const (
	EventFinished   EventKind = "finished"
	EventSkipped    EventKind = "skipped"
	EventUnfinished EventKind = "unfinished"
	EventUnskipped  EventKind = "unskipped"
)

// SetEvent is emitted after every successful transition. The rest-timer
// coordinator reacts to EventFinished; RestSeconds carries the plan's
// configured rest so consumers need no template lookup.
type SetEvent struct {
	Kind        EventKind
	SessionID   uuid.UUID
	ExerciseID  uuid.UUID
	SetIndex    int
	SetType     models.SetType
	RestSeconds int
}

// Finish records the supplied performance values verbatim and marks the set
// completed. It reports false, leaving the set untouched, unless the set is
// pending and the result's kind matches the planned target. A completed set
// must be unfinished before it can be re-finished, so captured values are
// never silently replaced; a skipped set must be unskipped first.
//
// Negative rep counts are clamped to zero; everything else is stored as
// given.
func Finish(set *models.SetLog, res models.SetResult) bool {
	if set.Status != models.SetPending {
		return false
	}
	if res.Kind() != set.TargetKind() {
		return false
	}
	if res.Weight != nil && res.Weight.Reps < 0 {
		w := *res.Weight
		w.Reps = 0
		res.Weight = &w
	}
	set.Result = &res
	set.Status = models.SetCompleted
	return true
}

// Skip marks the set skipped. Already-skipped sets are left alone. A
// completed set cannot be skipped directly: it must be unfinished first,
// which keeps its recorded values retrievable.
func Skip(set *models.SetLog) bool {
	if set.Status == models.SetSkipped || set.Status == models.SetCompleted {
		return false
	}
	set.Status = models.SetSkipped
	return true
}

// Unfinish reverts a completed set to pending. The recorded result is kept
// so the edit form can re-display it. Reports false when the set was not
// completed.
func Unfinish(set *models.SetLog) bool {
	if set.Status != models.SetCompleted {
		return false
	}
	set.Status = models.SetPending
	return true
}

// Unskip reverts a skipped set to pending. Reports false when the set was
// not skipped.
func Unskip(set *models.SetLog) bool {
	if set.Status != models.SetSkipped {
		return false
	}
	set.Status = models.SetPending
	return true
}

// Terminal reports whether the set no longer needs action.
func Terminal(status models.SetStatus) bool {
	return status == models.SetCompleted || status == models.SetSkipped
}
