package journal

import (
	"time"

	"github.com/google/uuid"

	"github.com/meltforce/ironlog/internal/models"
)

// Start marks the session started and records its start time. Reports false
// when the session was already started.
func Start(s *models.Session, at time.Time) bool {
	if s.Started {
		return false
	}
	s.Started = true
	s.Start = at
	return true
}

// Progress returns the share of sets that are completed or skipped, in
// [0,1]. A session with no sets has progress 0.
func Progress(s *models.Session) float64 {
	var done, total int
	for _, ex := range s.Exercises {
		for _, set := range ex.Sets {
			total++
			if Terminal(set.Status) {
				done++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(done) / float64(total)
}

// SessionFinished reports whether every exercise log is finished.
func SessionFinished(s *models.Session) bool {
	for _, ex := range s.Exercises {
		if !ExerciseFinished(ex.Sets) {
			return false
		}
	}
	return true
}

// FinishSession completes the session at the given time. Finishing an
// already-completed session is a no-op; once completed, the end timestamp
// never changes.
func FinishSession(s *models.Session, at time.Time) bool {
	if s.Completed {
		return false
	}
	s.Completed = true
	end := at
	s.End = &end
	return true
}

// Length is the session duration: end minus start once completed, a live
// now-minus-start while in progress, and zero before the session starts.
func Length(s *models.Session, now time.Time) time.Duration {
	if !s.Started {
		return 0
	}
	if s.Completed && s.End != nil {
		return s.End.Sub(s.Start)
	}
	return now.Sub(s.Start)
}

// MuscleGroups returns the distinct muscle groups the session touches,
// resolved through the exercise catalog. Unknown exercise IDs are skipped.
func MuscleGroups(s *models.Session, defs map[uuid.UUID]models.ExerciseDefinition) []models.MuscleGroup {
	seen := make(map[models.MuscleGroup]bool)
	var groups []models.MuscleGroup
	for _, ex := range s.Exercises {
		def, ok := defs[ex.ExerciseID]
		if !ok || seen[def.MuscleGroup] {
			continue
		}
		seen[def.MuscleGroup] = true
		groups = append(groups, def.MuscleGroup)
	}
	return groups
}

// NewSession instantiates a session from a template, copying plan data into
// the logs so the session survives later template edits. Sets start pending.
func NewSession(template *models.WorkoutTemplate, userID int) *models.Session {
	s := &models.Session{
		ID:         uuid.New(),
		UserID:     userID,
		TemplateID: template.ID,
	}
	for _, plan := range template.Plans {
		log := models.ExerciseLog{
			ID:          uuid.New(),
			SessionID:   s.ID,
			PlanID:      plan.ID,
			ExerciseID:  plan.ExerciseID,
			Position:    plan.Position,
			RestSeconds: plan.RestSeconds,
		}
		for _, planned := range plan.Sets {
			set := models.SetLog{
				Index:  planned.Index,
				Type:   planned.Type,
				Status: models.SetPending,
			}
			if planned.Weight != nil {
				w := *planned.Weight
				set.Weight = &w
			}
			if planned.Distance != nil {
				d := *planned.Distance
				set.Distance = &d
			}
			log.Sets = append(log.Sets, set)
		}
		s.Exercises = append(s.Exercises, log)
	}
	return s
}
