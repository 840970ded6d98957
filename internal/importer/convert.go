package importer

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/meltforce/ironlog/internal/models"
)

// sessionFile is the on-disk export format: one completed workout per file,
// exercises referenced by name rather than catalog ID.
type sessionFile struct {
	Start     time.Time      `json:"start"`
	End       time.Time      `json:"end"`
	Exercises []exerciseFile `json:"exercises"`
}

type exerciseFile struct {
	Name        string    `json:"name"`
	MuscleGroup string    `json:"muscle_group,omitempty"`
	RestSeconds int       `json:"rest_seconds,omitempty"`
	Sets        []setFile `json:"sets"`
}

// setFile is one performed set. Reps/Weight and Seconds/Meters are mutually
// exclusive; a set with any distance data is treated as distance-measured.
type setFile struct {
	Type    string  `json:"type,omitempty"`
	Reps    int     `json:"reps,omitempty"`
	Weight  float64 `json:"weight,omitempty"`
	RIR     *int    `json:"rir,omitempty"`
	Seconds float64 `json:"seconds,omitempty"`
	Meters  float64 `json:"meters,omitempty"`
}

func (f setFile) kind() models.MeasurementKind {
	if f.Seconds > 0 || f.Meters > 0 {
		return models.MeasureDistance
	}
	return models.MeasureWeight
}

func (f setFile) setType() (models.SetType, error) {
	switch models.SetType(f.Type) {
	case models.SetWarmup, models.SetMain, models.SetDropSet, models.SetCooldown:
		return models.SetType(f.Type), nil
	case "":
		return models.SetMain, nil
	default:
		return "", fmt.Errorf("unknown set type %q", f.Type)
	}
}

// resolver maps an exercise name to its catalog ID, creating the catalog
// entry when necessary.
type resolver func(name, muscleGroup string, kind models.MeasurementKind) (uuid.UUID, error)

// convert builds a completed session from an export file. Every set comes in
// already performed, so targets mirror results and all sets are completed.
func convert(file sessionFile, userID int, resolve resolver) (*models.Session, error) {
	if file.Start.IsZero() || file.End.IsZero() {
		return nil, fmt.Errorf("session missing start or end time")
	}
	if file.End.Before(file.Start) {
		return nil, fmt.Errorf("session ends before it starts")
	}
	if len(file.Exercises) == 0 {
		return nil, fmt.Errorf("session has no exercises")
	}

	end := file.End
	s := &models.Session{
		ID:        uuid.New(),
		UserID:    userID,
		Start:     file.Start,
		End:       &end,
		Started:   true,
		Completed: true,
	}

	for pos, ex := range file.Exercises {
		if ex.Name == "" {
			return nil, fmt.Errorf("exercise %d has no name", pos)
		}
		if len(ex.Sets) == 0 {
			return nil, fmt.Errorf("exercise %q has no sets", ex.Name)
		}

		exerciseID, err := resolve(ex.Name, ex.MuscleGroup, ex.Sets[0].kind())
		if err != nil {
			return nil, fmt.Errorf("resolving exercise %q: %w", ex.Name, err)
		}

		log := models.ExerciseLog{
			ID:          uuid.New(),
			SessionID:   s.ID,
			ExerciseID:  exerciseID,
			Position:    pos,
			RestSeconds: ex.RestSeconds,
		}

		for i, set := range ex.Sets {
			setType, err := set.setType()
			if err != nil {
				return nil, fmt.Errorf("exercise %q set %d: %w", ex.Name, i, err)
			}

			sl := models.SetLog{
				Index:  i,
				Type:   setType,
				Status: models.SetCompleted,
			}
			if set.kind() == models.MeasureDistance {
				sl.Distance = &models.DistanceTarget{Seconds: set.Seconds, Meters: set.Meters}
				sl.Result = &models.SetResult{
					Distance: &models.DistanceResult{Seconds: set.Seconds, Meters: set.Meters},
				}
			} else {
				if set.Reps < 0 {
					return nil, fmt.Errorf("exercise %q set %d: negative reps", ex.Name, i)
				}
				sl.Weight = &models.WeightTarget{Reps: set.Reps, Weight: set.Weight}
				sl.Result = &models.SetResult{
					Weight: &models.WeightResult{Reps: set.Reps, Weight: set.Weight, RIR: set.RIR},
				}
			}
			log.Sets = append(log.Sets, sl)
		}

		s.Exercises = append(s.Exercises, log)
	}

	return s, nil
}
