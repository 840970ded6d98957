package models

import "github.com/google/uuid"

// MeasurementKind says how an exercise's performance is recorded:
// either reps at a weight, or a distance covered in a time.
type MeasurementKind string

const (
	MeasureWeight   MeasurementKind = "weight"
	MeasureDistance MeasurementKind = "distance"
)

// MuscleGroup tags an exercise for per-session breakdowns.
type MuscleGroup string

const (
	MuscleChest     MuscleGroup = "chest"
	MuscleBack      MuscleGroup = "back"
	MuscleShoulders MuscleGroup = "shoulders"
	MuscleArms      MuscleGroup = "arms"
	MuscleLegs      MuscleGroup = "legs"
	MuscleCore      MuscleGroup = "core"
	MuscleCardio    MuscleGroup = "cardio"
	MuscleOther     MuscleGroup = "other"
)

// ExerciseDefinition is the catalog entry a plan references. Definitions
// referenced by history are hidden, never deleted, so old logs stay intact.
type ExerciseDefinition struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	MuscleGroup MuscleGroup     `json:"muscle_group"`
	Measurement MeasurementKind `json:"measurement"`
	Hidden      bool            `json:"hidden"`
}
