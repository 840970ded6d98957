package models

import "github.com/google/uuid"

// WorkoutTemplate is an ordered list of exercise plans the user can start a
// session from. Deleting a template only removes its ability to be started
// again; historical sessions keep their copied plan data.
type WorkoutTemplate struct {
	ID    uuid.UUID      `json:"id"`
	Name  string         `json:"name"`
	Plans []ExercisePlan `json:"plans"`
}

// ExercisePlan is one template entry: which exercise, how long to rest after
// each set, and the planned sets themselves.
type ExercisePlan struct {
	ID          uuid.UUID    `json:"id"`
	TemplateID  uuid.UUID    `json:"template_id"`
	ExerciseID  uuid.UUID    `json:"exercise_id"`
	Position    int          `json:"position"`
	RestSeconds int          `json:"rest_seconds"`
	Notes       string       `json:"notes,omitempty"`
	Tempo       string       `json:"tempo,omitempty"`
	Sets        []PlannedSet `json:"sets"`
}

// PlannedSet is a target for one set within a plan entry. Exactly one of
// Weight or Distance is set, matching the exercise's measurement kind.
type PlannedSet struct {
	Index    int             `json:"index"`
	Type     SetType         `json:"type"`
	Weight   *WeightTarget   `json:"weight,omitempty"`
	Distance *DistanceTarget `json:"distance,omitempty"`
}

// WeightTarget is the planned reps/weight for a weight-measured set.
type WeightTarget struct {
	Reps   int     `json:"reps"`
	Weight float64 `json:"weight"`
}

// DistanceTarget is the planned time/distance for a distance-measured set.
type DistanceTarget struct {
	Seconds float64 `json:"seconds"`
	Meters  float64 `json:"meters"`
}
