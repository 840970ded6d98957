package models

import (
	"time"

	"github.com/google/uuid"
)

// SetType classifies a set for the inclusion filters and rest-timer rules.
type SetType string

const (
	SetWarmup   SetType = "warmup"
	SetMain     SetType = "main"
	SetDropSet  SetType = "dropset"
	SetCooldown SetType = "cooldown"
)

// SetStatus is the tri-state lifecycle of a logged set.
type SetStatus string

const (
	SetPending   SetStatus = "pending"
	SetCompleted SetStatus = "completed"
	SetSkipped   SetStatus = "skipped"
)

// Session is one timed attempt at a workout template. It exclusively owns
// its exercise logs; plan data is copied in at creation time so later
// template edits never rewrite history.
type Session struct {
	ID         uuid.UUID     `json:"id"`
	UserID     int           `json:"user_id"`
	TemplateID uuid.UUID     `json:"template_id"`
	Start      time.Time     `json:"start"`
	End        *time.Time    `json:"end,omitempty"`
	Started    bool          `json:"started"`
	Completed  bool          `json:"completed"`
	Exercises  []ExerciseLog `json:"exercises"`
}

// ExerciseLog is one exercise's slot within a session. RestSeconds is copied
// from the plan so the rest timer works without a template lookup.
type ExerciseLog struct {
	ID          uuid.UUID `json:"id"`
	SessionID   uuid.UUID `json:"session_id"`
	PlanID      uuid.UUID `json:"plan_id"`
	ExerciseID  uuid.UUID `json:"exercise_id"`
	Position    int       `json:"position"`
	RestSeconds int       `json:"rest_seconds"`
	Sets        []SetLog  `json:"sets"`
}

// SetLog is the atomic unit of progress. Index is unique within its exercise
// log and defines execution order. Result stays populated after an unfinish
// or a skip so previously entered values can be re-displayed.
type SetLog struct {
	Index    int             `json:"index"`
	Type     SetType         `json:"type"`
	Status   SetStatus       `json:"status"`
	Weight   *WeightTarget   `json:"weight,omitempty"`
	Distance *DistanceTarget `json:"distance,omitempty"`
	Result   *SetResult      `json:"result,omitempty"`
}

// SetResult is the recorded performance of a set. Exactly one of Weight or
// Distance is set, matching the planned target's kind.
type SetResult struct {
	Weight   *WeightResult   `json:"weight,omitempty"`
	Distance *DistanceResult `json:"distance,omitempty"`
}

// WeightResult is the performed reps/weight, with an optional reps-in-reserve
// annotation.
type WeightResult struct {
	Reps   int     `json:"reps"`
	Weight float64 `json:"weight"`
	RIR    *int    `json:"rir,omitempty"`
}

// DistanceResult is the performed time/distance.
type DistanceResult struct {
	Seconds float64 `json:"seconds"`
	Meters  float64 `json:"meters"`
}

// Kind reports which variant the result carries.
func (r *SetResult) Kind() MeasurementKind {
	if r != nil && r.Distance != nil {
		return MeasureDistance
	}
	return MeasureWeight
}

// TargetKind reports which variant the set was planned as.
func (s *SetLog) TargetKind() MeasurementKind {
	if s.Distance != nil {
		return MeasureDistance
	}
	return MeasureWeight
}
