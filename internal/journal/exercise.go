package journal

import "github.com/meltforce/ironlog/internal/models"

// Totals is the rollup of an exercise log's completed sets.
type Totals struct {
	Reps    int     `json:"reps"`
	Weight  float64 `json:"weight"`
	Seconds float64 `json:"seconds"`
	Meters  float64 `json:"meters"`
}

// Aggregate sums the completed sets whose type passes the filters. Weight
// volume is reps × weight per set; distance sets contribute seconds and
// meters. Pending and skipped sets contribute nothing.
func Aggregate(sets []models.SetLog, f models.Filters) Totals {
	var t Totals
	for _, s := range sets {
		if s.Status != models.SetCompleted || s.Result == nil {
			continue
		}
		if !f.Includes(s.Type) {
			continue
		}
		if w := s.Result.Weight; w != nil {
			t.Reps += w.Reps
			t.Weight += float64(w.Reps) * w.Weight
		}
		if d := s.Result.Distance; d != nil {
			t.Seconds += d.Seconds
			t.Meters += d.Meters
		}
	}
	return t
}

// ExerciseFinished reports whether every set is completed or skipped.
// Filters play no part here: a filtered-out warm-up still has to be dealt
// with before the exercise counts as done. An empty set list is finished.
func ExerciseFinished(sets []models.SetLog) bool {
	for _, s := range sets {
		if !Terminal(s.Status) {
			return false
		}
	}
	return true
}

// NextPending returns the index of the lowest-ordinal set still pending,
// or false when every set is terminal.
func NextPending(sets []models.SetLog) (int, bool) {
	next := -1
	for _, s := range sets {
		if s.Status != models.SetPending {
			continue
		}
		if next == -1 || s.Index < next {
			next = s.Index
		}
	}
	return next, next != -1
}
