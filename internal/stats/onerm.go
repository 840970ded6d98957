package stats

import "github.com/meltforce/ironlog/internal/models"

// OneRepMax estimates the single-rep maximum for one exercise log using the
// Epley formula, weight × (1 + reps/30), over completed weight sets whose
// type passes the inclusion filters. Returns 0 when no set qualifies.
//
// Note this deliberately differs from the weight/reps² proxy BestEffort uses
// for PR ranking; the two serve different displays and are kept distinct.
func OneRepMax(sets []models.SetLog, f models.Filters) float64 {
	best := 0.0
	for _, s := range sets {
		if s.Status != models.SetCompleted || s.Result == nil || s.Result.Weight == nil {
			continue
		}
		if !f.Includes(s.Type) {
			continue
		}
		w := s.Result.Weight
		est := w.Weight * (1 + float64(w.Reps)/30)
		if est > best {
			best = est
		}
	}
	return best
}
