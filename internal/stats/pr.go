package stats

import (
	"time"

	"github.com/meltforce/ironlog/internal/models"
)

// Point is one sample of a chartable series.
type Point struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// HistoryEntry is one past session's sets for a single exercise, used as
// read-only input to the PR tracker. Entries are expected in date order.
type HistoryEntry struct {
	Date time.Time       `json:"date"`
	Sets []models.SetLog `json:"sets"`
}

// BestEffort is the ranking proxy used for personal records: the maximum
// weight/reps² over completed weight sets. Sets with zero reps are excluded
// rather than dividing by zero. Reports false when no set qualifies.
func BestEffort(sets []models.SetLog) (float64, bool) {
	best := 0.0
	found := false
	for _, s := range sets {
		if s.Status != models.SetCompleted || s.Result == nil || s.Result.Weight == nil {
			continue
		}
		w := s.Result.Weight
		if w.Reps <= 0 {
			continue
		}
		effort := w.Weight / float64(w.Reps*w.Reps)
		if !found || effort > best {
			best = effort
			found = true
		}
	}
	return best, found
}

// PRSeries walks a date-ordered exercise history and emits a point every
// time the running best effort is exceeded, plus a trailing point at now so
// charts extend to the present. The output is non-decreasing by
// construction. An empty history yields an empty series.
func PRSeries(history []HistoryEntry, now time.Time) []Point {
	var series []Point
	pr := 0.0
	for _, entry := range history {
		effort, ok := BestEffort(entry.Sets)
		if !ok {
			continue
		}
		if effort > pr {
			pr = effort
			series = append(series, Point{Date: entry.Date, Value: pr})
		}
	}
	if len(series) == 0 {
		return nil
	}
	return append(series, Point{Date: now, Value: pr})
}
