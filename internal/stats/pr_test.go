package stats

import (
	"testing"
	"time"

	"github.com/meltforce/ironlog/internal/models"
)

func completedSet(reps int, weight float64) models.SetLog {
	return models.SetLog{
		Index:  1,
		Type:   models.SetMain,
		Status: models.SetCompleted,
		Weight: &models.WeightTarget{Reps: reps, Weight: weight},
		Result: &models.SetResult{Weight: &models.WeightResult{Reps: reps, Weight: weight}},
	}
}

func TestBestEffort(t *testing.T) {
	tests := []struct {
		name   string
		sets   []models.SetLog
		want   float64
		wantOK bool
	}{
		{
			name:   "single set",
			sets:   []models.SetLog{completedSet(5, 100)},
			want:   4, // 100 / 25
			wantOK: true,
		},
		{
			name: "max across sets",
			sets: []models.SetLog{
				completedSet(10, 60), // 0.6
				completedSet(2, 90),  // 22.5
				completedSet(5, 100), // 4
			},
			want:   22.5,
			wantOK: true,
		},
		{
			name:   "zero reps excluded",
			sets:   []models.SetLog{completedSet(0, 100)},
			wantOK: false,
		},
		{
			name: "pending and skipped excluded",
			sets: []models.SetLog{
				{Index: 1, Status: models.SetPending, Weight: &models.WeightTarget{Reps: 5, Weight: 100}},
				{Index: 2, Status: models.SetSkipped, Weight: &models.WeightTarget{Reps: 5, Weight: 100}},
			},
			wantOK: false,
		},
		{
			name:   "empty",
			sets:   nil,
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := BestEffort(tt.sets)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("BestEffort = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPRSeriesMonotonic(t *testing.T) {
	day := func(n int) time.Time {
		return time.Date(2026, 1, n, 18, 0, 0, 0, time.UTC)
	}
	now := day(28)

	history := []HistoryEntry{
		{Date: day(1), Sets: []models.SetLog{completedSet(5, 100)}},  // 4.0 — PR
		{Date: day(8), Sets: []models.SetLog{completedSet(5, 90)}},   // 3.6 — below, no point
		{Date: day(15), Sets: []models.SetLog{completedSet(3, 110)}}, // ~12.2 — PR
		{Date: day(22), Sets: nil},                                   // empty log, excluded
	}

	series := PRSeries(history, now)
	if len(series) != 3 {
		t.Fatalf("len = %d, want 3 (two PRs + trailing now point)", len(series))
	}
	for i := 1; i < len(series); i++ {
		if series[i].Value < series[i-1].Value {
			t.Fatalf("series decreases at %d: %v after %v", i, series[i].Value, series[i-1].Value)
		}
	}
	last := series[len(series)-1]
	if !last.Date.Equal(now) {
		t.Errorf("trailing point date = %v, want now", last.Date)
	}
	if last.Value != series[len(series)-2].Value {
		t.Errorf("trailing point value = %v, want running PR %v", last.Value, series[len(series)-2].Value)
	}
}

func TestPRSeriesEmptyHistory(t *testing.T) {
	if got := PRSeries(nil, time.Now()); got != nil {
		t.Errorf("PRSeries(nil) = %v, want nil", got)
	}
	// A history of logs with no qualifying sets yields no series either.
	history := []HistoryEntry{{Date: time.Now(), Sets: []models.SetLog{completedSet(0, 100)}}}
	if got := PRSeries(history, time.Now()); got != nil {
		t.Errorf("PRSeries with no qualifying sets = %v, want nil", got)
	}
}

func TestOneRepMax(t *testing.T) {
	sets := []models.SetLog{
		completedSet(10, 60), // 60 × (1+10/30) = 80
		completedSet(3, 100), // 100 × 1.1 = 110
	}
	warmup := completedSet(10, 40)
	warmup.Type = models.SetWarmup

	tests := []struct {
		name    string
		sets    []models.SetLog
		filters models.Filters
		want    float64
	}{
		{"epley max", sets, models.Filters{}, 110},
		{"warmup filtered out", append([]models.SetLog{warmup}, completedSet(3, 30)), models.Filters{}, 33},
		{"warmup included", []models.SetLog{warmup}, models.Filters{IncludeWarmup: true}, 40 * (1 + 10.0/30)},
		{"no qualifying sets", nil, models.Filters{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OneRepMax(tt.sets, tt.filters); got != tt.want {
				t.Errorf("OneRepMax = %v, want %v", got, tt.want)
			}
		})
	}
}
