package stats

import (
	"testing"
	"time"
)

// sessionsInWeek returns n start dates spread across the week beginning at
// weekMonday.
func sessionsInWeek(weekMonday time.Time, n int) []time.Time {
	var dates []time.Time
	for i := 0; i < n; i++ {
		dates = append(dates, weekMonday.AddDate(0, 0, i*2).Add(18*time.Hour))
	}
	return dates
}

func TestStreak(t *testing.T) {
	// A Wednesday, so the current week is partial.
	now := time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)
	thisMonday := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	week := func(n int) time.Time { return thisMonday.AddDate(0, 0, -7*n) }

	tests := []struct {
		name        string
		weekCounts  []int // oldest → newest, newest is the current week
		target      int
		longest     int
		wantCurrent int
		wantLongest int
	}{
		{
			name:       "zero week breaks the streak",
			weekCounts: []int{3, 0, 3, 3, 3},
			target:     3,
			// Walking back from the current week: three satisfying weeks,
			// then the zero week stops the walk; the older week never counts.
			wantCurrent: 3,
			wantLongest: 3,
		},
		{
			name:        "unbroken run",
			weekCounts:  []int{3, 4, 3, 3, 3},
			target:      3,
			wantCurrent: 5,
			wantLongest: 5,
		},
		{
			name:        "current week below target",
			weekCounts:  []int{3, 3, 3, 3, 1},
			target:      3,
			wantCurrent: 0,
			wantLongest: 0,
		},
		{
			name:        "longest never decreases",
			weekCounts:  []int{3, 3},
			target:      3,
			longest:     8,
			wantCurrent: 2,
			wantLongest: 8,
		},
		{
			name:        "no sessions",
			weekCounts:  nil,
			target:      3,
			wantCurrent: 0,
			wantLongest: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var dates []time.Time
			for i, count := range tt.weekCounts {
				weeksAgo := len(tt.weekCounts) - 1 - i
				dates = append(dates, sessionsInWeek(week(weeksAgo), count)...)
			}

			got := Streak(dates, tt.target, tt.longest, now)
			if got.Current != tt.wantCurrent {
				t.Errorf("Current = %d, want %d", got.Current, tt.wantCurrent)
			}
			if got.Longest != tt.wantLongest {
				t.Errorf("Longest = %d, want %d", got.Longest, tt.wantLongest)
			}
		})
	}
}

// TestStreakPartialWeekCredit verifies that hitting the target early in the
// current week grants credit immediately, even though the week is not over.
func TestStreakPartialWeekCredit(t *testing.T) {
	now := time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC) // Tuesday
	dates := []time.Time{
		time.Date(2026, 3, 2, 7, 0, 0, 0, time.UTC), // Monday
		time.Date(2026, 3, 2, 19, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 3, 7, 0, 0, 0, time.UTC), // Tuesday morning
	}

	got := Streak(dates, 3, 0, now)
	if got.Current != 1 {
		t.Errorf("Current = %d, want 1 (partial week already at target)", got.Current)
	}
}

func TestWeekStart(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{"wednesday", time.Date(2026, 3, 4, 15, 30, 0, 0, time.UTC), time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)},
		{"monday stays", time.Date(2026, 3, 2, 23, 0, 0, 0, time.UTC), time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)},
		{"sunday belongs to prior monday", time.Date(2026, 3, 8, 1, 0, 0, 0, time.UTC), time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := weekStart(tt.in); !got.Equal(tt.want) {
				t.Errorf("weekStart(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

// TestStreakMixedLocations verifies UTC session dates count toward a local
// now: the week keys must agree even when dates decode in a different zone.
func TestStreakMixedLocations(t *testing.T) {
	local := time.FixedZone("UTC+2", 2*60*60)
	now := time.Date(2026, 3, 4, 12, 0, 0, 0, local) // Wednesday

	// Three sessions earlier in the same week, expressed in UTC.
	dates := []time.Time{
		time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 4, 8, 0, 0, 0, time.UTC),
	}

	got := Streak(dates, 3, 0, now)
	if got.Current != 1 {
		t.Errorf("Current = %d, want 1", got.Current)
	}
	if got.Longest != 1 {
		t.Errorf("Longest = %d, want 1", got.Longest)
	}
}
