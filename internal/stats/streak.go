package stats

import "time"

// StreakResult holds the computed current streak and the (possibly ratcheted)
// longest streak.
type StreakResult struct {
	Current int `json:"current"`
	Longest int `json:"longest"`
}

// Streak computes the consecutive-week streak from session start dates.
// Sessions are counted per calendar day, summed into ISO weeks (Monday
// start), then walked backward from the week containing now: each
// consecutive week with at least target sessions extends the streak, and
// the first week below target stops it. The current partial week counts the
// moment it reaches the target, so hitting it early in the week grants
// streak credit immediately.
//
// longest is a one-way high-water mark: the returned Longest never drops
// below the stored value.
func Streak(dates []time.Time, target int, longest int, now time.Time) StreakResult {
	if target <= 0 {
		target = 1
	}

	// Week keys only compare equal when every date is bucketed in one
	// location, so dates follow now's location (they may arrive in UTC
	// from a JSON decode while now is local).
	perWeek := make(map[time.Time]int)
	for _, d := range dates {
		perWeek[weekStart(d.In(now.Location()))]++
	}

	current := 0
	for week := weekStart(now); perWeek[week] >= target; week = week.AddDate(0, 0, -7) {
		current++
	}

	if current > longest {
		longest = current
	}
	return StreakResult{Current: current, Longest: longest}
}

// weekStart normalizes t to midnight on the Monday of its ISO week.
func weekStart(t time.Time) time.Time {
	daysFromMonday := (int(t.Weekday()) + 6) % 7
	monday := t.AddDate(0, 0, -daysFromMonday)
	return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, t.Location())
}
