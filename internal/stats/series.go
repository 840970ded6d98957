package stats

import "time"

// Granularity is the bucket width of an aggregated series.
type Granularity string

const (
	ByDay   Granularity = "day"
	ByWeek  Granularity = "week"
	ByMonth Granularity = "month"
)

// ParseGranularity maps a query-parameter value to a Granularity, defaulting
// to day.
func ParseGranularity(s string) Granularity {
	switch s {
	case "week":
		return ByWeek
	case "month":
		return ByMonth
	default:
		return ByDay
	}
}

// Bucketed sums irregular events into exactly window consecutive periods
// ending at the period containing anchor. Periods with no events get value 0
// so charts render a continuous axis. Event dates are converted to the
// anchor's location and normalized to their period's calendar boundary
// before grouping, so assignment is independent of time-of-day and of the
// location the event was decoded in. window ≤ 0 yields an empty series.
func Bucketed(events []Point, g Granularity, window int, anchor time.Time) []Point {
	if window <= 0 {
		return nil
	}

	sums := make(map[time.Time]float64)
	for _, ev := range events {
		sums[periodStart(ev.Date.In(anchor.Location()), g)] += ev.Value
	}

	buckets := make([]Point, window)
	start := periodStart(anchor, g)
	for i := window - 1; i >= 0; i-- {
		buckets[i] = Point{Date: start, Value: sums[start]}
		start = prevPeriod(start, g)
	}
	return buckets
}

// periodStart truncates t to the calendar boundary of its period: midnight
// for days, Monday midnight for weeks, the first of the month for months.
func periodStart(t time.Time, g Granularity) time.Time {
	switch g {
	case ByWeek:
		return weekStart(t)
	case ByMonth:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	default:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	}
}

func prevPeriod(start time.Time, g Granularity) time.Time {
	switch g {
	case ByWeek:
		return start.AddDate(0, 0, -7)
	case ByMonth:
		return start.AddDate(0, -1, 0)
	default:
		return start.AddDate(0, 0, -1)
	}
}
