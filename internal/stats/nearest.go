package stats

import (
	"sort"
	"time"
)

// Nearest resolves a query date to the sample whose timestamp is closest,
// via binary search over the date-sorted series — cheap enough to call on
// every chart-drag update even for years of daily data. Ties break toward
// the earlier sample. Reports false on an empty series.
func Nearest(series []Point, query time.Time) (Point, bool) {
	if len(series) == 0 {
		return Point{}, false
	}

	q := query.UnixNano()
	i := sort.Search(len(series), func(i int) bool {
		return series[i].Date.UnixNano() >= q
	})

	switch {
	case i == 0:
		return series[0], true
	case i == len(series):
		return series[len(series)-1], true
	}

	before, after := series[i-1], series[i]
	if q-before.Date.UnixNano() <= after.Date.UnixNano()-q {
		return before, true
	}
	return after, true
}
