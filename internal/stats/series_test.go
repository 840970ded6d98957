package stats

import (
	"testing"
	"time"
)

func TestBucketedDailyZeroFill(t *testing.T) {
	today := time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)

	// 10 events on the same calendar day at assorted times of day.
	var events []Point
	for i := 0; i < 10; i++ {
		events = append(events, Point{
			Date:  today.Add(time.Duration(i) * time.Hour),
			Value: float64(i + 1),
		})
	}

	buckets := Bucketed(events, ByDay, 7, today.Add(13*time.Hour))
	if len(buckets) != 7 {
		t.Fatalf("len = %d, want exactly 7", len(buckets))
	}

	// Last bucket is today and holds the full sum; the other six are zero.
	last := buckets[6]
	if !last.Date.Equal(today) {
		t.Errorf("last bucket date = %v, want %v", last.Date, today)
	}
	if last.Value != 55 {
		t.Errorf("last bucket value = %v, want 55", last.Value)
	}
	for i := 0; i < 6; i++ {
		if buckets[i].Value != 0 {
			t.Errorf("bucket %d value = %v, want 0", i, buckets[i].Value)
		}
		wantDate := today.AddDate(0, 0, i-6)
		if !buckets[i].Date.Equal(wantDate) {
			t.Errorf("bucket %d date = %v, want %v", i, buckets[i].Date, wantDate)
		}
	}
}

func TestBucketedWeekly(t *testing.T) {
	anchor := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC) // Wednesday
	thisMonday := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	events := []Point{
		{Date: thisMonday.Add(18 * time.Hour), Value: 100},         // this week
		{Date: thisMonday.AddDate(0, 0, -3), Value: 40},            // last week (Friday)
		{Date: thisMonday.AddDate(0, 0, -7).Add(time.Hour), Value: 60}, // last week (Monday)
	}

	buckets := Bucketed(events, ByWeek, 4, anchor)
	if len(buckets) != 4 {
		t.Fatalf("len = %d, want 4", len(buckets))
	}
	if buckets[3].Value != 100 {
		t.Errorf("current week = %v, want 100", buckets[3].Value)
	}
	if buckets[2].Value != 100 {
		t.Errorf("last week = %v, want 100 (40+60)", buckets[2].Value)
	}
	if buckets[1].Value != 0 || buckets[0].Value != 0 {
		t.Errorf("older weeks = %v, %v, want zeros", buckets[0].Value, buckets[1].Value)
	}
	if !buckets[3].Date.Equal(thisMonday) {
		t.Errorf("current week start = %v, want %v", buckets[3].Date, thisMonday)
	}
}

func TestBucketedMonthly(t *testing.T) {
	anchor := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	events := []Point{
		{Date: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC), Value: 5},
		{Date: time.Date(2026, 3, 31, 23, 0, 0, 0, time.UTC), Value: 7}, // after the anchor, still March
		{Date: time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC), Value: 3},
	}

	buckets := Bucketed(events, ByMonth, 3, anchor)
	if len(buckets) != 3 {
		t.Fatalf("len = %d, want 3", len(buckets))
	}
	jan := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	if !buckets[0].Date.Equal(jan) || buckets[0].Value != 3 {
		t.Errorf("january bucket = %+v, want {%v 3}", buckets[0], jan)
	}
	if buckets[1].Value != 0 {
		t.Errorf("february = %v, want 0", buckets[1].Value)
	}
	if buckets[2].Value != 12 {
		t.Errorf("march = %v, want 12", buckets[2].Value)
	}
}

func TestBucketedDegenerate(t *testing.T) {
	now := time.Now()
	if got := Bucketed(nil, ByDay, 0, now); got != nil {
		t.Errorf("window 0 should yield nil, got %v", got)
	}
	got := Bucketed(nil, ByDay, 3, now)
	if len(got) != 3 {
		t.Fatalf("empty events: len = %d, want 3 zero buckets", len(got))
	}
	for _, b := range got {
		if b.Value != 0 {
			t.Errorf("bucket %v = %v, want 0", b.Date, b.Value)
		}
	}
}

func TestNearest(t *testing.T) {
	d := func(day int) time.Time { return time.Date(2026, 1, day, 0, 0, 0, 0, time.UTC) }
	series := []Point{
		{Date: d(1), Value: 5},
		{Date: d(10), Value: 8},
		{Date: d(20), Value: 3},
	}

	tests := []struct {
		name  string
		query time.Time
		want  Point
	}{
		{"between points", d(14), Point{Date: d(10), Value: 8}},
		{"exact hit", d(10), Point{Date: d(10), Value: 8}},
		{"before first", time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC), Point{Date: d(1), Value: 5}},
		{"after last", d(31), Point{Date: d(20), Value: 3}},
		{"equidistant breaks early", time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC), Point{Date: d(1), Value: 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Nearest(series, tt.query)
			if !ok {
				t.Fatal("Nearest reported no result")
			}
			if !got.Date.Equal(tt.want.Date) || got.Value != tt.want.Value {
				t.Errorf("Nearest(%v) = %+v, want %+v", tt.query, got, tt.want)
			}
		})
	}

	if _, ok := Nearest(nil, d(1)); ok {
		t.Error("Nearest on empty series should report false")
	}
}

// TestBucketedMixedLocations verifies events land in the right bucket even
// when their dates carry a different location than the anchor, as happens
// when events are JSON-decoded (UTC) and the anchor is local time.
func TestBucketedMixedLocations(t *testing.T) {
	local := time.FixedZone("UTC+2", 2*60*60)
	anchor := time.Date(2026, 3, 4, 14, 0, 0, 0, local) // Wednesday afternoon

	events := []Point{
		// The anchor's own instant, expressed in UTC.
		{Date: anchor.UTC(), Value: 42},
		// Midday the previous day, expressed in UTC.
		{Date: time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC), Value: 8},
	}

	buckets := Bucketed(events, ByDay, 3, anchor)
	if len(buckets) != 3 {
		t.Fatalf("len = %d, want 3", len(buckets))
	}
	if got := buckets[2].Value; got != 42 {
		t.Errorf("anchor-day bucket = %v, want 42", got)
	}
	if got := buckets[1].Value; got != 8 {
		t.Errorf("previous-day bucket = %v, want 8", got)
	}

	var total float64
	for _, b := range buckets {
		total += b.Value
	}
	if total != 50 {
		t.Errorf("total bucketed value = %v, want 50", total)
	}
}
