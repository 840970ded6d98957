package timer

import (
	"context"
	"time"
)

// Clock emits a session's live elapsed duration once per second while a
// session view is active. It is purely derived — the length function is the
// authority — so a missed tick never corrupts anything.
type Clock struct {
	length   func(now time.Time) time.Duration
	interval time.Duration
}

// NewClock creates a Clock over a length function (typically a closure on
// journal.Length for the open session).
func NewClock(length func(now time.Time) time.Duration) *Clock {
	return &Clock{length: length, interval: time.Second}
}

// Run sends the elapsed duration on out every tick until ctx is cancelled,
// then closes out. Cancellation stops the ticker deterministically; there is
// no way to leak a periodic callback past the context.
func (c *Clock) Run(ctx context.Context, out chan<- time.Duration) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	defer close(out)

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			select {
			case out <- c.length(now):
			case <-ctx.Done():
				return
			}
		}
	}
}
