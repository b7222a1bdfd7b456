package throttle

import (
	"fmt"
	"time"
)

const cacheKeyFormat = "throttle_%s_%s"

// Window is the request log of one identity under one rate. Timestamps are
// seconds since the epoch, newest first.
type Window []float64

// CacheKey returns the store key of the window owned by identity under rate.
func CacheKey(identity, rate string) string {
	return fmt.Sprintf(cacheKeyFormat, identity, rate)
}

// Timestamp converts t to the representation stored in a Window.
func Timestamp(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}

// Prune drops every entry at or before now-period. Entries are filtered by
// value, so a window whose order was lost by the store is still pruned fully.
func (w Window) Prune(now float64, period time.Duration) Window {
	cutoff := now - period.Seconds()
	kept := make(Window, 0, len(w))
	for _, t := range w {
		if t > cutoff {
			kept = append(kept, t)
		}
	}
	return kept
}

// Record prepends now.
func (w Window) Record(now float64) Window {
	out := make(Window, 0, len(w)+1)
	out = append(out, now)
	return append(out, w...)
}

// Oldest returns the earliest live timestamp.
func (w Window) Oldest() (float64, bool) {
	if len(w) == 0 {
		return 0, false
	}
	oldest := w[0]
	for _, t := range w[1:] {
		if t < oldest {
			oldest = t
		}
	}
	return oldest, true
}
