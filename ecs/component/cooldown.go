package component

import "math"

// TimeSince measures world time since it was last reset. The zero value is
// unset and reports an infinite elapsed time, so a fresh timer is ready.
type TimeSince struct {
	stamp float64
	set   bool
}

// Reset restarts the timer at now.
func (t *TimeSince) Reset(now float64) {
	t.stamp = now
	t.set = true
}

func (t TimeSince) Elapsed(now float64) float64 {
	if !t.set {
		return math.Inf(1)
	}
	return now - t.stamp
}

// Ready reports whether strictly more than interval has passed.
func (t TimeSince) Ready(now, interval float64) bool {
	return t.Elapsed(now) > interval
}
