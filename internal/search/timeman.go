package search

import (
	"sync/atomic"
	"time"
)

// TimeControl carries the per-move budget a caller hands to Search
// (spec.md §4.4 "compute_move(... time_budget, increment, use_timer ...)").
type TimeControl struct {
	Budget    time.Duration
	Increment time.Duration
	UseTimer  bool
}

// Timer is the cooperative abort mechanism spec.md §4.4/§9 describes:
// an external "panic abort" deadline plus a `force_return` flag any
// caller can set from another goroutine. Grounded on
// internal/engine/timeman.go's optimum/maximum split, simplified from
// UCI time-control estimation (moves-to-go, stability adjustment) to
// the single-deadline panic-abort model spec.md calls for, and on the
// teacher's use of sync/atomic for cooperative stop signaling.
type Timer struct {
	start    time.Time
	maximum  time.Duration
	abort    atomic.Bool
	disabled bool
}

// NewTimer starts a timer for the given control. If !ctl.UseTimer the
// timer never expires on its own; ForceReturn is still honored.
func NewTimer(ctl TimeControl) *Timer {
	t := &Timer{start: time.Now(), maximum: ctl.Budget, disabled: !ctl.UseTimer}
	return t
}

// Elapsed returns the time since the timer started.
func (t *Timer) Elapsed() time.Duration { return time.Since(t.start) }

// ForceReturn sets the cooperative abort flag; an in-progress search
// observing it stops and returns the last completed iteration's
// result, or an Interrupted 1-ply fallback if no iteration completed.
func (t *Timer) ForceReturn() { t.abort.Store(true) }

// ShouldAbort reports whether the search should stop now: either
// ForceReturn was called, or the timer is enabled and past its
// deadline (the "panic abort" case).
func (t *Timer) ShouldAbort() bool {
	if t.abort.Load() {
		return true
	}
	if t.disabled {
		return false
	}
	return t.Elapsed() >= t.maximum
}
