package sync

import (
	"sync"
	"time"

	"github.com/vitalstack/healthsync/internal/clock"
	"github.com/vitalstack/healthsync/internal/ratelimit"
)

// Category identifies one aggregation cadence.
type Category string

const (
	CategoryHourly Category = "hourly"
	CategoryDaily  Category = "daily"
	CategoryWeekly Category = "weekly"
)

// Intervals holds the minimum time between successful fetches per category.
type Intervals struct {
	Hourly time.Duration
	Daily  time.Duration
	Weekly time.Duration
}

// DefaultIntervals returns the standard fetch cadence.
func DefaultIntervals() Intervals {
	return Intervals{
		Hourly: time.Hour,
		Daily:  24 * time.Hour,
		Weekly: 7 * 24 * time.Hour,
	}
}

type fetchState struct {
	gate      *ratelimit.Gate
	lastFetch time.Time
	inFlight  bool
}

// Coordinator tracks, per category, whether a fetch is in flight and when
// one last completed successfully. It suppresses overlapping fetches, and a
// per-category gate suppresses fetches inside the category's interval. Its
// methods are pure guards and never return errors.
type Coordinator struct {
	mu     sync.Mutex
	clk    clock.Clock
	states map[Category]*fetchState
}

func NewCoordinator(clk clock.Clock, intervals Intervals) *Coordinator {
	return &Coordinator{
		clk: clk,
		states: map[Category]*fetchState{
			CategoryHourly: {gate: ratelimit.NewGate(intervals.Hourly, clk)},
			CategoryDaily:  {gate: ratelimit.NewGate(intervals.Daily, clk)},
			CategoryWeekly: {gate: ratelimit.NewGate(intervals.Weekly, clk)},
		},
	}
}

// ShouldFetch reports whether a fetch of the category may start now: no
// fetch of the same category in flight, and the category's gate open. It
// does not consume the gate.
func (c *Coordinator) ShouldFetch(cat Category) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	st, ok := c.states[cat]
	if !ok {
		return false
	}
	return !st.inFlight && st.gate.Peek()
}

// BeginFetch atomically re-checks eligibility and marks the category as in
// flight, consuming the gate's slot. It reports whether the fetch may
// proceed; a false return changes nothing.
func (c *Coordinator) BeginFetch(cat Category) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	st, ok := c.states[cat]
	if !ok || st.inFlight {
		return false
	}
	if !st.gate.Allow() {
		return false
	}
	st.inFlight = true
	return true
}

// EndFetch clears the in-flight flag. On success the last-fetch time is
// stamped; on failure the gate is reopened so the retry path, not the
// interval guard, decides when to try again.
func (c *Coordinator) EndFetch(cat Category, success bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	st, ok := c.states[cat]
	if !ok {
		return
	}
	st.inFlight = false
	if success {
		st.lastFetch = c.clk.Now()
	} else {
		st.gate.Reset()
	}
}

// LastFetch returns the time of the category's last successful fetch, zero
// if none has completed yet.
func (c *Coordinator) LastFetch(cat Category) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	if st, ok := c.states[cat]; ok {
		return st.lastFetch
	}
	return time.Time{}
}
