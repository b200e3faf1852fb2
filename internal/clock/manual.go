package clock

import (
	"sort"
	"sync"
	"time"
)

// Manual is a test clock. Time stands still until Advance or Set moves it,
// firing any timers whose deadline has been reached.
type Manual struct {
	mu     sync.Mutex
	now    time.Time
	timers []*manualTimer
}

type manualTimer struct {
	clock    *Manual
	deadline time.Time
	f        func()
	stopped  bool
	fired    bool
}

func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *Manual) AfterFunc(d time.Duration, f func()) Timer {
	m.mu.Lock()
	defer m.mu.Unlock()

	t := &manualTimer{
		clock:    m,
		deadline: m.now.Add(d),
		f:        f,
	}
	m.timers = append(m.timers, t)
	return t
}

// Advance moves the clock forward by d.
func (m *Manual) Advance(d time.Duration) {
	m.Set(m.Now().Add(d))
}

// Set jumps the clock to t and fires due timers in deadline order. Timer
// callbacks run on the calling goroutine without the clock lock held, so they
// may schedule further timers.
func (m *Manual) Set(t time.Time) {
	for {
		m.mu.Lock()
		if t.After(m.now) {
			m.now = t
		}

		var due *manualTimer
		for _, tm := range m.timers {
			if tm.stopped || tm.fired || tm.deadline.After(m.now) {
				continue
			}
			if due == nil || tm.deadline.Before(due.deadline) {
				due = tm
			}
		}
		if due == nil {
			m.mu.Unlock()
			return
		}
		due.fired = true
		f := due.f
		m.mu.Unlock()

		f()
	}
}

// Pending returns the deadlines of timers that have not fired or been
// stopped, soonest first.
func (m *Manual) Pending() []time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []time.Time
	for _, tm := range m.timers {
		if !tm.stopped && !tm.fired {
			out = append(out, tm.deadline)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()

	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}
