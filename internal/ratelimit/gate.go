// Package ratelimit provides a boolean gate that allows an action at most
// once per configurable interval.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/vitalstack/healthsync/internal/clock"
)

// Gate allows one call per interval. The first Allow after construction or
// Reset always succeeds.
type Gate struct {
	mu       sync.Mutex
	interval time.Duration
	clk      clock.Clock
	limiter  *rate.Limiter
}

func NewGate(interval time.Duration, clk clock.Clock) *Gate {
	return &Gate{
		interval: interval,
		clk:      clk,
		limiter:  rate.NewLimiter(rate.Every(interval), 1),
	}
}

// Allow reports whether at least the configured interval has elapsed since
// the last successful call. A true return consumes the slot; a false return
// leaves the gate unchanged.
func (g *Gate) Allow() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.limiter.AllowN(g.clk.Now(), 1)
}

// Peek reports whether Allow would currently succeed, without consuming
// the slot.
func (g *Gate) Peek() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.limiter.TokensAt(g.clk.Now()) >= 1
}

// Reset clears the gate so the next Allow succeeds immediately.
func (g *Gate) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.limiter = rate.NewLimiter(rate.Every(g.interval), 1)
}

// Interval returns the configured minimum interval between allowed calls.
func (g *Gate) Interval() time.Duration {
	return g.interval
}
