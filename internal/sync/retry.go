package sync

import (
	"context"

	"github.com/vitalstack/healthsync/internal/provider"
)

// resetRetries clears the category's consecutive rate-limit counter after a
// successful pass. Counters are per aggregator; hourly and weekly budgets
// never interfere.
func (s *Service) resetRetries(cat Category) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch cat {
	case CategoryHourly:
		s.hourlyRetries = 0
	case CategoryWeekly:
		s.weeklyRetries = 0
	}
}

// handlePassError classifies a failed aggregation pass. Permission and
// initialization failures abort silently; prior data stays published and a
// later pass may succeed. Rate limits on the hourly and weekly aggregators
// get a bounded number of fixed-delay retries. Everything else is logged and
// dropped.
func (s *Service) handlePassError(cat Category, err error) {
	if provider.IsPermissionDenied(err) {
		s.logger.Warn("aggregation pass aborted", "category", cat, "error", err)
		return
	}

	if !provider.IsRateLimited(err) || cat == CategoryDaily {
		s.logger.Error("aggregation pass failed", "category", cat, "error", err)
		return
	}

	s.mu.Lock()
	counter := s.retryCounter(cat)
	if *counter >= s.retry.MaxRetries {
		*counter = 0
		s.mu.Unlock()
		s.logger.Warn("rate-limit retries exhausted, abandoning pass",
			"category", cat,
			"max_retries", s.retry.MaxRetries,
		)
		return
	}
	*counter++
	attempt := *counter
	s.mu.Unlock()

	s.logger.Warn("provider rate limited, retry scheduled",
		"category", cat,
		"attempt", attempt,
		"delay", s.retry.Delay,
	)

	s.clk.AfterFunc(s.retry.Delay, func() {
		ctx := context.Background()
		switch cat {
		case CategoryHourly:
			s.SyncHourly(ctx)
		case CategoryWeekly:
			s.SyncWeekly(ctx)
		}
	})
}

// retryCounter must be called with s.mu held.
func (s *Service) retryCounter(cat Category) *int {
	if cat == CategoryWeekly {
		return &s.weeklyRetries
	}
	return &s.hourlyRetries
}
