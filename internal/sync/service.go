// Package sync implements the health-data aggregation core: per-category
// fetch coordination, hourly/daily/weekly aggregation passes over the
// provider, and bounded retry on provider rate limits.
package sync

import (
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/vitalstack/healthsync/internal/clock"
	"github.com/vitalstack/healthsync/internal/domain"
	"github.com/vitalstack/healthsync/internal/provider"
)

// RetryConfig bounds the rate-limit retry policy for the hourly and weekly
// aggregators.
type RetryConfig struct {
	Delay      time.Duration
	MaxRetries int
}

// DefaultRetryConfig matches the provider's documented rate-limit window.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{Delay: 60 * time.Second, MaxRetries: 3}
}

// Service owns the aggregated state and runs aggregation passes. Published
// profiles are replaced whole or not at all; a failed pass leaves the
// previous result untouched.
type Service struct {
	provider provider.HealthProvider
	coord    *Coordinator
	clk      clock.Clock
	logger   *slog.Logger
	retry    RetryConfig

	mu            sync.Mutex
	snapshot      domain.HealthSnapshot
	hourly        domain.HourlyProfile
	weekly        domain.WeeklyProfile
	hourlyRetries int
	weeklyRetries int
}

func NewService(prov provider.HealthProvider, coord *Coordinator, clk clock.Clock, logger *slog.Logger, retry RetryConfig) *Service {
	return &Service{
		provider: prov,
		coord:    coord,
		clk:      clk,
		logger:   logger,
		retry:    retry,
	}
}

// Snapshot returns a copy of the current daily snapshot.
func (s *Service) Snapshot() domain.HealthSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot
}

// HourlyProfile returns a copy of the published hourly profile.
func (s *Service) HourlyProfile() domain.HourlyProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.HourlyProfile{
		HeartRate: append([]float64(nil), s.hourly.HeartRate...),
		Hours:     append([]string(nil), s.hourly.Hours...),
	}
}

// WeeklyProfile returns a copy of the published weekly profile.
func (s *Service) WeeklyProfile() domain.WeeklyProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.WeeklyProfile{
		HeartRate: append([]float64(nil), s.weekly.HeartRate...),
		Steps:     append([]int(nil), s.weekly.Steps...),
		Days:      append([]string(nil), s.weekly.Days...),
	}
}

// Coordinator exposes the fetch guards, mainly for the scheduler's
// foreground check.
func (s *Service) Coordinator() *Coordinator {
	return s.coord
}

func (s *Service) publishSnapshot(snap domain.HealthSnapshot) {
	s.mu.Lock()
	s.snapshot = snap
	s.mu.Unlock()
}

func (s *Service) publishHourly(p domain.HourlyProfile) {
	s.mu.Lock()
	s.hourly = p
	s.mu.Unlock()
}

func (s *Service) publishWeekly(p domain.WeeklyProfile) {
	s.mu.Lock()
	s.weekly = p
	s.mu.Unlock()
}

// localDayStart returns midnight of the current local day.
func (s *Service) localDayStart() time.Time {
	now := s.clk.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// meanBPM averages the instantaneous sample of each heart-rate record.
// Returns 0 for an empty bucket.
func meanBPM(records []provider.Record) float64 {
	var sum float64
	var n int
	for _, rec := range records {
		if len(rec.Samples) == 0 {
			continue
		}
		sum += rec.Samples[0].BeatsPerMinute
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func sumSteps(records []provider.Record) int {
	total := 0
	for _, rec := range records {
		total += rec.Count
	}
	return total
}
