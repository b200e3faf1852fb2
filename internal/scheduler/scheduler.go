// Package scheduler drives the once-per-day summary submission: an
// end-of-day one-shot timer, app-lifecycle triggers, and the duplicate-date
// guard backed by the persisted sync record.
package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/vitalstack/healthsync/internal/clock"
	"github.com/vitalstack/healthsync/internal/domain"
	"github.com/vitalstack/healthsync/internal/storage"
	"github.com/vitalstack/healthsync/internal/summary"
)

// State names the scheduler's two states.
type State string

const (
	StateIdle       State = "idle"
	StateSubmitting State = "submitting"
)

// LifecycleEvent is an abstract host-application lifecycle transition.
type LifecycleEvent string

const (
	// EventForegrounded means the app moved from background/inactive to active.
	EventForegrounded LifecycleEvent = "foregrounded"
	// EventBackgrounded means the app moved from active to background/inactive.
	EventBackgrounded LifecycleEvent = "backgrounded"
)

// ParseLifecycleEvent validates an event name from the wire.
func ParseLifecycleEvent(s string) (LifecycleEvent, bool) {
	switch LifecycleEvent(s) {
	case EventForegrounded, EventBackgrounded:
		return LifecycleEvent(s), true
	}
	return "", false
}

var (
	// ErrAlreadySynced means a summary was already submitted for today.
	ErrAlreadySynced = errors.New("daily summary already submitted for today")
	// ErrSubmitting means a submission is currently in flight.
	ErrSubmitting = errors.New("summary submission already in flight")
)

// eagerSubmitHour is the local hour from which a background transition
// triggers the same submission the end-of-day timer would.
const eagerSubmitHour = 23

// Aggregates is the slice of the sync service the scheduler reads.
type Aggregates interface {
	Snapshot() domain.HealthSnapshot
	HourlyProfile() domain.HourlyProfile
	WeeklyProfile() domain.WeeklyProfile
	SyncDaily(ctx context.Context) bool
}

// Submitter delivers an assembled payload to the remote service.
type Submitter interface {
	Submit(ctx context.Context, payload summary.Payload) error
}

// Scheduler is a two-state machine (Idle, Submitting). All triggers funnel
// through attemptSubmission, which checks the date guard and the state
// before any network call.
type Scheduler struct {
	agg       Aggregates
	submitter Submitter
	store     storage.SyncStore
	clk       clock.Clock
	logger    *slog.Logger
	userID    string

	mu           sync.Mutex
	state        State
	lastSyncDate string
	timer        clock.Timer
	stopped      bool
}

func New(agg Aggregates, submitter Submitter, store storage.SyncStore, clk clock.Clock, logger *slog.Logger, userID string) *Scheduler {
	return &Scheduler{
		agg:       agg,
		submitter: submitter,
		store:     store,
		clk:       clk,
		logger:    logger,
		userID:    userID,
		state:     StateIdle,
	}
}

// Start seeds the in-memory sync date from the store and arms the
// end-of-day timer. A missing or unreadable record is not fatal; the date
// guard simply starts empty.
func (s *Scheduler) Start(ctx context.Context) {
	date, err := s.store.LastSyncDate(ctx)
	switch {
	case err == nil:
		s.mu.Lock()
		s.lastSyncDate = date
		s.mu.Unlock()
		s.logger.Info("loaded last sync date", "date", date)
	case errors.Is(err, storage.ErrNotFound):
		s.logger.Info("no previous sync date recorded")
	default:
		s.logger.Error("failed to load last sync date", "error", err)
	}

	s.arm()
}

// Stop cancels the pending timer. Further triggers are ignored.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopped = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// State returns the current state, for observability endpoints.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// LastSyncDate returns the in-memory last-synced calendar date.
func (s *Scheduler) LastSyncDate() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSyncDate
}

// HandleLifecycle feeds a host-application lifecycle transition into the
// machine. Foregrounding refreshes the daily snapshot if the fetch guard
// allows; backgrounding late in the day eagerly submits in case the app is
// gone before the timer fires.
func (s *Scheduler) HandleLifecycle(ctx context.Context, event LifecycleEvent) {
	switch event {
	case EventForegrounded:
		s.agg.SyncDaily(ctx)
		s.arm()
	case EventBackgrounded:
		if s.clk.Now().Hour() >= eagerSubmitHour {
			if err := s.attemptSubmission(ctx); err != nil {
				s.logger.Debug("eager submission not performed", "error", err)
			}
		}
	}
}

// SubmitNow runs the same guarded submission path the timer uses.
func (s *Scheduler) SubmitNow(ctx context.Context) error {
	return s.attemptSubmission(ctx)
}

// arm schedules the one-shot end-of-day timer, replacing any pending one.
func (s *Scheduler) arm() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}
	if s.timer != nil {
		s.timer.Stop()
	}

	// End of day is a millisecond before local midnight, so the attempt
	// still falls on the date it summarizes.
	now := s.clk.Now()
	endOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).
		AddDate(0, 0, 1).Add(-time.Millisecond)
	untilEndOfDay := endOfDay.Sub(now)
	if untilEndOfDay <= 0 {
		untilEndOfDay += 24 * time.Hour
	}

	s.timer = s.clk.AfterFunc(untilEndOfDay, s.onTimer)
	s.logger.Debug("end-of-day timer armed", "fires_in", untilEndOfDay)
}

func (s *Scheduler) onTimer() {
	if err := s.attemptSubmission(context.Background()); err != nil {
		s.logger.Debug("timer submission not performed", "error", err)
	}
	s.arm()
}

// attemptSubmission is the single transition out of Idle. The date check and
// the move to Submitting happen atomically, so no two triggers can both pass
// the guard for the same day.
func (s *Scheduler) attemptSubmission(ctx context.Context) error {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return nil
	}
	if s.state == StateSubmitting {
		s.mu.Unlock()
		return ErrSubmitting
	}

	today := s.clk.Now().Format(storage.DateLayout)
	if s.lastSyncDate == today {
		s.mu.Unlock()
		return ErrAlreadySynced
	}
	if s.userID == "" {
		s.mu.Unlock()
		s.logger.Error("summary submission skipped: no user id configured")
		return domain.ErrMissingUserID
	}

	s.state = StateSubmitting
	s.mu.Unlock()

	payload := summary.BuildPayload(s.userID, s.clk.Now(), s.agg.Snapshot(), s.agg.HourlyProfile(), s.agg.WeeklyProfile())
	err := s.submitter.Submit(ctx, payload)

	s.mu.Lock()
	s.state = StateIdle
	if err != nil {
		s.mu.Unlock()
		s.logger.Error("summary submission failed", "date", today, "error", err)
		return err
	}
	s.lastSyncDate = today
	s.mu.Unlock()

	if err := s.store.SetLastSyncDate(ctx, today); err != nil {
		// In-memory guard still holds for this process; the worst case
		// after a restart is one extra submission attempt.
		s.logger.Error("failed to persist sync date", "date", today, "error", err)
	}

	s.logger.Info("daily summary submitted", "date", today)
	return nil
}
