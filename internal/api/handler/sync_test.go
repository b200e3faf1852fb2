package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalstack/healthsync/internal/api/middleware"
	"github.com/vitalstack/healthsync/internal/clock"
	"github.com/vitalstack/healthsync/internal/domain"
	"github.com/vitalstack/healthsync/internal/scheduler"
	"github.com/vitalstack/healthsync/internal/storage"
	"github.com/vitalstack/healthsync/internal/summary"
)

// fakeSyncer returns canned aggregates and records which passes ran.
type fakeSyncer struct {
	started  bool
	hourly   int
	daily    int
	weekly   int
	snapshot domain.HealthSnapshot
}

func (f *fakeSyncer) SyncHourly(ctx context.Context) bool { f.hourly++; return f.started }
func (f *fakeSyncer) SyncDaily(ctx context.Context) bool  { f.daily++; return f.started }
func (f *fakeSyncer) SyncWeekly(ctx context.Context) bool { f.weekly++; return f.started }
func (f *fakeSyncer) Snapshot() domain.HealthSnapshot     { return f.snapshot }
func (f *fakeSyncer) HourlyProfile() domain.HourlyProfile { return domain.HourlyProfile{} }
func (f *fakeSyncer) WeeklyProfile() domain.WeeklyProfile { return domain.WeeklyProfile{} }

type stubSubmitter struct {
	payloads []summary.Payload
}

func (s *stubSubmitter) Submit(ctx context.Context, payload summary.Payload) error {
	s.payloads = append(s.payloads, payload)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestApp(t *testing.T, syncer *fakeSyncer, userID string) (*fiber.App, *stubSubmitter) {
	t.Helper()

	clk := clock.NewManual(time.Date(2024, 6, 5, 10, 30, 0, 0, time.UTC))
	submitter := &stubSubmitter{}
	sched := scheduler.New(syncer, submitter, storage.NewMemoryStore(), clk, testLogger(), userID)

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(testLogger()),
	})
	h := NewSyncHandler(syncer, sched, testLogger())
	app.Post("/v1/sync/:category", h.Trigger)
	app.Get("/v1/sync/status", h.Status)
	app.Get("/v1/snapshot", h.Snapshot)
	app.Post("/v1/lifecycle", h.Lifecycle)
	app.Post("/v1/summary/submit", h.SubmitSummary)

	return app, submitter
}

func TestSyncHandler_TriggerStarted(t *testing.T) {
	syncer := &fakeSyncer{started: true}
	app, _ := newTestApp(t, syncer, "user-1")

	resp, err := app.Test(httptest.NewRequest("POST", "/v1/sync/hourly", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusAccepted, resp.StatusCode)
	assert.Equal(t, 1, syncer.hourly)

	var body SyncResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Started)
	assert.Equal(t, "hourly", body.Category)
}

func TestSyncHandler_TriggerSkipped(t *testing.T) {
	syncer := &fakeSyncer{started: false}
	app, _ := newTestApp(t, syncer, "user-1")

	resp, err := app.Test(httptest.NewRequest("POST", "/v1/sync/daily", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body SyncResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Skipped)
	assert.Equal(t, 1, syncer.daily)
}

func TestSyncHandler_TriggerUnknownCategory(t *testing.T) {
	app, _ := newTestApp(t, &fakeSyncer{}, "user-1")

	resp, err := app.Test(httptest.NewRequest("POST", "/v1/sync/monthly", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestSyncHandler_Snapshot(t *testing.T) {
	syncer := &fakeSyncer{snapshot: domain.HealthSnapshot{Steps: 6500, HeartRate: 82}}
	app, _ := newTestApp(t, syncer, "user-1")

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/snapshot", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var snap domain.HealthSnapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	assert.Equal(t, 6500, snap.Steps)
	assert.Equal(t, 82, snap.HeartRate)
}

func TestSyncHandler_LifecycleForeground(t *testing.T) {
	syncer := &fakeSyncer{started: true}
	app, _ := newTestApp(t, syncer, "user-1")

	req := httptest.NewRequest("POST", "/v1/lifecycle", strings.NewReader(`{"event":"foregrounded"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, syncer.daily, "foreground refreshes the daily aggregates")
}

func TestSyncHandler_LifecycleUnknownEvent(t *testing.T) {
	app, _ := newTestApp(t, &fakeSyncer{}, "user-1")

	req := httptest.NewRequest("POST", "/v1/lifecycle", strings.NewReader(`{"event":"hibernated"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestSyncHandler_SubmitSummary(t *testing.T) {
	app, submitter := newTestApp(t, &fakeSyncer{}, "user-1")

	resp, err := app.Test(httptest.NewRequest("POST", "/v1/summary/submit", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Len(t, submitter.payloads, 1)
	assert.Equal(t, "user-1", submitter.payloads[0].UserID)

	var body SubmitResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Submitted)

	// A second submit on the same date is skipped, not repeated.
	resp, err = app.Test(httptest.NewRequest("POST", "/v1/summary/submit", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, submitter.payloads, 1)

	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Skipped)
}

func TestSyncHandler_SubmitSummaryMissingUserID(t *testing.T) {
	app, submitter := newTestApp(t, &fakeSyncer{}, "")

	resp, err := app.Test(httptest.NewRequest("POST", "/v1/summary/submit", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusPreconditionFailed, resp.StatusCode)
	assert.Empty(t, submitter.payloads)
}

func TestSyncHandler_Status(t *testing.T) {
	app, _ := newTestApp(t, &fakeSyncer{}, "user-1")

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/sync/status", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body StatusResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "idle", body.State)
	assert.Empty(t, body.LastSyncDate)
}
