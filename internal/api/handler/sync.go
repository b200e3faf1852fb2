package handler

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/vitalstack/healthsync/internal/domain"
	"github.com/vitalstack/healthsync/internal/scheduler"
	"github.com/vitalstack/healthsync/internal/sync"
)

// Syncer is the slice of the sync service the HTTP layer needs.
type Syncer interface {
	SyncHourly(ctx context.Context) bool
	SyncDaily(ctx context.Context) bool
	SyncWeekly(ctx context.Context) bool
	Snapshot() domain.HealthSnapshot
	HourlyProfile() domain.HourlyProfile
	WeeklyProfile() domain.WeeklyProfile
}

type SyncHandler struct {
	syncer    Syncer
	scheduler *scheduler.Scheduler
	logger    *slog.Logger
}

func NewSyncHandler(syncer Syncer, sched *scheduler.Scheduler, logger *slog.Logger) *SyncHandler {
	return &SyncHandler{
		syncer:    syncer,
		scheduler: sched,
		logger:    logger,
	}
}

type SyncResponse struct {
	Category string `json:"category"`
	Started  bool   `json:"started"`
	Skipped  bool   `json:"skipped,omitempty"`
}

// Trigger runs the aggregation pass for the category in the path. A pass
// suppressed by its fetch guard is a normal outcome, not an error.
func (h *SyncHandler) Trigger(c *fiber.Ctx) error {
	category := sync.Category(c.Params("category"))

	var started bool
	switch category {
	case sync.CategoryHourly:
		started = h.syncer.SyncHourly(c.Context())
	case sync.CategoryDaily:
		started = h.syncer.SyncDaily(c.Context())
	case sync.CategoryWeekly:
		started = h.syncer.SyncWeekly(c.Context())
	default:
		return domain.ErrBadRequest.WithError(errors.New("unknown sync category"))
	}

	resp := SyncResponse{Category: string(category), Started: started, Skipped: !started}
	if started {
		return c.Status(fiber.StatusAccepted).JSON(resp)
	}
	return c.JSON(resp)
}

func (h *SyncHandler) Snapshot(c *fiber.Ctx) error {
	return c.JSON(h.syncer.Snapshot())
}

func (h *SyncHandler) HourlyProfile(c *fiber.Ctx) error {
	return c.JSON(h.syncer.HourlyProfile())
}

func (h *SyncHandler) WeeklyProfile(c *fiber.Ctx) error {
	return c.JSON(h.syncer.WeeklyProfile())
}

type LifecycleRequest struct {
	Event string `json:"event"`
}

// Lifecycle feeds a host-app lifecycle transition to the scheduler.
func (h *SyncHandler) Lifecycle(c *fiber.Ctx) error {
	var req LifecycleRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrBadRequest.WithError(err)
	}

	event, ok := scheduler.ParseLifecycleEvent(req.Event)
	if !ok {
		return domain.ErrBadRequest.WithError(errors.New("unknown lifecycle event"))
	}

	h.scheduler.HandleLifecycle(c.Context(), event)
	return c.JSON(fiber.Map{"event": string(event), "accepted": true})
}

type SubmitResponse struct {
	Submitted bool   `json:"submitted"`
	Skipped   bool   `json:"skipped,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

// SubmitSummary manually triggers the guarded daily submission path.
func (h *SyncHandler) SubmitSummary(c *fiber.Ctx) error {
	err := h.scheduler.SubmitNow(c.Context())
	switch {
	case err == nil:
		return c.JSON(SubmitResponse{Submitted: true})
	case errors.Is(err, scheduler.ErrAlreadySynced):
		return c.JSON(SubmitResponse{Skipped: true, Reason: "already submitted today"})
	case errors.Is(err, scheduler.ErrSubmitting):
		return c.Status(fiber.StatusConflict).JSON(SubmitResponse{Skipped: true, Reason: "submission in flight"})
	case errors.Is(err, domain.ErrMissingUserID):
		return domain.ErrMissingUserID
	default:
		return domain.ErrInternal.WithError(err)
	}
}

type StatusResponse struct {
	State        string `json:"state"`
	LastSyncDate string `json:"last_sync_date,omitempty"`
}

// Status reports the scheduler state for observability.
func (h *SyncHandler) Status(c *fiber.Ctx) error {
	return c.JSON(StatusResponse{
		State:        string(h.scheduler.State()),
		LastSyncDate: h.scheduler.LastSyncDate(),
	})
}
