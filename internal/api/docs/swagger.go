package docs

import (
	"github.com/go-swagno/swagno"
	"github.com/go-swagno/swagno/components/endpoint"
	"github.com/go-swagno/swagno/components/http/response"
	"github.com/go-swagno/swagno/components/mime"
	"github.com/go-swagno/swagno/components/parameter"
)

// SyncTriggerResponse describes the outcome of a manual sync trigger.
type SyncTriggerResponse struct {
	Category string `json:"category" example:"hourly"`
	Started  bool   `json:"started" example:"true"`
	Skipped  bool   `json:"skipped,omitempty" example:"false"`
}

// SnapshotResponse is the latest daily health snapshot.
type SnapshotResponse struct {
	Steps          int     `json:"steps" example:"6500"`
	CaloriesBurned float64 `json:"calories_burned" example:"200.75"`
	HeartRate      int     `json:"heart_rate" example:"82"`
	GlucoseLevel   float64 `json:"glucose_level" example:"101"`
	GlucoseUnit    string  `json:"glucose_unit" example:"mg/dL"`
	SleepHours     float64 `json:"sleep_hours" example:"7.33"`
}

// HourlyProfileResponse is the 24-bucket heart-rate profile for today.
type HourlyProfileResponse struct {
	HeartRate []float64 `json:"hourly_heart_rate"`
	Hours     []string  `json:"hours" example:"0:00,1:00"`
}

// WeeklyProfileResponse is the Monday-anchored weekly profile.
type WeeklyProfileResponse struct {
	HeartRate []float64 `json:"weekly_heart_rate"`
	Steps     []int     `json:"weekly_steps"`
	Days      []string  `json:"week_days" example:"Mon,Tue"`
}

// LifecycleRequest carries a host-app lifecycle transition.
type LifecycleRequest struct {
	Event string `json:"event" example:"foregrounded"`
}

// LifecycleResponse acknowledges a lifecycle event.
type LifecycleResponse struct {
	Event    string `json:"event" example:"foregrounded"`
	Accepted bool   `json:"accepted" example:"true"`
}

// SubmitResponse describes the outcome of a summary submission attempt.
type SubmitResponse struct {
	Submitted bool   `json:"submitted" example:"true"`
	Skipped   bool   `json:"skipped,omitempty" example:"false"`
	Reason    string `json:"reason,omitempty" example:"already submitted today"`
}

// StatusResponse reports scheduler state.
type StatusResponse struct {
	State        string `json:"state" example:"idle"`
	LastSyncDate string `json:"last_sync_date,omitempty" example:"2026-08-27"`
}

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Code    string `json:"code" example:"BAD_REQUEST"`
	Message string `json:"message" example:"Request validation failed"`
}

func NewSwagger() *swagno.Swagger {
	sw := swagno.New(swagno.Config{
		Title:       "HealthSync API",
		Version:     "v0.1.0",
		Description: "Health data synchronization service: provider fetch coordination, hourly/daily/weekly aggregation, and daily summary submission",
		Host:        "localhost:3000",
		Path:        "/v1",
	})

	endpoints := []*endpoint.EndPoint{
		// POST /v1/sync/{category} - trigger an aggregation pass
		endpoint.New(
			endpoint.POST,
			"/sync/{category}",
			endpoint.WithTags("Sync"),
			endpoint.WithSummary("Trigger a sync pass"),
			endpoint.WithDescription("Runs the hourly, daily, or weekly aggregation pass. Returns 202 when the pass started and 200 with skipped=true when the fetch guard suppressed it."),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("category", parameter.Path, parameter.WithDescription("hourly, daily, or weekly")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(SyncTriggerResponse{}, "202", "Pass started"),
				response.New(SyncTriggerResponse{}, "200", "Pass suppressed by the fetch guard"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "BAD_REQUEST", Message: "unknown sync category"}, "400", "Bad Request"),
			}),
		),

		// GET /v1/snapshot
		endpoint.New(
			endpoint.GET,
			"/snapshot",
			endpoint.WithTags("Aggregates"),
			endpoint.WithSummary("Latest daily snapshot"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(SnapshotResponse{}, "200", "Snapshot returned"),
			}),
		),

		// GET /v1/profiles/hourly
		endpoint.New(
			endpoint.GET,
			"/profiles/hourly",
			endpoint.WithTags("Aggregates"),
			endpoint.WithSummary("Hourly heart-rate profile"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(HourlyProfileResponse{}, "200", "Profile returned"),
			}),
		),

		// GET /v1/profiles/weekly
		endpoint.New(
			endpoint.GET,
			"/profiles/weekly",
			endpoint.WithTags("Aggregates"),
			endpoint.WithSummary("Weekly heart-rate and step profile"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(WeeklyProfileResponse{}, "200", "Profile returned"),
			}),
		),

		// POST /v1/lifecycle
		endpoint.New(
			endpoint.POST,
			"/lifecycle",
			endpoint.WithTags("Scheduler"),
			endpoint.WithSummary("Report a host-app lifecycle event"),
			endpoint.WithDescription("foregrounded refreshes the daily aggregates; backgrounded near end of day attempts the summary submission early."),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithBody(LifecycleRequest{}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(LifecycleResponse{}, "200", "Event accepted"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "BAD_REQUEST", Message: "unknown lifecycle event"}, "400", "Bad Request"),
			}),
		),

		// POST /v1/summary/submit
		endpoint.New(
			endpoint.POST,
			"/summary/submit",
			endpoint.WithTags("Scheduler"),
			endpoint.WithSummary("Submit today's summary now"),
			endpoint.WithDescription("Manually triggers the daily summary submission. The once-per-date guard still applies."),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(SubmitResponse{}, "200", "Submitted, or skipped because today was already submitted"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(SubmitResponse{}, "409", "A submission is already in flight"),
				response.New(ErrorResponse{Code: "MISSING_USER_ID", Message: "user id is not configured"}, "412", "Precondition Failed"),
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
		),

		// GET /v1/sync/status
		endpoint.New(
			endpoint.GET,
			"/sync/status",
			endpoint.WithTags("Scheduler"),
			endpoint.WithSummary("Scheduler status"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(StatusResponse{}, "200", "Status returned"),
			}),
		),
	}

	sw.AddEndpoints(endpoints)
	return sw
}
