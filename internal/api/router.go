package api

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jackc/pgx/v5/pgxpool"

	swagger "github.com/go-swagno/swagno-fiber/swagger"
	"github.com/vitalstack/healthsync/internal/api/docs"
	"github.com/vitalstack/healthsync/internal/api/handler"
	"github.com/vitalstack/healthsync/internal/api/middleware"
	"github.com/vitalstack/healthsync/internal/scheduler"
	"github.com/vitalstack/healthsync/internal/storage"
	"github.com/vitalstack/healthsync/internal/sync"
)

type Dependencies struct {
	SyncService *sync.Service
	Scheduler   *scheduler.Scheduler
	DB          *pgxpool.Pool
}

type Router struct {
	app    *fiber.App
	logger *slog.Logger
	deps   *Dependencies
}

func NewRouter(logger *slog.Logger, deps *Dependencies) *Router {
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(logger),
		AppName:      "HealthSync API",
	})

	return &Router{
		app:    app,
		logger: logger,
		deps:   deps,
	}
}

func (r *Router) Setup() {
	// Global middlewares
	r.app.Use(requestid.New())
	r.app.Use(middleware.Recover(r.logger))
	r.app.Use(middleware.Logger(r.logger))
	r.app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))

	// Swagger documentation
	sw := docs.NewSwagger()
	swagger.SwaggerHandler(r.app, sw.MustToJson())

	// Health check endpoints
	var checks []handler.ReadyCheck
	if r.deps != nil && r.deps.DB != nil {
		pool := r.deps.DB
		checks = append(checks, func(ctx context.Context) error {
			return storage.HealthCheck(ctx, pool)
		})
	}
	healthHandler := handler.NewHealthHandler(checks...)
	r.app.Get("/health", healthHandler.Health)
	r.app.Get("/ready", healthHandler.Ready)

	v1 := r.app.Group("/v1")

	if r.deps != nil {
		syncHandler := handler.NewSyncHandler(r.deps.SyncService, r.deps.Scheduler, r.logger)

		// Sync routes
		v1.Get("/sync/status", syncHandler.Status)
		v1.Post("/sync/:category", syncHandler.Trigger)

		// Aggregate read routes
		v1.Get("/snapshot", syncHandler.Snapshot)
		v1.Get("/profiles/hourly", syncHandler.HourlyProfile)
		v1.Get("/profiles/weekly", syncHandler.WeeklyProfile)

		// Scheduler routes
		v1.Post("/lifecycle", syncHandler.Lifecycle)
		v1.Post("/summary/submit", syncHandler.SubmitSummary)
	}
}

func (r *Router) App() *fiber.App {
	return r.app
}

func (r *Router) Listen(addr string) error {
	return r.app.Listen(addr)
}

func (r *Router) Shutdown() error {
	return r.app.Shutdown()
}
