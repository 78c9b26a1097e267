package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/timeout"

	"github.com/studypulse/checkin-backend/internal/config"
	"github.com/studypulse/checkin-backend/internal/handlers"
	"github.com/studypulse/checkin-backend/internal/middleware"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	limiterStorage fiber.Storage,
	checkinHandler *handlers.CheckinHandler,
	userHandler *handlers.UserHandler,
	healthHandler *handlers.HealthHandler,
) {
	// Health (no auth)
	app.Get("/health", healthHandler.Check)

	// Protected routes. The request timeout rides on the context handed to the
	// store, so a transaction that has not committed by then rolls back.
	limit := middleware.RateLimit(cfg.RateLimitPerMinute, limiterStorage)
	auth := middleware.Authenticated(cfg)

	app.Post("/users/sync", limit, auth, timeout.NewWithContext(userHandler.Sync, cfg.RequestTimeout))
	app.Get("/checkins/status", limit, auth, timeout.NewWithContext(checkinHandler.Status, cfg.RequestTimeout))
	app.Post("/checkins/today", limit, auth, timeout.NewWithContext(checkinHandler.CheckIn, cfg.RequestTimeout))
}
