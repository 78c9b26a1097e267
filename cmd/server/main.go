package main

import (
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/joho/godotenv"

	"github.com/studypulse/checkin-backend/internal/config"
	"github.com/studypulse/checkin-backend/internal/database"
	"github.com/studypulse/checkin-backend/internal/dto"
	"github.com/studypulse/checkin-backend/internal/handlers"
	"github.com/studypulse/checkin-backend/internal/logging"
	"github.com/studypulse/checkin-backend/internal/middleware"
	"github.com/studypulse/checkin-backend/internal/repository"
	"github.com/studypulse/checkin-backend/internal/routes"
	"github.com/studypulse/checkin-backend/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to read .env", "error", err)
	}

	cfg := config.Load()

	// Structured logging (JSON to stdout, optional rotating file)
	baseHandler, logFile := logging.Setup(cfg)
	defer logFile.Close()

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// Database
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(database.DB); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// PostgreSQL log handler (ERROR+ async batch)
	pgLogHandler := logging.NewPGHandler(database.DB)
	slog.SetDefault(slog.New(logging.NewMultiHandler(baseHandler, pgLogHandler)))

	// Log cleanup
	cleanup, err := logging.StartCleanup(database.DB, cfg.LogRetentionDays)
	if err != nil {
		slog.Error("failed to start log cleanup", "error", err)
		os.Exit(1)
	}

	// Services
	days, err := services.NewDayResolver(cfg.CheckinTimezone, time.Now)
	if err != nil {
		slog.Error("invalid check-in timezone", "error", err)
		os.Exit(1)
	}
	ledger := repository.NewLedgerRepository(database.DB)
	checkinService := services.NewCheckinService(ledger, days, cfg.CheckinPoints)

	var profiles services.ProfileSource
	if cfg.ClerkSecretKey != "" {
		profiles = services.NewClerkClient(cfg.ClerkAPIURL, cfg.ClerkSecretKey)
	} else {
		slog.Warn("CLERK_SECRET_KEY not set, /users/sync will not fetch profile fields")
	}
	userService := services.NewUserService(ledger, profiles)

	// Rate limiter storage (shared across instances when Redis is configured)
	var limiterStorage fiber.Storage
	if cfg.RedisURL != "" {
		redisStorage, err := middleware.NewRedisStorage(cfg.RedisURL, "checkin:ratelimit:")
		if err != nil {
			slog.Error("redis unavailable, falling back to in-memory rate limiting", "error", err)
		} else {
			limiterStorage = redisStorage
			defer redisStorage.Close()
		}
	}

	// Handlers
	checkinHandler := handlers.NewCheckinHandler(checkinService)
	userHandler := handlers.NewUserHandler(userService)
	healthHandler := handlers.NewHealthHandler(ledger)

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))

	routes.Setup(app, cfg, limiterStorage, checkinHandler, userHandler, healthHandler)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port, "timezone", days.Location().String(), "reward", checkinService.Reward())
		if err := app.Listen("0.0.0.0:" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	if err := cleanup.Shutdown(); err != nil {
		slog.Error("scheduler shutdown error", "error", err)
	}
	pgLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := database.Close(database.DB); err != nil {
		slog.Error("database close error", "error", err)
	}

	slog.Info("server stopped")
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(dto.ErrorResponse{Error: message})
}
