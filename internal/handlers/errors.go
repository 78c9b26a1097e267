package handlers

import (
	"errors"
	"log/slog"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"

	"github.com/studypulse/checkin-backend/internal/dto"
	"github.com/studypulse/checkin-backend/internal/middleware"
	"github.com/studypulse/checkin-backend/internal/services"
)

// respondError maps service errors onto the public error body. Store and
// transaction details stay in the logs.
func respondError(c *fiber.Ctx, action, userID string, err error) error {
	if errors.Is(err, services.ErrUnauthenticated) {
		return middleware.Unauthenticated(c)
	}

	slog.Error("request failed",
		"action", action,
		"user_id", userID,
		"request_id", requestID(c),
		"error", err.Error(),
	)
	if hub := sentryfiber.GetHubFromContext(c); hub != nil {
		hub.WithScope(func(scope *sentry.Scope) {
			scope.SetUser(sentry.User{ID: userID})
			scope.SetTag("action", action)
			hub.CaptureException(err)
		})
	}

	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "Internal server error"})
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return ""
}
