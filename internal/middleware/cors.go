package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/studypulse/checkin-backend/internal/config"
)

// CORS lets browser clients call the API with a bearer token. Only GET and
// POST routes exist.
func CORS(cfg *config.Config) fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Content-Type, Authorization",
		AllowMethods: "GET, POST, OPTIONS",
	})
}
