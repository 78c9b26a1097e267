package middleware

import (
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/studypulse/checkin-backend/internal/config"
	"github.com/studypulse/checkin-backend/internal/dto"
	"github.com/studypulse/checkin-backend/internal/identity"
)

// Authenticated verifies the bearer session token. Production tokens are RS256
// and checked against the provider's JWKS; AUTH_SECRET (HS256) is for local use.
func Authenticated(cfg *config.Config) fiber.Handler {
	jwtCfg := jwtware.Config{
		ContextKey:   identity.ContextKey,
		ErrorHandler: func(c *fiber.Ctx, err error) error { return Unauthenticated(c) },
		SuccessHandler: func(c *fiber.Ctx) error {
			if cfg.AuthIssuer == "" {
				return c.Next()
			}
			token, ok := c.Locals(identity.ContextKey).(*jwt.Token)
			if !ok {
				return Unauthenticated(c)
			}
			iss, err := token.Claims.GetIssuer()
			if err != nil || iss != cfg.AuthIssuer {
				return Unauthenticated(c)
			}
			return c.Next()
		},
	}

	if cfg.AuthJWKSURL != "" {
		jwtCfg.JWKSetURLs = []string{cfg.AuthJWKSURL}
	} else {
		jwtCfg.SigningKey = jwtware.SigningKey{
			JWTAlg: jwt.SigningMethodHS256.Alg(),
			Key:    []byte(cfg.AuthSecret),
		}
	}

	return jwtware.New(jwtCfg)
}

func Unauthenticated(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: "Unauthenticated"})
}
