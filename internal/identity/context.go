package identity

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// ContextKey is where the auth middleware stores the verified token.
const ContextKey = "user"

var ErrNoIdentity = errors.New("no verified identity on request")

// GetUserID returns the stable user identifier (the token's sub claim).
func GetUserID(c *fiber.Ctx) (string, error) {
	claims, err := claimsFrom(c)
	if err != nil {
		return "", err
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", ErrNoIdentity
	}
	return sub, nil
}

// GetSessionID returns the provider session id (sid claim), or "" when absent.
func GetSessionID(c *fiber.Ctx) string {
	claims, err := claimsFrom(c)
	if err != nil {
		return ""
	}
	sid, _ := claims["sid"].(string)
	return sid
}

func claimsFrom(c *fiber.Ctx) (jwt.MapClaims, error) {
	token, ok := c.Locals(ContextKey).(*jwt.Token)
	if !ok || token == nil {
		return nil, ErrNoIdentity
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrNoIdentity
	}
	return claims, nil
}
