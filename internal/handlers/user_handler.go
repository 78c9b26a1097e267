package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/studypulse/checkin-backend/internal/identity"
	"github.com/studypulse/checkin-backend/internal/services"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Sync handles POST /users/sync, called by the app right after sign-in.
func (h *UserHandler) Sync(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return respondError(c, "user_sync", "", services.ErrUnauthenticated)
	}

	resp, err := h.userService.Sync(c.UserContext(), userID, identity.GetSessionID(c))
	if err != nil {
		return respondError(c, "user_sync", userID, err)
	}
	return c.JSON(resp)
}
