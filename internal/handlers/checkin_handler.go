package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/studypulse/checkin-backend/internal/identity"
	"github.com/studypulse/checkin-backend/internal/services"
)

type CheckinHandler struct {
	checkinService *services.CheckinService
}

func NewCheckinHandler(checkinService *services.CheckinService) *CheckinHandler {
	return &CheckinHandler{checkinService: checkinService}
}

// Status handles GET /checkins/status.
func (h *CheckinHandler) Status(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return respondError(c, "checkin_status", "", services.ErrUnauthenticated)
	}

	resp, err := h.checkinService.Status(c.UserContext(), userID)
	if err != nil {
		return respondError(c, "checkin_status", userID, err)
	}
	return c.JSON(resp)
}

// CheckIn handles POST /checkins/today.
func (h *CheckinHandler) CheckIn(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return respondError(c, "checkin_today", "", services.ErrUnauthenticated)
	}

	resp, err := h.checkinService.CheckIn(c.UserContext(), userID)
	if err != nil {
		return respondError(c, "checkin_today", userID, err)
	}
	return c.JSON(resp)
}
