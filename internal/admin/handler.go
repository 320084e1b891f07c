package admin

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterAdminRoutes expects admin to be gated to the admin role.
func (h *Handler) RegisterAdminRoutes(admin fiber.Router) {
	admin.Get("/stats", h.getStats)
}

func (h *Handler) getStats(c *fiber.Ctx) error {
	st, err := h.service.ComputeStats(c.UserContext())
	if err != nil {
		logrus.WithError(err).Error("computing admin stats failed")
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"message": "Store unavailable, please try again"})
	}
	return c.JSON(st)
}
