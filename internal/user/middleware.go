package user

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/wichananm65/fireworks-shop/internal/identity"
)

const profileLocalsKey = "profile"

// RequireRole loads the caller's profile and rejects it unless it has
// role. The profile is stored for downstream handlers (see FromCtx).
func (s *Service) RequireRole(role Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := identity.FromCtx(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
		}
		p, err := s.repo.Get(c.UserContext(), claims.UID)
		if err != nil {
			if !errors.Is(err, ErrNotFound) {
				logrus.WithError(err).Error("profile lookup failed")
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"message": "profile store unavailable"})
			}
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "forbidden"})
		}
		if p.Role != role {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "forbidden"})
		}
		c.Locals(profileLocalsKey, p)
		return c.Next()
	}
}

// FromCtx returns the profile stored by RequireRole.
func FromCtx(c *fiber.Ctx) (Profile, bool) {
	p, ok := c.Locals(profileLocalsKey).(Profile)
	return p, ok
}
