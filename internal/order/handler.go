package order

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/wichananm65/fireworks-shop/internal/cart"
	"github.com/wichananm65/fireworks-shop/internal/user"
)

type Handler struct {
	service *Service
	carts   *cart.Service
}

func NewHandler(s *Service, carts *cart.Service) *Handler {
	return &Handler{service: s, carts: carts}
}

// RegisterCustomerRoutes expects orders to be gated to the user role so
// the caller's profile is in Locals.
func (h *Handler) RegisterCustomerRoutes(orders fiber.Router) {
	orders.Post("", h.placeOrder)
	orders.Get("", h.listOwnOrders)
	orders.Get("/:id", h.getOrder)
}

// RegisterAdminRoutes expects admin to be gated to the admin role.
func (h *Handler) RegisterAdminRoutes(admin fiber.Router) {
	admin.Get("/orders", h.listAllOrders)
	admin.Get("/orders/:id", h.getOrder)
	admin.Post("/orders/:id/verify", h.verifyOrder)
	admin.Post("/orders/:id/complete", h.completeOrder)
}

type verifyRequest struct {
	Accepted bool   `json:"accepted"`
	Notes    string `json:"notes"`
}

func (h *Handler) placeOrder(c *fiber.Ctx) error {
	p, ok := user.FromCtx(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	payload := new(DeliveryInfo)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	var created Order
	err := h.carts.Checkout(p.UID, func(ct *cart.Cart) error {
		var err error
		created, err = h.service.PlaceOrder(c.UserContext(), p, ct, *payload)
		return err
	})
	if err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Missing required fields", "errors": ve.Fields})
		}
		logrus.WithError(err).WithField("user", p.UID).Error("place order failed")
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"message": "Failed to place order, please try again"})
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *Handler) listOwnOrders(c *fiber.Ctx) error {
	p, ok := user.FromCtx(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	orders, err := h.service.ListForUser(c.UserContext(), p.UID)
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(orders)
}

func (h *Handler) getOrder(c *fiber.Ctx) error {
	p, ok := user.FromCtx(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	o, err := h.service.Get(c.UserContext(), p, c.Params("id"))
	if err != nil {
		return h.orderError(c, err)
	}
	return c.JSON(o)
}

func (h *Handler) listAllOrders(c *fiber.Ctx) error {
	orders, err := h.service.ListAll(c.UserContext(), Status(c.Query("status")))
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(orders)
}

func (h *Handler) verifyOrder(c *fiber.Ctx) error {
	payload := new(verifyRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	o, err := h.service.Verify(c.UserContext(), c.Params("id"), payload.Accepted, payload.Notes)
	if err != nil {
		return h.orderError(c, err)
	}
	return c.JSON(o)
}

func (h *Handler) completeOrder(c *fiber.Ctx) error {
	o, err := h.service.Complete(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.orderError(c, err)
	}
	return c.JSON(o)
}

func (h *Handler) orderError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Order not found"})
	case errors.Is(err, ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "forbidden"})
	case errors.Is(err, ErrInvalidTransition):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": err.Error()})
	default:
		return storeError(c, err)
	}
}

func storeError(c *fiber.Ctx, err error) error {
	logrus.WithError(err).Error("order store request failed")
	return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"message": "Order store unavailable, please try again"})
}
