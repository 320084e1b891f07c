package cart

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/wichananm65/fireworks-shop/internal/identity"
	"github.com/wichananm65/fireworks-shop/internal/product"
)

// Handler delegates cart operations to the cart service.
type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterProtectedRoutes(app fiber.Router) {
	app.Get("/api/v1/cart", h.getCart)
	app.Delete("/api/v1/cart", h.clearCart)
	app.Post("/api/v1/cart/items", h.addToCart)
	app.Patch("/api/v1/cart/items/:id", h.setQuantity)
	app.Delete("/api/v1/cart/items/:id", h.removeItem)
}

type addRequest struct {
	ProductID string `json:"productId"`
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

func (h *Handler) getCart(c *fiber.Ctx) error {
	claims, err := identity.FromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	v, err := h.service.Get(c.UserContext(), claims.UID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(v)
}

func (h *Handler) addToCart(c *fiber.Ctx) error {
	claims, err := identity.FromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	payload := new(addRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.ProductID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid productId"})
	}

	v, err := h.service.AddProduct(c.UserContext(), claims.UID, payload.ProductID)
	if err != nil {
		switch {
		case errors.Is(err, product.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Product not found"})
		case errors.Is(err, ErrOutOfStock):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "Product is out of stock"})
		default:
			logrus.WithError(err).Error("add to cart failed")
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"message": "Product store unavailable, please try again"})
		}
	}
	return c.JSON(v)
}

// setQuantity ignores quantities below 1 and returns the cart unchanged.
func (h *Handler) setQuantity(c *fiber.Ctx) error {
	claims, err := identity.FromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	payload := new(quantityRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(h.service.SetQuantity(claims.UID, c.Params("id"), payload.Quantity))
}

func (h *Handler) removeItem(c *fiber.Ctx) error {
	claims, err := identity.FromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	return c.JSON(h.service.Remove(claims.UID, c.Params("id")))
}

func (h *Handler) clearCart(c *fiber.Ctx) error {
	claims, err := identity.FromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	return c.JSON(h.service.Clear(claims.UID))
}
