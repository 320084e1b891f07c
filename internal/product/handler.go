package product

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/wichananm65/fireworks-shop/internal/validation"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(app fiber.Router) {
	app.Get("/api/v1/categories", h.getCategories)
	app.Get("/api/v1/products", h.getProducts)
	app.Get("/api/v1/products/featured", h.getFeatured)
	app.Get("/api/v1/products/:id", h.getProduct)
}

// RegisterAdminRoutes expects admin to already be gated to the admin role.
func (h *Handler) RegisterAdminRoutes(admin fiber.Router) {
	admin.Get("/products", h.searchProducts)
	admin.Post("/products", h.createProduct)
	// replaces the catalog with the body; an empty body reseeds the demo catalog when enabled
	admin.Post("/products/reset", h.resetProducts)
	admin.Put("/products/:id", h.updateProduct)
	admin.Delete("/products/:id", h.deleteProduct)
}

func (h *Handler) getCategories(c *fiber.Ctx) error {
	return c.JSON(Categories)
}

func (h *Handler) getProducts(c *fiber.Ctx) error {
	products, err := h.service.List(c.UserContext(), Filter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
	})
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(products)
}

func (h *Handler) getFeatured(c *fiber.Ctx) error {
	products, err := h.service.Featured(c.UserContext(), c.QueryInt("limit", defaultFeaturedLimit))
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(products)
}

func (h *Handler) getProduct(c *fiber.Ctx) error {
	p, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Product not found"})
		}
		return storeError(c, err)
	}
	return c.JSON(p)
}

func (h *Handler) searchProducts(c *fiber.Ctx) error {
	products, err := h.service.AdminSearch(c.UserContext(), c.Query("q"))
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(products)
}

func (h *Handler) createProduct(c *fiber.Ctx) error {
	p := new(Product)
	if err := c.BodyParser(p); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	created, err := h.service.Create(c.UserContext(), *p)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *Handler) updateProduct(c *fiber.Ctx) error {
	p := new(Product)
	if err := c.BodyParser(p); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	updated, err := h.service.Update(c.UserContext(), c.Params("id"), *p)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(updated)
}

func (h *Handler) deleteProduct(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product deleted"})
}

func (h *Handler) resetProducts(c *fiber.Ctx) error {
	if len(c.Body()) == 0 {
		products, err := h.service.ResetToDemo(c.UserContext())
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(products)
	}

	// an empty array clears the catalog
	var products []Product
	if err := c.BodyParser(&products); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Body must be a JSON array of products"})
	}
	if err := h.service.ResetProducts(c.UserContext(), products); err != nil {
		return writeError(c, err)
	}
	return c.JSON(products)
}

func writeError(c *fiber.Ctx, err error) error {
	var ves validator.ValidationErrors
	switch {
	case errors.As(err, &ves):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": validation.FieldErrors(err)})
	case errors.Is(err, ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Product not found"})
	case errors.Is(err, ErrDemoDisabled):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "Demo catalog is disabled"})
	default:
		return storeError(c, err)
	}
}

func storeError(c *fiber.Ctx, err error) error {
	logrus.WithError(err).Error("product store request failed")
	return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"message": "Product store unavailable, please try again"})
}
