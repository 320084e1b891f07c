package user

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/wichananm65/fireworks-shop/internal/identity"
	"github.com/wichananm65/fireworks-shop/internal/validation"
)

type Handler struct {
	service    *Service
	identities *identity.Service
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name" validate:"required"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

func NewHandler(service *Service, identities *identity.Service) *Handler {
	return &Handler{service: service, identities: identities}
}

func (h *Handler) RegisterPublicRoutes(app fiber.Router) {
	app.Post("/api/v1/sign-up", h.register)
	app.Post("/api/v1/sign-in", h.login)
	app.Post("/api/v1/sign-in/admin", h.adminLogin)
}

func (h *Handler) RegisterProtectedRoutes(app fiber.Router) {
	app.Post("/api/v1/sign-out", h.logout)
	app.Get("/api/v1/profile", h.getProfile)
	// PUT and PATCH both accept partial payloads
	app.Put("/api/v1/profile", h.updateProfile)
	app.Patch("/api/v1/profile", h.updateProfile)
}

// RegisterAdminRoutes expects admin to already be gated by RequireRole.
func (h *Handler) RegisterAdminRoutes(admin fiber.Router) {
	admin.Get("/users", h.listUsers)
}

func (h *Handler) register(c *fiber.Ctx) error {
	payload := new(registerRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if err := validate.Struct(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Missing required fields", "errors": validation.FieldErrors(err)})
	}

	p, id, err := h.service.Signup(c.UserContext(), payload.Email, payload.Password, SignupFields{
		Name:    payload.Name,
		Phone:   payload.Phone,
		Address: payload.Address,
	})
	if err != nil {
		var ves validator.ValidationErrors
		switch {
		case errors.Is(err, identity.ErrEmailExists):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "Email already exists"})
		case errors.Is(err, identity.ErrWeakPassword), errors.Is(err, identity.ErrInvalidEmail):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
		case errors.As(err, &ves):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Missing required fields", "errors": validation.FieldErrors(err)})
		default:
			logrus.WithError(err).Error("sign-up failed")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "failed to create account"})
		}
	}

	return h.respondWithToken(c, fiber.StatusCreated, "Account created successfully", p, id)
}

func (h *Handler) login(c *fiber.Ctx) error {
	payload := new(loginRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	p, id, err := h.service.Login(c.UserContext(), payload.Email, payload.Password)
	if err != nil {
		return h.authFailure(c, err, "Invalid credentials")
	}
	return h.respondWithToken(c, fiber.StatusOK, "Welcome back!", p, id)
}

func (h *Handler) adminLogin(c *fiber.Ctx) error {
	payload := new(loginRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	p, id, err := h.service.AdminLogin(c.UserContext(), payload.Email, payload.Password)
	if err != nil {
		return h.authFailure(c, err, "Invalid admin credentials")
	}
	return h.respondWithToken(c, fiber.StatusOK, "Admin login successful!", p, id)
}

// authFailure hides which part of a login failed.
func (h *Handler) authFailure(c *fiber.Ctx, err error, msg string) error {
	if !errors.Is(err, identity.ErrInvalidCredentials) && !errors.Is(err, ErrProfileNotFound) {
		logrus.WithError(err).Error("login failed")
	}
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": msg})
}

func (h *Handler) respondWithToken(c *fiber.Ctx, status int, msg string, p Profile, id identity.Identity) error {
	token, err := h.identities.IssueToken(id)
	if err != nil {
		logrus.WithError(err).Error("failed to generate token")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "failed to generate token"})
	}
	return c.Status(status).JSON(fiber.Map{
		"message": msg,
		"user":    p,
		"token":   token,
	})
}

func (h *Handler) logout(c *fiber.Ctx) error {
	claims, err := identity.FromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	h.identities.SignOut(claims)
	return c.JSON(fiber.Map{"message": "Logged out successfully"})
}

// getProfile returns the profile of the authenticated caller.
func (h *Handler) getProfile(c *fiber.Ctx) error {
	claims, err := identity.FromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	p, err := h.service.Get(c.UserContext(), claims.UID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "profile not found"})
		}
		logrus.WithError(err).Error("profile lookup failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(p)
}

func (h *Handler) updateProfile(c *fiber.Ctx) error {
	claims, err := identity.FromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	var payload ContactUpdate
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.Name != nil && *payload.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "name cannot be empty"})
	}

	updated, err := h.service.UpdateContact(c.UserContext(), claims.UID, payload)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "profile not found"})
		}
		logrus.WithError(err).Error("profile update failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(updated)
}

func (h *Handler) listUsers(c *fiber.Ctx) error {
	users, err := h.service.ListUsers(c.UserContext(), c.Query("q"))
	if err != nil {
		logrus.WithError(err).Error("listing users failed")
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"message": "store unavailable"})
	}
	return c.JSON(users)
}
