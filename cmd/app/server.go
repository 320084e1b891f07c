package main

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"
	"github.com/wichananm65/fireworks-shop/internal/admin"
	"github.com/wichananm65/fireworks-shop/internal/cart"
	"github.com/wichananm65/fireworks-shop/internal/config"
	"github.com/wichananm65/fireworks-shop/internal/identity"
	"github.com/wichananm65/fireworks-shop/internal/order"
	"github.com/wichananm65/fireworks-shop/internal/product"
	"github.com/wichananm65/fireworks-shop/internal/user"
)

type server struct {
	app         *fiber.App
	identities  *identity.Service
	users       *user.Service
	products    *product.Service
	carts       *cart.Service
	orders      *order.Service
	unsubscribe func()
}

func newServer(cfg config.Config, st *stores) *server {
	ids := identity.NewService(st.identities, cfg.JWTSecret, cfg.TokenTTL)
	userService := user.NewService(st.users, ids)
	productService := product.NewService(st.products, cfg.DemoFallback)
	cartService := cart.NewService(cart.NewStore(), productService)
	orderService := order.NewService(st.orders)
	adminService := admin.NewService(productService, userService, orderService)

	userHandler := user.NewHandler(userService, ids)
	productHandler := product.NewHandler(productService)
	cartHandler := cart.NewHandler(cartService)
	orderHandler := order.NewHandler(orderService, cartService)
	adminHandler := admin.NewHandler(adminService)

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(recover.New())
	app.Use(requestLogger)
	setupCORS(app, cfg.CORSOrigins)

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	userHandler.RegisterPublicRoutes(app)
	productHandler.RegisterPublicRoutes(app)

	app.Use(ids.Middleware())

	userHandler.RegisterProtectedRoutes(app)
	cartHandler.RegisterProtectedRoutes(app)
	orderHandler.RegisterCustomerRoutes(app.Group("/api/v1/orders", userService.RequireRole(user.RoleUser)))

	adminRoutes := app.Group("/api/v1/admin", userService.RequireRole(user.RoleAdmin))
	adminHandler.RegisterAdminRoutes(adminRoutes)
	productHandler.RegisterAdminRoutes(adminRoutes)
	orderHandler.RegisterAdminRoutes(adminRoutes)
	userHandler.RegisterAdminRoutes(adminRoutes)

	return &server{
		app:         app,
		identities:  ids,
		users:       userService,
		products:    productService,
		carts:       cartService,
		orders:      orderService,
		unsubscribe: ids.OnIdentityChanged(cartService.OnIdentityChanged),
	}
}

func setupCORS(app *fiber.App, origins string) {
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
}

func requestLogger(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	logrus.WithFields(logrus.Fields{
		"method":  c.Method(),
		"path":    c.OriginalURL(),
		"status":  c.Response().StatusCode(),
		"latency": time.Since(start).String(),
	}).Debug("request")
	return err
}
