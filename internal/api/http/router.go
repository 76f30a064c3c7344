package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/itsm-service/internal/api/http/handlers"
	"github.com/spec-kit/itsm-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Categories     *handlers.CategoriesHandler
	Tickets        *handlers.TicketsHandler
	Users          *handlers.UsersHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/login", cfg.Auth.Login)

	// signup is the one route that works with or without credentials
	app.Post("/users", cfg.AuthMiddleware.HandleOptional, cfg.Users.Create)

	protected := app.Group("", cfg.AuthMiddleware.Handle)

	protected.Get("/categories", cfg.Categories.List)
	protected.Get("/categories/options", cfg.Categories.Options)
	protected.Post("/categories", cfg.Categories.Create)
	protected.Get("/categories/:id", cfg.Categories.Get)
	protected.Patch("/categories/:id", cfg.Categories.Update)
	protected.Delete("/categories/:id", cfg.Categories.Delete)

	protected.Get("/tickets", cfg.Tickets.List)
	protected.Post("/tickets", cfg.Tickets.Create)
	protected.Get("/tickets/:id", cfg.Tickets.Get)
	protected.Patch("/tickets/:id", cfg.Tickets.Update)
	protected.Get("/tickets/:id/comments", cfg.Tickets.ListComments)
	protected.Post("/tickets/:id/comments", cfg.Tickets.AddComment)
	protected.Get("/tickets/:id/history", cfg.Tickets.History)

	protected.Get("/users", cfg.Users.List)
	protected.Delete("/users/:id", cfg.Users.Delete)
}
