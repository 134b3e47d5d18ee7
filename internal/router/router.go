package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/student-service/internal/config"
	"github.com/noah-isme/student-service/internal/handler"
	"github.com/noah-isme/student-service/internal/middleware"
	"github.com/noah-isme/student-service/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	StudentHandler     *handler.StudentHandler
	HealthDependencies []handler.HealthDependency
	JWTMiddleware      fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg, deps.HealthDependencies...))

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = middleware.JWTProtected(cfg.JWTSecret)
	}

	if deps.StudentHandler != nil {
		students := api.Group("/students", jwtMiddleware)
		deps.StudentHandler.Register(students)
		deps.StudentHandler.RegisterWrites(students, middleware.RequireRole(middleware.RoleAdmin, middleware.RoleSuperAdmin))
	}
}
