package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/student-service/internal/config"
	"github.com/noah-isme/student-service/internal/utils"
)

// HealthResponse represents the payload returned by the health endpoint.
type HealthResponse struct {
	Status       string            `json:"status"`
	Timestamp    time.Time         `json:"timestamp"`
	Service      string            `json:"service"`
	Environment  string            `json:"environment"`
	Dependencies map[string]string `json:"dependencies,omitempty"`
}

// HealthDependency is a named backend probed by the health endpoint.
type HealthDependency struct {
	Name  string
	Check func(ctx context.Context) error
}

const healthCheckTimeout = 2 * time.Second

// HealthCheck returns a handler that reports application health information.
// Any failing dependency degrades the status and answers 503.
func HealthCheck(cfg config.Config, dependencies ...HealthDependency) fiber.Handler {
	return func(c *fiber.Ctx) error {
		payload := HealthResponse{
			Status:      "ok",
			Timestamp:   time.Now().UTC(),
			Service:     cfg.AppName,
			Environment: cfg.AppEnv,
		}

		if len(dependencies) > 0 {
			ctx, cancel := context.WithTimeout(c.UserContext(), healthCheckTimeout)
			defer cancel()

			payload.Dependencies = make(map[string]string, len(dependencies))
			for _, dep := range dependencies {
				if dep.Check == nil {
					continue
				}
				if err := dep.Check(ctx); err != nil {
					payload.Dependencies[dep.Name] = "unavailable"
					payload.Status = "degraded"
					continue
				}
				payload.Dependencies[dep.Name] = "ok"
			}
		}

		if payload.Status != "ok" {
			return c.Status(fiber.StatusServiceUnavailable).JSON(utils.APIResponse{
				Success: false,
				Message: "service degraded",
				Data:    payload,
			})
		}

		return utils.SendSuccess(c, "service healthy", payload)
	}
}
