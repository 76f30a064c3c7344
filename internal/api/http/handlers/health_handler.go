package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/itsm-service/internal/persistence"
)

// HealthHandler exposes liveness and readiness probes.
type HealthHandler struct {
	redis *persistence.Redis
}

// NewHealthHandler constructs handler.
func NewHealthHandler(redis *persistence.Redis) *HealthHandler {
	return &HealthHandler{redis: redis}
}

// Live GET /health/live.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// Ready GET /health/ready.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	deps := fiber.Map{}
	if h.redis != nil {
		if err := h.redis.Ping(c.Context()); err != nil {
			deps["redis"] = "unreachable"
		} else {
			deps["redis"] = "ok"
		}
	}
	return c.JSON(fiber.Map{"status": "ok", "dependencies": deps})
}
