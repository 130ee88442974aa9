package controller

import (
	"rmf-policy-be/internal/dto"

	"github.com/gofiber/fiber/v2"
)

type HealthController struct{}

func NewHealthController() *HealthController {
	return &HealthController{}
}

func (c *HealthController) RegisterRoutes(r fiber.Router) {
	r.Get("/health", c.Health)
}

// Health only answers once startup (question bank, corpus indexing) is done,
// since routes are registered after it.
func (c *HealthController) Health(ctx *fiber.Ctx) error {
	return ctx.JSON(dto.HealthResponse{Status: "ok"})
}
