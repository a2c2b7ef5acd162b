package routes

import (
	"github.com/gofiber/fiber/v2"

	"jobcore-api/interfaces/api/handlers"
)

func SetupHealthRoutes(app *fiber.App, h *handlers.Handlers) {
	app.Get("/health", h.MonitoringHandler.HealthCheck)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Job Core API",
			"version": "1.0.0",
			"docs":    "/api/v1/job-core",
			"health":  "/health",
		})
	})
}
