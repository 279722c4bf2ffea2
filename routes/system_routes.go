package routes

import (
	"github.com/anjiri1684/hireloom/metrics"
	"github.com/gofiber/fiber/v2"
)

func SystemRoutes(app *fiber.App) {
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", metrics.Handler())
}
