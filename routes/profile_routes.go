package routes

import (
	"github.com/anjiri1684/hireloom/handlers"
	"github.com/anjiri1684/hireloom/middleware"
	"github.com/gofiber/fiber/v2"
)

func ProfileRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	me := api.Group("/me", middleware.Protected())
	me.Get("", handlers.GetProfile)
	me.Put("", handlers.UpdateProfile)
	me.Get("/pipeline", middleware.RecruiterRequired(), handlers.GetMyPipeline)
}
