package routes

import (
	"github.com/anjiri1684/hireloom/handlers"
	"github.com/anjiri1684/hireloom/middleware"
	"github.com/gofiber/fiber/v2"
)

func UploadRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	uploads := api.Group("/uploads", middleware.Protected(), middleware.RecruiterRequired())
	uploads.Get("/resume-signature", handlers.GenerateResumeUploadSignature)
}
