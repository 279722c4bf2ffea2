package routes

import (
	"github.com/anjiri1684/hireloom/handlers"
	"github.com/anjiri1684/hireloom/middleware"
	"github.com/gofiber/fiber/v2"
)

func AdminRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	admin := api.Group("/admin", middleware.Protected(), middleware.AdminRequired())
	admin.Get("/dashboard-analytics", handlers.GetDashboardAnalytics)

	users := admin.Group("/users")
	users.Get("", handlers.GetAllUsers)
	users.Put("/:userId/status", handlers.ToggleUserStatus)
}
