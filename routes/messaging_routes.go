package routes

import (
	"github.com/anjiri1684/hireloom/handlers"
	"github.com/anjiri1684/hireloom/middleware"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

func MessagingRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	conversations := api.Group("/conversations", middleware.Protected(), middleware.RecruiterRequired())
	conversations.Get("", handlers.GetRecruiterConversations)
	conversations.Post("", handlers.CreateOrGetConversation)
	conversations.Get("/:conversationId/messages", handlers.GetConversationMessages)
	conversations.Post("/:conversationId/messages", handlers.SendMessage)
	conversations.Post("/:conversationId/read", handlers.MarkConversationRead)

	api.Use("/ws", upgradeOnly)
	api.Get("/ws", websocket.New(handlers.ServeWs))
}
