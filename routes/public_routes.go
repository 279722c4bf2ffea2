package routes

import (
	"github.com/anjiri1684/hireloom/handlers"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

// PublicRoutes serves candidates following an emailed test link. No account
// is involved; the session id returned by the open call is the credential.
func PublicRoutes(app *fiber.App, takeTest *handlers.TakeTestHandler) {
	api := app.Group("/api/v1")

	api.Get("/take-test/:testId", takeTest.OpenTest)

	sessions := api.Group("/sessions")
	sessions.Get("/:sessionId", takeTest.GetSession)
	sessions.Post("/:sessionId/start", takeTest.StartTest)
	sessions.Post("/:sessionId/answer", takeTest.AnswerQuestion)
	sessions.Post("/:sessionId/next", takeTest.NextQuestion)
	sessions.Post("/:sessionId/submit", takeTest.SubmitTest)

	sessions.Use("/:sessionId/countdown", upgradeOnly)
	sessions.Get("/:sessionId/countdown", websocket.New(takeTest.Countdown))
}

func upgradeOnly(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	return c.Next()
}
