package handlers

import (
	"log"
	"strings"
	"time"

	"github.com/anjiri1684/hireloom/aptitude"
	"github.com/anjiri1684/hireloom/services"
	websocketcontrib "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

// TakeTestHandler serves the public candidate flow. Sessions are addressed by
// the id returned when a link is opened.
type TakeTestHandler struct {
	Sessions     *services.ExamSessionService
	PollInterval time.Duration
}

type StartTestRequest struct {
	CandidateName string `json:"candidateName"`
}

type AnswerRequest struct {
	QuestionID string               `json:"questionId" validate:"required"`
	Answer     aptitude.AnswerValue `json:"answer"`
}

func (h *TakeTestHandler) respond(c *fiber.Ctx, view services.SessionView, err error) error {
	if err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error(), "session": view})
	}
	return c.JSON(view)
}

// OpenTest resolves GET /take-test/:testId?candidate=<email>. An unusable
// link still returns a session body in the error state.
func (h *TakeTestHandler) OpenTest(c *fiber.Ctx) error {
	email := strings.TrimSpace(c.Query("candidate"))
	if email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "candidate email is required"})
	}
	view, err := h.Sessions.Open(c.UserContext(), c.Params("testId"), strings.ToLower(email))
	if err != nil {
		if view.Status == aptitude.StatusError {
			return c.Status(statusFor(err)).JSON(view)
		}
		return serviceError(c, err)
	}
	return c.JSON(view)
}

func (h *TakeTestHandler) GetSession(c *fiber.Ctx) error {
	view, err := h.Sessions.Get(c.Params("sessionId"))
	return h.respond(c, view, err)
}

func (h *TakeTestHandler) StartTest(c *fiber.Ctx) error {
	var req StartTestRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	view, err := h.Sessions.Start(c.UserContext(), c.Params("sessionId"), req.CandidateName)
	return h.respond(c, view, err)
}

func (h *TakeTestHandler) AnswerQuestion(c *fiber.Ctx) error {
	var req AnswerRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	view, err := h.Sessions.Answer(c.Params("sessionId"), req.QuestionID, req.Answer)
	return h.respond(c, view, err)
}

func (h *TakeTestHandler) NextQuestion(c *fiber.Ctx) error {
	view, err := h.Sessions.Next(c.Params("sessionId"))
	return h.respond(c, view, err)
}

func (h *TakeTestHandler) SubmitTest(c *fiber.Ctx) error {
	view, err := h.Sessions.Submit(c.Params("sessionId"))
	return h.respond(c, view, err)
}

type countdownFrame struct {
	Status        aptitude.Status `json:"status"`
	TimeRemaining int             `json:"timeRemaining"`
}

// Countdown streams the remaining time of a session until it completes.
func (h *TakeTestHandler) Countdown(c *websocketcontrib.Conn) {
	defer c.Close()
	id := c.Params("sessionId")

	interval := h.PollInterval
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		view, err := h.Sessions.Get(id)
		if err != nil {
			_ = c.WriteJSON(fiber.Map{"error": err.Error()})
			return
		}
		if err := c.WriteJSON(countdownFrame{Status: view.Status, TimeRemaining: view.TimeRemaining}); err != nil {
			log.Printf("Countdown write failed for session %s: %v", id, err)
			return
		}
		if view.Status == aptitude.StatusCompleted || view.Status == aptitude.StatusError {
			return
		}
		<-ticker.C
	}
}
