package handlers

import (
	"errors"
	"log"

	"github.com/anjiri1684/hireloom/aptitude"
	"github.com/anjiri1684/hireloom/notifications"
	"github.com/anjiri1684/hireloom/services"
	"github.com/gofiber/fiber/v2"
)

func statusFor(err error) int {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	switch {
	case errors.Is(err, services.ErrJobNotFound),
		errors.Is(err, services.ErrTestNotFound),
		errors.Is(err, services.ErrResponseNotFound),
		errors.Is(err, services.ErrInvitationNotFound),
		errors.Is(err, services.ErrSessionNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrInvitationExpired):
		return fiber.StatusGone
	case errors.Is(err, services.ErrInvitationCompleted),
		errors.Is(err, aptitude.ErrAlreadyCompleted),
		errors.Is(err, aptitude.ErrInvalidTransition):
		return fiber.StatusConflict
	case errors.Is(err, services.ErrReportsDisabled),
		errors.Is(err, notifications.ErrEmailNotConfigured):
		return fiber.StatusServiceUnavailable
	case errors.Is(err, services.ErrDeliveryFailed):
		return fiber.StatusBadGateway
	case errors.Is(err, aptitude.ErrInvalidQuestion),
		errors.Is(err, aptitude.ErrEmptyTest),
		errors.Is(err, aptitude.ErrAssignmentTitleRequired),
		errors.Is(err, aptitude.ErrAssignmentDescriptionRequired),
		errors.Is(err, aptitude.ErrCandidateNameRequired),
		errors.Is(err, aptitude.ErrUnknownQuestion),
		errors.Is(err, aptitude.ErrNotCurrentQuestion),
		errors.Is(err, aptitude.ErrInvalidTestConfig):
		return fiber.StatusBadRequest
	}
	return fiber.StatusInternalServerError
}

// serviceError writes err as a JSON error body with a matching status.
func serviceError(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		log.Printf("🔥 %s %s: %v", c.Method(), c.Path(), err)
		return c.Status(status).JSON(fiber.Map{"error": "Internal server error"})
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
