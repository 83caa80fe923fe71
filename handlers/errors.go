package handlers

import (
	"errors"

	"civiceye/repository"
	"civiceye/services"

	"github.com/gofiber/fiber/v2"
)

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, services.ErrMissionNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, repository.ErrInvalidRecord),
		errors.Is(err, services.ErrInvalidInput),
		errors.Is(err, services.ErrInvalidParent),
		errors.Is(err, services.ErrInvalidReaction),
		errors.Is(err, services.ErrUnknownAction),
		errors.Is(err, services.ErrUnknownLeaderboard),
		errors.Is(err, services.ErrUnknownPrediction),
		errors.Is(err, services.ErrUnknownExportFormat),
		errors.Is(err, services.ErrMalformedImport),
		errors.Is(err, services.ErrEmptyMessage):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrNotAuthor),
		errors.Is(err, services.ErrForbidden),
		errors.Is(err, services.ErrNotParticipant):
		return fiber.StatusForbidden
	case errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrDailyLoginClaimed),
		errors.Is(err, services.ErrMissionAlreadyClaimed),
		errors.Is(err, services.ErrMissionIncomplete),
		errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, repository.ErrDuplicate):
		return fiber.StatusConflict
	case errors.Is(err, services.ErrMissionExpired):
		return fiber.StatusGone
	case errors.Is(err, services.ErrPDFNotImplemented):
		return fiber.StatusNotImplemented
	}
	return fiber.StatusInternalServerError
}

func fail(c *fiber.Ctx, msg string, err error) error {
	return c.Status(statusFor(err)).JSON(fiber.Map{
		"error": msg,
		"cause": err.Error(),
	})
}

func badRequest(c *fiber.Ctx, msg string, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": msg,
		"cause": err.Error(),
	})
}

func userID(c *fiber.Ctx) string {
	id, _ := c.Locals("user_id").(string)
	return id
}

func isAdmin(c *fiber.Ctx) bool {
	ok, _ := c.Locals("is_admin").(bool)
	return ok
}
