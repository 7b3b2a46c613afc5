package handlers

import (
	"errors"
	"log/slog"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/publora/publora-api/internal/apperr"
)

func GetUserID(c *fiber.Ctx) int64 {
	userID, _ := strconv.Atoi(c.Locals("user_id").(string))
	return int64(userID)
}

// writeError maps domain errors onto HTTP statuses. Anything unmapped
// is a 500 with the detail kept out of the response.
func writeError(c *fiber.Ctx, err error) error {
	var validationErr apperr.ValidationError
	if errors.As(err, &validationErr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": validationErr.Reason,
		})
	}

	var authErr apperr.AuthError
	if errors.As(err, &authErr) {
		status := fiber.StatusUnauthorized
		if authErr.Forbidden {
			status = fiber.StatusForbidden
		}
		return c.Status(status).JSON(fiber.Map{
			"error": authErr.Reason,
		})
	}

	var notFoundErr apperr.NotFoundError
	if errors.As(err, &notFoundErr) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": notFoundErr.Error(),
		})
	}

	var transitionErr apperr.TransitionError
	if errors.As(err, &transitionErr) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":  apperr.ReasonInvalidTransition,
			"status": transitionErr.Status,
		})
	}

	var platformErr apperr.PlatformError
	if errors.As(err, &platformErr) {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": apperr.ReasonPlatformUnavailable,
		})
	}

	slog.Error(err.Error())
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "internal error",
	})
}
