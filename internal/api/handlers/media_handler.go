package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/publora/publora-api/internal/service"
	"github.com/publora/publora-api/internal/transfer"
)

type MediaHandler struct {
	s service.MediaService
}

func NewMediaHandler(service service.MediaService) *MediaHandler {
	return &MediaHandler{s: service}
}

func (h *MediaHandler) GetUploadURL(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var req transfer.UploadURLRequest
	if err := c.BodyParser(&req); err != nil {
		slog.Error(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request body",
		})
	}

	resp, err := h.s.RequestUploadTarget(c.Context(), userID, &req)
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

func (h *MediaHandler) ConfirmUpload(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var req transfer.ConfirmUploadRequest
	if err := c.BodyParser(&req); err != nil {
		slog.Error(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request body",
		})
	}

	if err := h.s.ConfirmUpload(c.Context(), userID, &req); err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
	})
}
