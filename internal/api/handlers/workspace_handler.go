package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/publora/publora-api/internal/service"
	"github.com/publora/publora-api/internal/transfer"
)

type WorkspaceHandler struct {
	s service.WorkspaceService
}

func NewWorkspaceHandler(service service.WorkspaceService) *WorkspaceHandler {
	return &WorkspaceHandler{s: service}
}

func (h *WorkspaceHandler) CreateUser(c *fiber.Ctx) error {
	ownerID := GetUserID(c)

	var wc transfer.WorkspaceUserCreation
	if err := c.BodyParser(&wc); err != nil {
		slog.Error(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request body",
		})
	}

	wu, err := h.s.Create(c.Context(), ownerID, &wc)
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(wu)
}

func (h *WorkspaceHandler) ListUsers(c *fiber.Ctx) error {
	ownerID := GetUserID(c)

	users, err := h.s.List(c.Context(), ownerID)
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(users)
}

func (h *WorkspaceHandler) RemoveUser(c *fiber.Ctx) error {
	ownerID := GetUserID(c)
	id := c.Params("id")

	if err := h.s.Remove(c.Context(), ownerID, id); err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
	})
}
