package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/publora/publora-api/internal/service"
)

type ConnectionHandler struct {
	s service.ConnectionService
}

func NewConnectionHandler(service service.ConnectionService) *ConnectionHandler {
	return &ConnectionHandler{s: service}
}

func (h *ConnectionHandler) ListConnections(c *fiber.Ctx) error {
	userID := GetUserID(c)

	connections, err := h.s.List(c.Context(), userID)
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"connections": connections,
	})
}
