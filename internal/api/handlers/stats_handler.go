package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/publora/publora-api/internal/service"
	"github.com/publora/publora-api/internal/transfer"
)

type StatsHandler struct {
	s service.StatsService
}

func NewStatsHandler(service service.StatsService) *StatsHandler {
	return &StatsHandler{s: service}
}

func (h *StatsHandler) PostStatistics(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var req transfer.PostStatisticsRequest
	if err := c.BodyParser(&req); err != nil {
		slog.Error(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request body",
		})
	}

	resp, err := h.s.PostStatistics(c.Context(), userID, &req)
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

func (h *StatsHandler) AccountStatistics(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var req transfer.AccountStatisticsRequest
	if err := c.BodyParser(&req); err != nil {
		slog.Error(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request body",
		})
	}

	resp, err := h.s.AccountStatistics(c.Context(), userID, &req)
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

func (h *StatsHandler) CreateReaction(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var req transfer.ReactionRequest
	if err := c.BodyParser(&req); err != nil {
		slog.Error(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request body",
		})
	}

	if err := h.s.AddReaction(c.Context(), userID, &req); err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
	})
}

func (h *StatsHandler) DeleteReaction(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var req transfer.ReactionRequest
	if err := c.BodyParser(&req); err != nil {
		slog.Error(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request body",
		})
	}

	if err := h.s.RemoveReaction(c.Context(), userID, &req); err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
	})
}
