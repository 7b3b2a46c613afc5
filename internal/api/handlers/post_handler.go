package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"github.com/publora/publora-api/internal/scheduler"
	"github.com/publora/publora-api/internal/service"
	"github.com/publora/publora-api/internal/transfer"
)

type PostHandler struct {
	s           service.PostService
	AsynqClient *asynq.Client
}

func NewPostHandler(service service.PostService, asynqClient *asynq.Client) *PostHandler {
	return &PostHandler{s: service, AsynqClient: asynqClient}
}

func (h *PostHandler) CreatePost(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var pc transfer.PostCreation
	if err := c.BodyParser(&pc); err != nil {
		slog.Error(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request body",
		})
	}

	postGroupID, delay, scheduled, err := h.s.Create(c.Context(), userID, &pc)
	if err != nil {
		return writeError(c, err)
	}

	if scheduled {
		err = scheduler.Enqueue(h.AsynqClient, scheduler.PublishPayload{PostGroupID: postGroupID}, delay)
		if err != nil {
			slog.Error(err.Error())
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Error scheduling post",
			})
		}
	}

	return c.Status(fiber.StatusOK).JSON(transfer.PostCreationResponse{
		Success:     true,
		PostGroupID: postGroupID,
	})
}

func (h *PostHandler) GetPost(c *fiber.Ctx) error {
	userID := GetUserID(c)
	postGroupID := c.Params("id")

	group, err := h.s.Info(c.Context(), userID, postGroupID)
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(group)
}

func (h *PostHandler) UpdatePost(c *fiber.Ctx) error {
	userID := GetUserID(c)
	postGroupID := c.Params("id")

	var pu transfer.PostUpdate
	if err := c.BodyParser(&pu); err != nil {
		slog.Error(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request body",
		})
	}

	delay, scheduled, err := h.s.Update(c.Context(), userID, postGroupID, &pu)
	if err != nil {
		return writeError(c, err)
	}

	if scheduled {
		err = scheduler.Enqueue(h.AsynqClient, scheduler.PublishPayload{PostGroupID: postGroupID}, delay)
		if err != nil {
			slog.Error(err.Error())
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Error scheduling post",
			})
		}
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
	})
}

func (h *PostHandler) DeletePost(c *fiber.Ctx) error {
	userID := GetUserID(c)
	postGroupID := c.Params("id")

	if err := h.s.Remove(c.Context(), userID, postGroupID); err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
	})
}
