package middleware

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	config "github.com/publora/publora-api/configs"
	"github.com/publora/publora-api/internal/apperr"
	"github.com/publora/publora-api/internal/service"
)

const (
	headerAPIKey        = "x-publora-key"
	headerWorkspaceUser = "x-publora-user-id"
)

type AuthMiddleware struct {
	ak  service.ApiKeyService
	ws  service.WorkspaceService
	cfg config.Config
}

func NewAuthMiddleware(cfg config.Config, ak service.ApiKeyService, ws service.WorkspaceService) *AuthMiddleware {
	return &AuthMiddleware{ak: ak, ws: ws, cfg: cfg}
}

// AuthMiddleware resolves the API key to a user and, when the request
// delegates through a workspace user header, verifies the delegation.
func (m *AuthMiddleware) AuthMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		apiKey := c.Get(headerAPIKey)
		if apiKey == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": apperr.ReasonInvalidKey,
			})
		}

		userID, found, err := m.ak.ResolveKey(c.Context(), apiKey)
		if err != nil {
			log.Printf("API key lookup failed: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "internal error",
			})
		}
		if !found {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": apperr.ReasonInvalidKey,
			})
		}

		if workspaceUserID := c.Get(headerWorkspaceUser); workspaceUserID != "" {
			ok, err := m.ws.Verify(c.Context(), workspaceUserID, userID)
			if err != nil {
				log.Printf("Workspace user lookup failed: %v", err)
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error": "internal error",
				})
			}
			if !ok {
				return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
					"error": apperr.ReasonUnknownWorkspaceUser,
				})
			}
		}

		c.Locals("user_id", fmt.Sprintf("%d", userID))
		return c.Next()
	}
}
