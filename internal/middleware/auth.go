package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/plotvista/plotvista/internal/services"
	"github.com/plotvista/plotvista/internal/types"
)

// AuthAdmin validates that the request carries a live admin bearer token.
func AuthAdmin(sessions *services.SessionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			return types.NewError(fiber.StatusUnauthorized, "admin.authorization",
				"Authorization bearer token not found")
		}

		if !sessions.Validate(token) {
			return types.NewError(fiber.StatusUnauthorized, "admin.authorization",
				"Invalid or expired session")
		}

		c.Locals("adminToken", token)
		return c.Next()
	}
}

func bearerToken(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
