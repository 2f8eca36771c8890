package middleware

import (
	"log"
	"strings"

	"socialfeed/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AuthRequired is a Fiber middleware that verifies the bearer token and
// stashes the caller's identity in the request context.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "No token provided",
				"error":   "Unauthorized",
			})
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "Authorization header format must be 'Bearer <token>'",
				"error":   "Unauthorized",
			})
		}

		identity, err := authService.VerifyToken(parts[1])
		if err != nil {
			log.Printf("JWT validation failed: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "Invalid token",
				"error":   "Unauthorized",
			})
		}

		c.Locals("user_id", identity.UserID)
		c.Locals("username", identity.Username)
		c.Locals("email", identity.Email)

		return c.Next()
	}
}
