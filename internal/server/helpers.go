package server

import (
	"github.com/gofiber/fiber/v2"
)

// currentUserID returns the authenticated user id set by the auth
// middleware. Empty on routes behind optional auth when no valid token
// was presented.
func currentUserID(c *fiber.Ctx) string {
	if v, ok := c.Locals("userID").(string); ok {
		return v
	}
	return ""
}
