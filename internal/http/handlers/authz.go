package handlers

import (
	"gymsite/internal/gateway"
	applog "gymsite/internal/log"
	"gymsite/internal/services"

	"github.com/gofiber/fiber/v2"
)

// RequireAdmin lets only a signed-in admin through.
func RequireAdmin(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sid := c.Cookies("sid")
		if sid == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "sign in required"})
		}
		u, err := auth.CurrentUser(sid)
		if err != nil || !u.CanWrite() {
			applog.Security(c, "access.denied.admin", map[string]any{"sid": sid})
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "access denied"})
		}
		c.Locals("user", u)
		return c.Next()
	}
}

// RequireReady holds admin writes until every entity has finished loading,
// so an edit cannot be overwritten by a remote read still in flight.
func RequireReady(gw *gateway.Gateway) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !gw.Ready() {
			c.Set(fiber.HeaderRetryAfter, "2")
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "content is still loading"})
		}
		return c.Next()
	}
}
