package middleware

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/ibrahimkeyboad/payadmin/internal/adapter/storage"
)

// RequireAdmin rejects callers whose profile does not carry the admin
// flag. It re-reads the profile on every request rather than trusting
// anything in the token, so demoting an admin takes effect immediately.
func RequireAdmin(users storage.UserStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accountID, ok := AccountID(c)
		if !ok {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "Missing session"})
		}

		user, err := users.GetByID(c.Context(), accountID)
		if err != nil {
			return c.Status(http.StatusForbidden).JSON(fiber.Map{"error": "Admin access required"})
		}
		if !user.IsAdmin {
			return c.Status(http.StatusForbidden).JSON(fiber.Map{"error": "Admin access required"})
		}

		return c.Next()
	}
}
