package middleware

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/ibrahimkeyboad/payadmin/internal/adapter/storage"
	"github.com/ibrahimkeyboad/payadmin/internal/core/security"
)

// AccountIDKey is the Locals key under which Protected stores the
// authenticated account id.
const AccountIDKey = "account_id"

// Protected authenticates the Bearer token: the JWT signature must
// verify and a live session row must still exist, so a logged-out
// token is rejected before its expiry.
func Protected(tokens *security.TokenManager, sessions storage.SessionStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "Missing session token"})
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid Header Format"})
		}
		token := parts[1]

		accountID, err := tokens.Verify(token)
		if err != nil {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid session token"})
		}

		// Revocation check: logout deletes the session row.
		sessionAccount, err := sessions.Find(c.Context(), security.HashToken(token))
		if err != nil || sessionAccount != accountID {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "Session expired"})
		}

		c.Locals(AccountIDKey, accountID)
		return c.Next()
	}
}

// AccountID returns the authenticated account id set by Protected.
func AccountID(c *fiber.Ctx) (uuid.UUID, bool) {
	id, ok := c.Locals(AccountIDKey).(uuid.UUID)
	return id, ok
}
