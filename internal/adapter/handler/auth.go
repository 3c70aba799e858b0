package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ibrahimkeyboad/payadmin/internal/adapter/middleware"
	"github.com/ibrahimkeyboad/payadmin/internal/adapter/storage"
	"github.com/ibrahimkeyboad/payadmin/internal/core/security"
)

// AuthHandler owns register, login, logout and session resolution.
type AuthHandler struct {
	Users          storage.UserStore
	Sessions       storage.SessionStore
	Notifications  storage.NotificationStore
	Tokens         *security.TokenManager
	DefaultBalance float64
}

type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	FullName    string `json:"full_name"`
	Username    string `json:"username"`
	PhoneNumber string `json:"phone_number"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a credential account and its profile in one step.
// New users start unverified, non-admin, with the configured default
// balance.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	req.Email = strings.TrimSpace(req.Email)
	req.FullName = strings.TrimSpace(req.FullName)
	if req.Email == "" || req.FullName == "" || req.Password == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Email, full name and password are required"})
	}
	if len(req.Password) < 6 {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Password must be at least 6 characters"})
	}

	passwordHash, err := security.HashPassword(req.Password)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Could not create user"})
	}

	user, err := h.Users.CreateUser(c.Context(), storage.NewUser{
		Email:        req.Email,
		PasswordHash: passwordHash,
		FullName:     req.FullName,
		Username:     strings.TrimSpace(req.Username),
		PhoneNumber:  strings.TrimSpace(req.PhoneNumber),
		Balance:      h.DefaultBalance,
	})
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return c.Status(http.StatusConflict).JSON(fiber.Map{"error": "An account with this email already exists"})
		}
		slog.Error("failed to create user", "error", err, "email", req.Email)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Could not create user"})
	}

	slog.Info("user registered", "id", user.ID, "email", user.Email)
	return c.Status(http.StatusCreated).JSON(fiber.Map{"user": user})
}

// Login verifies credentials, loads the profile and opens a session.
// A credential account without a profile row is treated the same as
// bad credentials.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Email and password are required"})
	}

	creds, err := h.Users.FindCredentials(c.Context(), strings.TrimSpace(req.Email))
	if err != nil {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid email or password"})
	}
	if !security.CheckPassword(req.Password, creds.PasswordHash) {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid email or password"})
	}

	user, err := h.Users.GetByID(c.Context(), creds.AccountID)
	if err != nil {
		slog.Warn("authenticated account has no profile", "account_id", creds.AccountID)
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid email or password"})
	}

	token, err := h.Tokens.Generate(creds.AccountID)
	if err != nil {
		slog.Error("failed to generate token", "error", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Could not open session"})
	}
	expiresAt := time.Now().Add(h.Tokens.TTL())
	if err := h.Sessions.Create(c.Context(), security.HashToken(token), creds.AccountID, expiresAt); err != nil {
		slog.Error("failed to store session", "error", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Could not open session"})
	}

	return c.JSON(fiber.Map{"token": token, "user": user})
}

// Logout revokes the current session. Best effort: a failed delete
// still reports success, the token dies at expiry regardless.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) == 2 {
		if err := h.Sessions.Delete(c.Context(), security.HashToken(parts[1])); err != nil {
			slog.Warn("failed to delete session", "error", err)
		}
	}
	return c.JSON(fiber.Map{"status": "success"})
}

// Me resolves the active session into the caller's profile plus their
// notifications, newest first.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "Missing session"})
	}

	user, err := h.Users.GetByID(c.Context(), accountID)
	if err != nil {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "Profile not found"})
	}

	if list, err := h.Notifications.ListByUser(c.Context(), accountID); err == nil {
		user.Notifications = list
	} else {
		slog.Warn("failed to load notifications", "error", err, "user_id", accountID)
	}

	return c.JSON(fiber.Map{"user": user})
}

// VerifyEmail is a stub carried over from the hosted-auth days: it
// reports success without contacting anything.
func (h *AuthHandler) VerifyEmail(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "success", "message": "Verification email sent"})
}
