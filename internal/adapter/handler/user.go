package handler

import (
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/ibrahimkeyboad/payadmin/internal/adapter/storage"
	"github.com/ibrahimkeyboad/payadmin/internal/core/domain"
	"github.com/ibrahimkeyboad/payadmin/internal/core/security"
)

// UserHandler owns the admin console's user operations.
type UserHandler struct {
	Users storage.UserStore
}

type CreateUserRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	FullName    string `json:"full_name"`
	Username    string `json:"username"`
	PhoneNumber string `json:"phone_number"`
	IsAdmin     bool   `json:"is_admin"`
	IsVerified  bool   `json:"is_verified"`
	// Balance arrives as text straight from the console's input field;
	// it is validated here before anything is written.
	Balance string `json:"balance"`
}

type BalanceRequest struct {
	Mode   string `json:"mode"` // "add" or "set"
	Amount string `json:"amount"`
}

type VerifyRequest struct {
	Verified bool `json:"verified"`
}

// List returns every profile. A query failure degrades to an empty
// list rather than an error; the console treats the two the same.
func (h *UserHandler) List(c *fiber.Ctx) error {
	users, err := h.Users.List(c.Context())
	if err != nil {
		slog.Warn("failed to list users, returning empty set", "error", err)
		users = nil
	}
	if users == nil {
		users = []domain.User{}
	}
	return c.JSON(fiber.Map{"users": users})
}

// Create is the privileged variant of register: the caller chooses the
// admin/verified flags and the opening balance.
func (h *UserHandler) Create(c *fiber.Ctx) error {
	var req CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	req.Email = strings.TrimSpace(req.Email)
	req.FullName = strings.TrimSpace(req.FullName)
	if req.FullName == "" || req.Email == "" || req.Password == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Name, email and password are required"})
	}

	balance := 0.0
	if strings.TrimSpace(req.Balance) != "" {
		parsed, err := parseAmount(req.Balance)
		if err != nil {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Balance must be a number"})
		}
		balance = parsed
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
		IsAdmin:      req.IsAdmin,
		IsVerified:   req.IsVerified,
		Balance:      balance,
	})
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return c.Status(http.StatusConflict).JSON(fiber.Map{"error": "Could not create user. The email might already be taken."})
		}
		slog.Error("admin create user failed", "error", err, "email", req.Email)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Could not create user. The email might already be taken."})
	}

	slog.Info("user created by admin", "id", user.ID, "email", user.Email)
	return c.Status(http.StatusCreated).JSON(fiber.Map{"user": user})
}

// Update applies a sparse profile edit. Only fields present in the
// body are written; an explicit empty string clears the field.
func (h *UserHandler) Update(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user id"})
	}

	var update domain.UserUpdate
	if err := c.BodyParser(&update); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := h.Users.UpdateInfo(c.Context(), userID, update); err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
		case errors.Is(err, storage.ErrAlreadyExists):
			return c.Status(http.StatusConflict).JSON(fiber.Map{"error": "Email already in use"})
		}
		slog.Error("failed to update user", "error", err, "user_id", userID)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Could not update user"})
	}

	user, err := h.Users.GetByID(c.Context(), userID)
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Could not reload user"})
	}
	return c.JSON(fiber.Map{"user": user})
}

// SetVerified toggles the activation badge in the user table.
func (h *UserHandler) SetVerified(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user id"})
	}

	var req VerifyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := h.Users.SetVerified(c.Context(), userID, req.Verified); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
		}
		slog.Error("failed to set verified flag", "error", err, "user_id", userID)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Could not update user"})
	}

	return c.JSON(fiber.Map{"status": "success"})
}

// UpdateBalance services the console's balance modal. Mode "add"
// applies the amount as a delta to the current balance, mode "set"
// overwrites it. The amount must parse as a finite number before any
// write happens. Concurrent edits race last-writer-wins.
func (h *UserHandler) UpdateBalance(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user id"})
	}

	var req BalanceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Mode != "add" && req.Mode != "set" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Mode must be 'add' or 'set'"})
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Please enter a valid number"})
	}

	user, err := h.Users.GetByID(c.Context(), userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
		}
		slog.Error("failed to load user for balance update", "error", err, "user_id", userID)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Could not update balance"})
	}

	newBalance := amount
	if req.Mode == "add" {
		newBalance = user.Balance + amount
	}

	if err := h.Users.UpdateBalance(c.Context(), userID, newBalance); err != nil {
		slog.Error("failed to update balance", "error", err, "user_id", userID)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Could not update balance"})
	}

	slog.Info("balance updated", "user_id", userID, "mode", req.Mode, "balance", newBalance)
	return c.JSON(fiber.Map{"status": "success", "balance": newBalance})
}

// parseAmount accepts the console's free-text numeric input and
// rejects anything that is not a finite number.
func parseAmount(input string) (float64, error) {
	value, err := strconv.ParseFloat(strings.TrimSpace(input), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, strconv.ErrSyntax
	}
	return value, nil
}
