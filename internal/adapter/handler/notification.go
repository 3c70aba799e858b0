package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/ibrahimkeyboad/payadmin/internal/adapter/middleware"
	"github.com/ibrahimkeyboad/payadmin/internal/adapter/storage"
	"github.com/ibrahimkeyboad/payadmin/internal/core/domain"
)

// NotificationHandler serves a user's own notifications plus the admin
// path for pushing a message to any user.
type NotificationHandler struct {
	Notifications storage.NotificationStore
}

type MarkReadRequest struct {
	Read bool `json:"read"`
}

type AddNotificationRequest struct {
	Message string `json:"message"`
}

// List returns the caller's notifications, newest first.
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "Missing session"})
	}

	list, err := h.Notifications.ListByUser(c.Context(), accountID)
	if err != nil {
		slog.Error("failed to list notifications", "error", err, "user_id", accountID)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Could not fetch notifications"})
	}
	if list == nil {
		list = []domain.Notification{}
	}
	return c.JSON(fiber.Map{"notifications": list})
}

// MarkRead sets the read flag on one of the caller's notifications.
// The lookup is scoped to the session user, so ids belonging to other
// users come back as not found.
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "Missing session"})
	}

	notificationID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid notification id"})
	}

	var req MarkReadRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := h.Notifications.SetRead(c.Context(), accountID, notificationID, req.Read); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "Notification not found"})
		}
		slog.Error("failed to mark notification", "error", err, "notification_id", notificationID)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Could not update notification"})
	}

	return c.JSON(fiber.Map{"status": "success"})
}

// Add appends an unread notification to the targeted user. Admin only.
func (h *NotificationHandler) Add(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user id"})
	}

	var req AddNotificationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if strings.TrimSpace(req.Message) == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Message is required"})
	}

	notification, err := h.Notifications.Add(c.Context(), userID, req.Message)
	if err != nil {
		slog.Error("failed to add notification", "error", err, "user_id", userID)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Could not add notification"})
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{"notification": notification})
}
