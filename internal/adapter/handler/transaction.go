package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/ibrahimkeyboad/payadmin/internal/adapter/storage"
	"github.com/ibrahimkeyboad/payadmin/internal/core/domain"
)

// TransactionHandler owns the console's transaction tab: listing with
// search, and manual status moderation for deposits and withdrawals.
type TransactionHandler struct {
	Transactions  storage.TransactionStore
	Notifications storage.NotificationStore
	Webhooks      storage.WebhookQueue
	WebhookURL    string
}

type StatusRequest struct {
	Status domain.TransactionStatus `json:"status"`
}

// List returns all transactions, filtered by the optional search query
// across transaction id, owner id, owner email and owner full name.
func (h *TransactionHandler) List(c *fiber.Ctx) error {
	txs, err := h.Transactions.List(c.Context())
	if err != nil {
		slog.Error("failed to list transactions", "error", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Could not fetch transactions"})
	}

	filtered := domain.FilterTransactions(txs, c.Query("search"))
	if filtered == nil {
		filtered = []domain.Transaction{}
	}
	return c.JSON(fiber.Map{"transactions": filtered})
}

// UpdateStatus moves a deposit or withdrawal into a new status.
// Transfers are system-managed and never transitionable. Re-selecting
// the current status is a no-op. A real change notifies the owner and
// queues a webhook.
func (h *TransactionHandler) UpdateStatus(c *fiber.Ctx) error {
	txID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid transaction id"})
	}

	var req StatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	tx, err := h.Transactions.GetByID(c.Context(), txID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "Transaction not found"})
		}
		slog.Error("failed to load transaction", "error", err, "tx_id", txID)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Could not fetch transaction"})
	}

	if tx.Type == domain.Transfer {
		return c.Status(http.StatusUnprocessableEntity).JSON(fiber.Map{"error": "Transfer status is managed automatically"})
	}
	if req.Status == tx.Status {
		return c.JSON(fiber.Map{"status": "unchanged", "transaction": tx})
	}
	if !domain.CanTransition(tx.Type, req.Status) {
		return c.Status(http.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": fmt.Sprintf("Status %s is not allowed for %s transactions", req.Status, tx.Type),
		})
	}

	if err := h.Transactions.UpdateStatus(c.Context(), txID, req.Status); err != nil {
		slog.Error("failed to update transaction status", "error", err, "tx_id", txID)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Could not update status"})
	}
	slog.Info("transaction status updated", "tx_id", txID, "from", tx.Status, "to", req.Status)

	message := fmt.Sprintf("Your %s of %.2f is now %s.",
		strings.ToLower(string(tx.Type)), tx.Amount, req.Status)
	if _, err := h.Notifications.Add(c.Context(), tx.UserID, message); err != nil {
		slog.Warn("failed to notify transaction owner", "error", err, "tx_id", txID)
	}

	h.queueStatusWebhook(c, tx, req.Status)

	tx.Status = req.Status
	return c.JSON(fiber.Map{"status": "success", "transaction": tx})
}

func (h *TransactionHandler) queueStatusWebhook(c *fiber.Ctx, tx domain.Transaction, status domain.TransactionStatus) {
	if h.Webhooks == nil || h.WebhookURL == "" {
		return
	}

	payload, err := json.Marshal(map[string]interface{}{
		"event": "transaction.updated",
		"data": map[string]interface{}{
			"transaction_id": tx.ID,
			"user_id":        tx.UserID,
			"type":           tx.Type,
			"amount":         tx.Amount,
			"status":         status,
			"timestamp":      time.Now(),
		},
	})
	if err != nil {
		slog.Error("failed to marshal webhook payload", "error", err)
		return
	}

	if err := h.Webhooks.Enqueue(c.Context(), h.WebhookURL, payload); err != nil {
		slog.Error("failed to queue webhook", "error", err, "tx_id", tx.ID)
	}
}
