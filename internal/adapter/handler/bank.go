package handler

import (
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/ibrahimkeyboad/payadmin/internal/adapter/storage"
	"github.com/ibrahimkeyboad/payadmin/internal/core/domain"
)

// BankHandler owns the console's settings tab: the company bank-account
// list, read and replaced as a whole.
type BankHandler struct {
	Banks storage.BankStore
}

type ReplaceBanksRequest struct {
	Accounts []domain.CompanyBankAccount `json:"accounts"`
}

func (h *BankHandler) List(c *fiber.Ctx) error {
	accounts, err := h.Banks.List(c.Context())
	if err != nil {
		slog.Error("failed to list bank accounts", "error", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Could not fetch bank accounts"})
	}
	if accounts == nil {
		accounts = []domain.CompanyBankAccount{}
	}
	return c.JSON(fiber.Map{"accounts": accounts})
}

// Replace saves the edited list wholesale. The fields are free text;
// there is no per-row validation beyond the body being well-formed.
func (h *BankHandler) Replace(c *fiber.Ctx) error {
	var req ReplaceBanksRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := h.Banks.ReplaceAll(c.Context(), req.Accounts); err != nil {
		slog.Error("failed to replace bank accounts", "error", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Could not save bank accounts"})
	}

	slog.Info("company bank accounts replaced", "count", len(req.Accounts))
	return c.JSON(fiber.Map{"status": "success", "accounts": req.Accounts})
}
