package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/ibrahimkeyboad/payadmin/internal/adapter/middleware"
	"github.com/ibrahimkeyboad/payadmin/internal/adapter/storage"
	"github.com/ibrahimkeyboad/payadmin/internal/core/domain"
	"github.com/ibrahimkeyboad/payadmin/internal/core/security"
)

// testEnv wires the handlers onto a Fiber app the same way main does,
// with in-memory stores instead of Postgres.
type testEnv struct {
	app           *fiber.App
	users         *memUserStore
	sessions      *memSessionStore
	notifications *memNotificationStore
	transactions  *memTransactionStore
	banks         *memBankStore
	webhooks      *memWebhookQueue
	tokens        *security.TokenManager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		users:         newMemUserStore(),
		sessions:      newMemSessionStore(),
		notifications: newMemNotificationStore(),
		transactions:  newMemTransactionStore(),
		banks:         &memBankStore{},
		webhooks:      &memWebhookQueue{},
		tokens:        security.NewTokenManager("test-secret", "payadmin-test", time.Hour),
	}

	authHandler := &AuthHandler{
		Users:          env.users,
		Sessions:       env.sessions,
		Notifications:  env.notifications,
		Tokens:         env.tokens,
		DefaultBalance: 0,
	}
	userHandler := &UserHandler{Users: env.users}
	transactionHandler := &TransactionHandler{
		Transactions:  env.transactions,
		Notifications: env.notifications,
		Webhooks:      env.webhooks,
		WebhookURL:    "https://hooks.example.com/payadmin",
	}
	bankHandler := &BankHandler{Banks: env.banks}
	notificationHandler := &NotificationHandler{Notifications: env.notifications}

	app := fiber.New()
	api := app.Group("/v1")

	api.Post("/auth/register", authHandler.Register)
	api.Post("/auth/login", authHandler.Login)
	api.Post("/auth/verify-email", authHandler.VerifyEmail)

	private := api.Use(middleware.Protected(env.tokens, env.sessions))
	private.Post("/auth/logout", authHandler.Logout)
	private.Get("/auth/me", authHandler.Me)
	private.Get("/notifications", notificationHandler.List)
	private.Patch("/notifications/:id", notificationHandler.MarkRead)

	admin := private.Group("/admin", middleware.RequireAdmin(env.users))
	admin.Get("/users", userHandler.List)
	admin.Post("/users", userHandler.Create)
	admin.Patch("/users/:id", userHandler.Update)
	admin.Patch("/users/:id/verify", userHandler.SetVerified)
	admin.Post("/users/:id/balance", userHandler.UpdateBalance)
	admin.Post("/users/:id/notifications", notificationHandler.Add)
	admin.Get("/transactions", transactionHandler.List)
	admin.Patch("/transactions/:id/status", transactionHandler.UpdateStatus)
	admin.Get("/bank-accounts", bankHandler.List)
	admin.Put("/bank-accounts", bankHandler.Replace)

	env.app = app
	return env
}

// seedUser inserts a user directly into the store, bypassing bcrypt.
func (e *testEnv) seedUser(t *testing.T, user storage.NewUser) domain.User {
	t.Helper()
	created, err := e.users.CreateUser(context.Background(), user)
	if err != nil {
		t.Fatalf("seed user %s: %v", user.Email, err)
	}
	return created
}

// sessionFor opens a session for the user and returns a bearer token.
func (e *testEnv) sessionFor(t *testing.T, accountID uuid.UUID) string {
	t.Helper()
	token, err := e.tokens.Generate(accountID)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	err = e.sessions.Create(context.Background(), security.HashToken(token), accountID, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	return token
}

// adminSession seeds an admin user and returns their bearer token.
func (e *testEnv) adminSession(t *testing.T) string {
	t.Helper()
	admin := e.seedUser(t, storage.NewUser{
		Email:      "admin@payadmin.test",
		FullName:   "Site Admin",
		IsAdmin:    true,
		IsVerified: true,
	})
	return e.sessionFor(t, admin.ID)
}

// request performs a JSON request against the app and returns the
// status code plus the decoded body.
func (e *testEnv) request(t *testing.T, method, path, token string, body any) (int, map[string]json.RawMessage) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response body: %v", err)
	}

	decoded := map[string]json.RawMessage{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			t.Fatalf("decode response %q: %v", raw, err)
		}
	}
	return resp.StatusCode, decoded
}

// decodeInto unmarshals one field of a response envelope.
func decodeInto(t *testing.T, raw json.RawMessage, out any) {
	t.Helper()
	if raw == nil {
		t.Fatal("missing expected field in response")
	}
	if err := json.Unmarshal(raw, out); err != nil {
		t.Fatalf("decode field: %v", err)
	}
}
