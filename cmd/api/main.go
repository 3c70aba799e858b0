package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/ibrahimkeyboad/payadmin/internal/adapter/handler"
	"github.com/ibrahimkeyboad/payadmin/internal/adapter/middleware"
	"github.com/ibrahimkeyboad/payadmin/internal/adapter/storage"
	"github.com/ibrahimkeyboad/payadmin/internal/core/config"
	"github.com/ibrahimkeyboad/payadmin/internal/core/security"
	"github.com/ibrahimkeyboad/payadmin/internal/core/worker"
)

func main() {
	// 1. Config & Logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// 2. Database
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dbPool, err := storage.ConnectDB(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	// 3. Repos & Handlers
	userRepo := storage.NewUserRepository(dbPool)
	sessionRepo := storage.NewSessionRepository(dbPool)
	notificationRepo := storage.NewNotificationRepository(dbPool)
	transactionRepo := storage.NewTransactionRepository(dbPool)
	bankRepo := storage.NewBankRepository(dbPool)
	webhookRepo := storage.NewWebhookJobRepository(dbPool)

	tokens := security.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.SessionTTL)

	authHandler := &handler.AuthHandler{
		Users:          userRepo,
		Sessions:       sessionRepo,
		Notifications:  notificationRepo,
		Tokens:         tokens,
		DefaultBalance: cfg.DefaultBalance,
	}
	userHandler := &handler.UserHandler{Users: userRepo}
	transactionHandler := &handler.TransactionHandler{
		Transactions:  transactionRepo,
		Notifications: notificationRepo,
		Webhooks:      webhookRepo,
		WebhookURL:    cfg.WebhookURL,
	}
	bankHandler := &handler.BankHandler{Banks: bankRepo}
	notificationHandler := &handler.NotificationHandler{Notifications: notificationRepo}

	// 4. Fiber
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})
	app.Use(cors.New())
	app.Static("/", "./public")

	// 5. Routes
	api := app.Group("/v1")

	// Public
	api.Post("/auth/register", authHandler.Register)
	api.Post("/auth/login", authHandler.Login)
	api.Post("/auth/verify-email", authHandler.VerifyEmail)

	// Session required
	private := api.Use(middleware.Protected(tokens, sessionRepo))
	private.Post("/auth/logout", authHandler.Logout)
	private.Get("/auth/me", authHandler.Me)
	private.Get("/notifications", notificationHandler.List)
	private.Patch("/notifications/:id", notificationHandler.MarkRead)

	// Admin console
	admin := private.Group("/admin", middleware.RequireAdmin(userRepo))
	admin.Get("/users", userHandler.List)
	admin.Post("/users", middleware.Idempotency(dbPool), userHandler.Create)
	admin.Patch("/users/:id", userHandler.Update)
	admin.Patch("/users/:id/verify", userHandler.SetVerified)
	admin.Post("/users/:id/balance", userHandler.UpdateBalance)
	admin.Post("/users/:id/notifications", notificationHandler.Add)
	admin.Get("/transactions", transactionHandler.List)
	admin.Patch("/transactions/:id/status", transactionHandler.UpdateStatus)
	admin.Get("/bank-accounts", bankHandler.List)
	admin.Put("/bank-accounts", bankHandler.Replace)

	// 6. Background work
	worker.StartWebhookWorker(ctx, dbPool, cfg.WebhookSecret)
	startSessionSweeper(ctx, sessionRepo)

	// 7. Serve until signalled, then drain
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("🚀 Server starting", "env", cfg.Env, "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server stopped", "error", err)
		}
	}()

	<-stop
	slog.Info("🛑 Shutting down server...")

	cancel()
	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown failed", "error", err)
	}
	dbPool.Close()

	slog.Info("👋 Server exited")
}

// startSessionSweeper drops expired session rows every hour.
func startSessionSweeper(ctx context.Context, sessions storage.SessionStore) {
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				removed, err := sessions.DeleteExpired(ctx)
				if err != nil {
					slog.Error("session sweep failed", "error", err)
					continue
				}
				if removed > 0 {
					slog.Info("expired sessions removed", "count", removed)
				}
			}
		}
	}()
}
