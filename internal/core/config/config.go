package config

import (
	"errors"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	DatabaseURL    string
	Env            string
	JWTSecret      string
	JWTIssuer      string
	SessionTTL     time.Duration
	WebhookURL     string
	WebhookSecret  string
	DefaultBalance float64
}

// LoadConfig reads .env (if present) and the environment, and validates
// the values the service cannot run without.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Warn("No .env file found, relying on system env variables")
	}

	cfg := &Config{
		Port:          getEnv("PORT", "3000"),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		Env:           getEnv("ENV", "development"),
		JWTSecret:     getEnv("JWT_SECRET", ""),
		JWTIssuer:     getEnv("JWT_ISSUER", "payadmin"),
		WebhookURL:    getEnv("WEBHOOK_URL", ""),
		WebhookSecret: getEnv("WEBHOOK_SECRET", ""),
	}

	minutes, err := strconv.Atoi(getEnv("SESSION_TTL_MINUTES", "60"))
	if err != nil || minutes <= 0 {
		minutes = 60
	}
	cfg.SessionTTL = time.Duration(minutes) * time.Minute

	balance, err := strconv.ParseFloat(getEnv("DEFAULT_BALANCE", "0"), 64)
	if err != nil {
		balance = 0
	}
	cfg.DefaultBalance = balance

	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	return cfg, nil
}

// Helper to get env with a default fallback
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
