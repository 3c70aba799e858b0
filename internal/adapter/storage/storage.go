package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/ibrahimkeyboad/payadmin/internal/core/domain"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// NewUser carries everything needed to create an account plus its
// profile row in one go.
type NewUser struct {
	Email        string
	PasswordHash string
	FullName     string
	Username     string
	PhoneNumber  string
	IsAdmin      bool
	IsVerified   bool
	Balance      float64
}

// Credentials is the login view of an account.
type Credentials struct {
	AccountID    uuid.UUID
	PasswordHash string
}

// UserStore persists accounts and profiles.
type UserStore interface {
	// CreateUser inserts the credential account and its profile row
	// atomically; a failure leaves neither behind.
	CreateUser(ctx context.Context, user NewUser) (domain.User, error)
	FindCredentials(ctx context.Context, email string) (Credentials, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	// UpdateBalance overwrites the stored balance with an absolute
	// value. Last writer wins.
	UpdateBalance(ctx context.Context, id uuid.UUID, balance float64) error
	UpdateInfo(ctx context.Context, id uuid.UUID, update domain.UserUpdate) error
	SetVerified(ctx context.Context, id uuid.UUID, verified bool) error
}

// SessionStore persists hashed session tokens.
type SessionStore interface {
	Create(ctx context.Context, tokenHash string, accountID uuid.UUID, expiresAt time.Time) error
	Find(ctx context.Context, tokenHash string) (uuid.UUID, error)
	Delete(ctx context.Context, tokenHash string) error
	DeleteExpired(ctx context.Context) (int64, error)
}

// NotificationStore persists per-user notifications.
type NotificationStore interface {
	// ListByUser returns the user's notifications newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Notification, error)
	Add(ctx context.Context, userID uuid.UUID, message string) (domain.Notification, error)
	// SetRead updates the read flag, scoped to the owning user.
	SetRead(ctx context.Context, userID, notificationID uuid.UUID, read bool) error
}

// TransactionStore reads and moderates transactions. Creation happens
// elsewhere (the customer-facing service writes the same tables).
type TransactionStore interface {
	List(ctx context.Context) ([]domain.Transaction, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Transaction, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.TransactionStatus) error
}

// BankStore persists the company bank-account list.
type BankStore interface {
	List(ctx context.Context) ([]domain.CompanyBankAccount, error)
	// ReplaceAll swaps the whole list in a single transaction.
	ReplaceAll(ctx context.Context, accounts []domain.CompanyBankAccount) error
}

// WebhookQueue enqueues outbound webhook jobs for the worker.
type WebhookQueue interface {
	Enqueue(ctx context.Context, url string, payload []byte) error
}
