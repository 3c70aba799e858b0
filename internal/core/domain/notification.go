package domain

import (
	"time"

	"github.com/google/uuid"
)

// Notification is an in-app message shown to a single user.
type Notification struct {
	ID      uuid.UUID `json:"id"`
	UserID  uuid.UUID `json:"user_id"`
	Message string    `json:"message"`
	Date    time.Time `json:"date"`
	Read    bool      `json:"read"`
}
