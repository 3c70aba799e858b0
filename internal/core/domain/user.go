package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is the application-facing view of a profile row.
type User struct {
	ID                uuid.UUID      `json:"id"`
	Email             string         `json:"email"`
	FullName          string         `json:"full_name"`
	Username          string         `json:"username"`
	PhoneNumber       string         `json:"phone_number"`
	IsAdmin           bool           `json:"is_admin"`
	IsVerified        bool           `json:"is_verified"`
	Balance           float64        `json:"balance"`
	ProfilePictureURL string         `json:"profile_picture_url,omitempty"`
	Notifications     []Notification `json:"notifications,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
}

// ProfileRow mirrors the profiles table as stored, with nullable columns
// kept as pointers so mapping can distinguish absent from zero.
type ProfileRow struct {
	ID                uuid.UUID
	Email             *string
	FullName          *string
	Username          *string
	PhoneNumber       *string
	IsAdmin           *bool
	IsVerified        *bool
	Balance           *float64
	ProfilePictureURL *string
	CreatedAt         time.Time
}

// UserFromProfile maps a profile row to a User. The mapping is total:
// every row yields a usable record, with nil flags becoming false, nil
// balance becoming 0 and nil strings becoming empty.
func UserFromProfile(row ProfileRow) User {
	u := User{ID: row.ID, CreatedAt: row.CreatedAt}
	if row.Email != nil {
		u.Email = *row.Email
	}
	if row.FullName != nil {
		u.FullName = *row.FullName
	}
	if row.Username != nil {
		u.Username = *row.Username
	}
	if row.PhoneNumber != nil {
		u.PhoneNumber = *row.PhoneNumber
	}
	if row.IsAdmin != nil {
		u.IsAdmin = *row.IsAdmin
	}
	if row.IsVerified != nil {
		u.IsVerified = *row.IsVerified
	}
	if row.Balance != nil {
		u.Balance = *row.Balance
	}
	if row.ProfilePictureURL != nil {
		u.ProfilePictureURL = *row.ProfilePictureURL
	}
	return u
}

// UserUpdate is a sparse profile update. Nil means "leave unchanged";
// a pointer to the zero value means "explicitly clear".
type UserUpdate struct {
	Email             *string `json:"email"`
	FullName          *string `json:"full_name"`
	Username          *string `json:"username"`
	PhoneNumber       *string `json:"phone_number"`
	ProfilePictureURL *string `json:"profile_picture_url"`
}

// Empty reports whether the update touches no fields at all.
func (u UserUpdate) Empty() bool {
	return u.Email == nil && u.FullName == nil && u.Username == nil &&
		u.PhoneNumber == nil && u.ProfilePictureURL == nil
}
