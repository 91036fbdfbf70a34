package models

import (
	"time"
)

// User represents a registered account
type User struct {
	// ID is the unique identifier for the user
	ID string

	// Name is the display name
	Name string

	// Email is the login identifier, unique across users
	Email string

	// PasswordHash is the bcrypt hash of the password
	PasswordHash []byte

	// ProfilePic is an optional avatar URL
	ProfilePic string

	// CreatedAt is when the account was registered
	CreatedAt time.Time
}

// Snapshot captures the user's displayable identity for embedding in a
// session record.
func (u *User) Snapshot() UserSnapshot {
	return UserSnapshot{
		UserID:     u.ID,
		Name:       u.Name,
		ProfilePic: u.ProfilePic,
	}
}
