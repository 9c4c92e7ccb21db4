package entity

import (
	"time"
)

// User is the aggregate root for the account domain.
// Passwords are stored as bcrypt hashes in PasswordHash.
//
// Username doubles as the public display name; sessions reference users
// by id, never by username, so a rename does not invalidate a session.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	Email        string
	Goals        string
	AvatarURL    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
