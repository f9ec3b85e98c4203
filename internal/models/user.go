package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User represents a registered author account.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Username is the unique login name, also used in profile URLs.
	Username string

	// FirstName and LastName are optional and only used for display.
	FirstName string
	LastName  string

	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string

	// CreatedAt is the Unix timestamp when the user account was created.
	CreatedAt int64
}

// NewUser builds a User with a fresh ID and creation time.
func NewUser(username, firstName, lastName, passwordHash string) *User {
	return &User{
		ID:           uuid.New().String(),
		Username:     username,
		FirstName:    firstName,
		LastName:     lastName,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().Unix(),
	}
}

// DisplayName returns the full name when one is set, otherwise the username.
func (u *User) DisplayName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}
