package models

import (
	"time"
)

// User represents a registered account
type User struct {
	ID            string    `json:"id" db:"id"`
	Username      string    `json:"username" db:"username"`
	Email         string    `json:"email" db:"email"`
	PasswordHash  string    `json:"-" db:"password_hash"`
	EmailVerified bool      `json:"-" db:"email_verified"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`
}

// UserRef is the public author projection embedded in posts and comments
type UserRef struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Ref returns the public projection of the user
func (u *User) Ref() *UserRef {
	return &UserRef{ID: u.ID, Username: u.Username, Email: u.Email}
}
