package models

import "time"

// User represents an account in the system.
// PasswordHash is never serialized to JSON.
type User struct {
	ID           string    `json:"id"`         // account UUID
	Email        string    `json:"email"`      // unique login key, stored lower case
	Name         string    `json:"name"`       // display name, 1-100 chars after trimming
	PasswordHash string    `json:"-"`          // bcrypt hash, opaque to callers
	IsActive     bool      `json:"is_active"`  // soft-deactivation flag, defaults to true
	CreatedAt    time.Time `json:"created_at"` // creation time
	UpdatedAt    time.Time `json:"updated_at"` // advances on any mutation
}
