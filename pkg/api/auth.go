// Package api defines the JSON request and response shapes of the HTTP API.
package api

import "github.com/iudanet/tasklist/internal/models"

// RegisterRequest is the body of POST /api/v1/auth/register.
type RegisterRequest struct {
	Email    string `json:"email"`    // login key, case-insensitive
	Name     string `json:"name"`     // display name
	Password string `json:"password"` // plaintext, hashed server-side, never stored
}

// LoginRequest is the body of POST /api/v1/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned on successful register and login.
type AuthResponse struct {
	Token string       `json:"token"` // signed bearer token
	User  *models.User `json:"user"`
}

// UpdateProfileRequest is the body of PUT /api/v1/auth/profile.
// Absent fields are left unchanged.
type UpdateProfileRequest struct {
	Name *string `json:"name,omitempty"`
}

// MessageResponse carries a human-readable confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`             // HTTP status text
	Message string `json:"message,omitempty"` // safe, client-facing detail
}
