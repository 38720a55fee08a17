package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/iudanet/tasklist/internal/server/token"
)

// contextKey is the type for request context keys.
type contextKey string

const (
	// UserIDKey holds the authenticated user's id in the request context.
	UserIDKey contextKey = "user_id"
	// UserEmailKey holds the authenticated user's email in the request context.
	UserEmailKey contextKey = "user_email"
)

// Client-facing authentication messages. Credential failures always render
// MsgInvalidCredentials regardless of which check failed, to prevent user
// enumeration.
const (
	MsgInvalidCredentials = "Invalid email or password"
	MsgTokenExpired       = "Token has expired"
	MsgTokenInvalid       = "Invalid token"
	MsgMissingAuthHeader  = "Authorization header is required"
)

// ErrMissingAuthHeader indicates a request without an Authorization header.
var ErrMissingAuthHeader = errors.New("authorization header is required")

// GetUserID extracts the authenticated user id from the request context.
func GetUserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)
	return userID, ok
}

// GetUserEmail extracts the authenticated user email from the request context.
func GetUserEmail(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(UserEmailKey).(string)
	return email, ok
}

// Authenticate extracts the bearer token from the request headers and
// validates it, returning the claims it asserts. It is the single chokepoint
// every protected endpoint goes through, either directly (logout) or via
// the auth middleware. It has no side effects.
//
// Errors: ErrMissingAuthHeader (no header), token.ErrExpired,
// token.ErrInvalid (bad format, bad signature, malformed token).
func Authenticate(codec *token.Service, r *http.Request) (*token.Claims, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, ErrMissingAuthHeader
	}

	// Expected format: "Bearer <token>"
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return nil, token.ErrInvalid
	}

	return codec.Verify(parts[1])
}

// AuthErrorMessage maps an Authenticate error to the fixed client-facing
// message set.
func AuthErrorMessage(err error) string {
	switch {
	case errors.Is(err, ErrMissingAuthHeader):
		return MsgMissingAuthHeader
	case errors.Is(err, token.ErrExpired):
		return MsgTokenExpired
	default:
		return MsgTokenInvalid
	}
}
