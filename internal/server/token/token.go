// Package token implements the signed bearer tokens that carry session
// identity. Tokens are self-contained HS256 JWTs with a fixed lifetime;
// the server keeps no session state and cannot revoke a token before its
// natural expiry.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// MinSecretLen is the minimum signing secret length in bytes (256 bits).
const MinSecretLen = 32

var (
	// ErrExpired indicates a well-formed token whose exp has passed.
	ErrExpired = errors.New("token has expired")

	// ErrInvalid indicates a malformed token or a signature mismatch.
	ErrInvalid = errors.New("token is invalid")
)

// Claims is the payload carried inside a session token.
// On the wire: sub (user id), email, iat, exp.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// UserID returns the subject the token asserts.
func (c *Claims) UserID() string {
	return c.Subject
}

// Service issues and verifies session tokens with a shared secret.
// It is immutable after construction and safe for concurrent use.
type Service struct {
	secret []byte
	ttl    time.Duration
}

// NewService creates a token service.
// The secret must be at least MinSecretLen bytes.
func NewService(secret string, ttl time.Duration) (*Service, error) {
	if len(secret) < MinSecretLen {
		return nil, fmt.Errorf("signing secret must be at least %d bytes, got %d", MinSecretLen, len(secret))
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("token lifetime must be positive, got %s", ttl)
	}
	return &Service{secret: []byte(secret), ttl: ttl}, nil
}

// TTL returns the configured token lifetime.
func (s *Service) TTL() time.Duration {
	return s.ttl
}

// Issue creates a signed token for the given user.
func (s *Service) Issue(userID, email string) (string, error) {
	now := time.Now()

	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// Verify validates the signature and expiry of a token and returns its
// claims. It returns ErrExpired for an otherwise valid token past its exp,
// and ErrInvalid for everything else (bad signature, malformed token,
// unexpected algorithm).
func (s *Service) Verify(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, ErrInvalid
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalid
	}

	return claims, nil
}
