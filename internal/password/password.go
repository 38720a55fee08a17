// Package password provides one-way password hashing and verification.
//
// Hashing uses bcrypt with a unique random salt per call, so identical
// passwords never produce identical hashes. Passwords are pre-digested with
// SHA-256 (base64-encoded) before bcrypt, which lifts bcrypt's 72-byte input
// limit and lets the application accept the full documented password range.
package password

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt cost used when none is configured.
const DefaultCost = 12

// Hasher hashes and verifies passwords.
type Hasher struct {
	cost int
}

// NewHasher creates a Hasher with the given bcrypt cost.
// Costs outside the valid bcrypt range fall back to DefaultCost.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash returns a salted bcrypt hash of the password.
func (h *Hasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(digest(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether password matches the given hash.
// The comparison runs in constant time with respect to where a mismatch
// occurs (bcrypt.CompareHashAndPassword).
func (h *Hasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), digest(password)) == nil
}

// digest normalizes a password to a fixed-length input for bcrypt.
func digest(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	return []byte(base64.RawStdEncoding.EncodeToString(sum[:]))
}
