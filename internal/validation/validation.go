// Package validation contains input checks shared by the HTTP handlers.
// All checks operate on already-trimmed input; callers trim first.
package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

const (
	// MinPasswordLen is the minimum password length.
	MinPasswordLen = 8
	// MaxPasswordLen is the maximum password length.
	MaxPasswordLen = 128
	// MaxNameLen is the maximum display name length in runes.
	MaxNameLen = 100
	// MaxTitleLen is the maximum task title length in runes.
	MaxTitleLen = 200
	// MaxEmailLen is the maximum email length per RFC 5321.
	MaxEmailLen = 254

	// PasswordSymbols is the set of symbols a password must draw from.
	PasswordSymbols = "!@#$%^&*()-_=+[]{};:'\",.<>/?`~|\\"
)

var validate = validator.New()

// NormalizeEmail lowercases and trims an email for storage and lookup.
// Emails are compared case-insensitively throughout the system.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail checks that email is a syntactically valid address.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if len(email) > MaxEmailLen {
		return fmt.Errorf("email must not exceed %d characters", MaxEmailLen)
	}
	if err := validate.Var(email, "email"); err != nil {
		return fmt.Errorf("email format is invalid")
	}
	return nil
}

// ValidateName checks a display name (non-blank, at most MaxNameLen runes).
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("name cannot be blank")
	}
	if utf8.RuneCountInString(name) > MaxNameLen {
		return fmt.Errorf("name must not exceed %d characters", MaxNameLen)
	}
	return nil
}

// ValidatePassword enforces the password policy:
// 8-128 characters, at least one digit, at least one symbol
// from PasswordSymbols.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLen {
		return fmt.Errorf("password must be at least %d characters long", MinPasswordLen)
	}
	if len(password) > MaxPasswordLen {
		return fmt.Errorf("password must not exceed %d characters", MaxPasswordLen)
	}
	if !strings.ContainsAny(password, "0123456789") {
		return fmt.Errorf("password must contain at least one digit")
	}
	if !strings.ContainsAny(password, PasswordSymbols) {
		return fmt.Errorf("password must contain at least one symbol")
	}
	return nil
}

// ValidateTaskTitle checks a task title (non-blank, at most MaxTitleLen runes).
func ValidateTaskTitle(title string) error {
	if title == "" {
		return fmt.Errorf("title cannot be blank")
	}
	if utf8.RuneCountInString(title) > MaxTitleLen {
		return fmt.Errorf("title must not exceed %d characters", MaxTitleLen)
	}
	return nil
}

// ValidateTaskStatus checks a task status value.
func ValidateTaskStatus(status string) error {
	switch status {
	case "pending", "completed":
		return nil
	}
	return fmt.Errorf("status must be one of: pending, completed")
}

// ValidateTaskPriority checks a task priority value.
func ValidateTaskPriority(priority string) error {
	switch priority {
	case "low", "medium", "high":
		return nil
	}
	return fmt.Errorf("priority must be one of: low, medium, high")
}
