package storage

import "errors"

// Common storage errors
var (
	// ErrUserNotFound indicates that the user was not found in storage
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailExists indicates that an account with this email already exists
	ErrEmailExists = errors.New("email already registered")

	// ErrTaskNotFound indicates that the task was not found (or belongs to
	// another user, which is deliberately indistinguishable)
	ErrTaskNotFound = errors.New("task not found")
)
