package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/tasklist/internal/models"
	"github.com/iudanet/tasklist/internal/password"
	"github.com/iudanet/tasklist/internal/server/storage"
	"github.com/iudanet/tasklist/internal/server/token"
	"github.com/iudanet/tasklist/internal/validation"
	"github.com/iudanet/tasklist/pkg/api"
)

// AuthHandler handles registration, login and logout.
type AuthHandler struct {
	logger *slog.Logger
	users  storage.UserStorage
	tokens *token.Service
	hasher *password.Hasher

	// dummyHash is compared against on login for unknown emails, so the
	// miss path costs the same as a found-but-wrong-password path.
	dummyHash string
}

// NewAuthHandler creates a new handler for the auth endpoints.
func NewAuthHandler(logger *slog.Logger, users storage.UserStorage, tokens *token.Service, hasher *password.Hasher) (*AuthHandler, error) {
	dummyHash, err := hasher.Hash("tasklist-timing-dummy-0!")
	if err != nil {
		return nil, fmt.Errorf("failed to precompute dummy hash: %w", err)
	}

	return &AuthHandler{
		logger:    logger,
		users:     users,
		tokens:    tokens,
		hasher:    hasher,
		dummyHash: dummyHash,
	}, nil
}

// Register handles POST /api/v1/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode register request", slog.Any("error", err))
		WriteError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	email := validation.NormalizeEmail(req.Email)
	if err := validation.ValidateEmail(email); err != nil {
		WriteError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}

	name := strings.TrimSpace(req.Name)
	if err := validation.ValidateName(name); err != nil {
		WriteError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := validation.ValidatePassword(req.Password); err != nil {
		WriteError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}

	passwordHash, err := h.hasher.Hash(req.Password)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to hash password", slog.Any("error", err))
		WriteError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	now := time.Now()
	user := &models.User{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// The store enforces email uniqueness atomically; of two concurrent
	// registrations with the same email exactly one lands here successfully.
	if err := h.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrEmailExists) {
			h.logger.WarnContext(ctx, "email already registered", slog.String("email", email))
			WriteError(h.logger, w, "Email already registered", http.StatusConflict)
			return
		}
		h.logger.ErrorContext(ctx, "failed to create user", slog.Any("error", err))
		WriteError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	tokenString, err := h.tokens.Issue(user.ID, user.Email)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to issue token", slog.Any("error", err))
		WriteError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "user registered successfully",
		slog.String("user_id", user.ID))

	WriteJSON(h.logger, w, api.AuthResponse{Token: tokenString, User: user}, http.StatusCreated)
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode login request", slog.Any("error", err))
		WriteError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	email := validation.NormalizeEmail(req.Email)

	user, err := h.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			// Burn a hash comparison so the unknown-email path takes as
			// long as a wrong-password path.
			h.hasher.Verify(req.Password, h.dummyHash)
			h.logger.WarnContext(ctx, "login failed: unknown email")
			WriteError(h.logger, w, MsgInvalidCredentials, http.StatusUnauthorized)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
		WriteError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	if !h.hasher.Verify(req.Password, user.PasswordHash) || !user.IsActive {
		h.logger.WarnContext(ctx, "login failed: invalid credentials", slog.String("user_id", user.ID))
		WriteError(h.logger, w, MsgInvalidCredentials, http.StatusUnauthorized)
		return
	}

	tokenString, err := h.tokens.Issue(user.ID, user.Email)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to issue token", slog.Any("error", err))
		WriteError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "user logged in successfully", slog.String("user_id", user.ID))

	WriteJSON(h.logger, w, api.AuthResponse{Token: tokenString, User: user}, http.StatusOK)
}

// Logout handles POST /api/v1/auth/logout.
// Tokens are stateless: the server validates the presented token and
// confirms, but keeps no session state to invalidate. The token remains
// valid until its natural expiry; the client is responsible for
// discarding it.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	claims, err := Authenticate(h.tokens, r)
	if err != nil {
		h.logger.WarnContext(ctx, "logout with invalid token", slog.Any("error", err))
		WriteError(h.logger, w, AuthErrorMessage(err), http.StatusUnauthorized)
		return
	}

	h.logger.InfoContext(ctx, "user logged out", slog.String("user_id", claims.UserID()))

	WriteJSON(h.logger, w, api.MessageResponse{Message: "Logged out successfully"}, http.StatusOK)
}
