package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/iudanet/tasklist/internal/server/storage"
	"github.com/iudanet/tasklist/internal/validation"
	"github.com/iudanet/tasklist/pkg/api"
)

// ProfileHandler serves the authenticated user's own account record.
type ProfileHandler struct {
	logger *slog.Logger
	users  storage.UserStorage
}

// NewProfileHandler creates a new handler for the profile endpoints.
func NewProfileHandler(logger *slog.Logger, users storage.UserStorage) *ProfileHandler {
	return &ProfileHandler{
		logger: logger,
		users:  users,
	}
}

// GetProfile handles GET /api/v1/auth/profile.
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := GetUserID(ctx)
	if !ok {
		h.logger.ErrorContext(ctx, "user id not found in context")
		WriteError(h.logger, w, MsgTokenInvalid, http.StatusUnauthorized)
		return
	}

	user, err := h.users.GetUserByID(ctx, userID)
	if err != nil {
		// Should not happen for a validly issued token, but a token can
		// outlive its account.
		if errors.Is(err, storage.ErrUserNotFound) {
			h.logger.WarnContext(ctx, "profile for missing user", slog.String("user_id", userID))
			WriteError(h.logger, w, "User not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
		WriteError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	WriteJSON(h.logger, w, user, http.StatusOK)
}

// UpdateProfile handles PUT /api/v1/auth/profile.
// Only the display name is mutable; absent fields are left unchanged.
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := GetUserID(ctx)
	if !ok {
		h.logger.ErrorContext(ctx, "user id not found in context")
		WriteError(h.logger, w, MsgTokenInvalid, http.StatusUnauthorized)
		return
	}

	var req api.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode profile request", slog.Any("error", err))
		WriteError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	var name string
	if req.Name != nil {
		name = strings.TrimSpace(*req.Name)
		if err := validation.ValidateName(name); err != nil {
			WriteError(h.logger, w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	user, err := h.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			WriteError(h.logger, w, "User not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
		WriteError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	if req.Name != nil {
		user.Name = name
		user.UpdatedAt = time.Now()

		if err := h.users.UpdateUser(ctx, user); err != nil {
			if errors.Is(err, storage.ErrUserNotFound) {
				WriteError(h.logger, w, "User not found", http.StatusNotFound)
				return
			}
			h.logger.ErrorContext(ctx, "failed to update user", slog.Any("error", err))
			WriteError(h.logger, w, "internal server error", http.StatusInternalServerError)
			return
		}

		h.logger.InfoContext(ctx, "profile updated", slog.String("user_id", userID))
	}

	WriteJSON(h.logger, w, user, http.StatusOK)
}
