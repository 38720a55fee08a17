package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/iudanet/tasklist/pkg/api"
)

// WriteJSON writes data as a JSON response with the given status code.
func WriteJSON(logger *slog.Logger, w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", slog.Any("error", err))
	}
}

// WriteError writes a JSON error response. The message must already be safe
// for clients; internal error detail never goes through here.
func WriteError(logger *slog.Logger, w http.ResponseWriter, message string, statusCode int) {
	resp := api.ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	}
	WriteJSON(logger, w, resp, statusCode)
}
