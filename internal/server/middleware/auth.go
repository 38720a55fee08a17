package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/iudanet/tasklist/internal/server/handlers"
	"github.com/iudanet/tasklist/internal/server/token"
)

// AuthMiddleware gates protected endpoints behind a valid bearer token.
// On success the authenticated user's id and email are placed in the
// request context; on failure the request is rejected with 401 and one of
// the fixed client-facing messages. The middleware is read-only: it never
// mutates or extends the token.
func AuthMiddleware(logger *slog.Logger, codec *token.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := handlers.Authenticate(codec, r)
			if err != nil {
				logger.Warn("request rejected", "error", err, "path", r.URL.Path)
				handlers.WriteError(logger, w, handlers.AuthErrorMessage(err), http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), handlers.UserIDKey, claims.UserID())
			ctx = context.WithValue(ctx, handlers.UserEmailKey, claims.Email)

			logger.Debug("user authenticated", "user_id", claims.UserID())

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
