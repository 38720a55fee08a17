// Package server wires the application together and runs the HTTP server.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/iudanet/tasklist/internal/password"
	"github.com/iudanet/tasklist/internal/server/config"
	"github.com/iudanet/tasklist/internal/server/handlers"
	"github.com/iudanet/tasklist/internal/server/middleware"
	"github.com/iudanet/tasklist/internal/server/storage/sqlite"
	"github.com/iudanet/tasklist/internal/server/token"
)

// shutdownTimeout bounds how long in-flight requests may run after a
// termination signal.
const shutdownTimeout = 10 * time.Second

// App holds the assembled server and its resources.
type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	storage    *sqlite.Storage
	httpServer *http.Server
	version    string
}

// NewApp builds the application: storage, token service, handlers, routes.
func NewApp(ctx context.Context, cfg *config.Config, logger *slog.Logger, version string) (*App, error) {
	store, err := sqlite.New(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	tokens, err := token.NewService(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("token service init error: %w", err)
	}

	hasher := password.NewHasher(cfg.BcryptCost)

	authHandler, err := handlers.NewAuthHandler(logger, store, tokens, hasher)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("auth handler init error: %w", err)
	}

	profileHandler := handlers.NewProfileHandler(logger, store)
	taskHandler := handlers.NewTaskHandler(logger, store)
	healthHandler := handlers.NewHealthHandler(logger, store, version)

	app := &App{
		cfg:     cfg,
		logger:  logger,
		storage: store,
		version: version,
	}

	app.httpServer = &http.Server{
		Addr:              cfg.Address,
		Handler:           app.routes(authHandler, profileHandler, taskHandler, healthHandler, tokens),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return app, nil
}

// routes builds the router and middleware chain.
func (a *App) routes(
	authHandler *handlers.AuthHandler,
	profileHandler *handlers.ProfileHandler,
	taskHandler *handlers.TaskHandler,
	healthHandler *handlers.HealthHandler,
	tokens *token.Service,
) http.Handler {
	mux := http.NewServeMux()

	// Register and login are rate limited per IP against credential
	// stuffing. Everything after /auth is gated by the auth middleware,
	// the single chokepoint that validates the bearer token.
	limited := middleware.RateLimitMiddleware(a.cfg.AuthRateLimit, a.cfg.AuthRateWindow, a.logger)
	protected := middleware.AuthMiddleware(a.logger, tokens)

	mux.Handle("GET /api/v1/health", http.HandlerFunc(healthHandler.Health))

	mux.Handle("POST /api/v1/auth/register", limited(http.HandlerFunc(authHandler.Register)))
	mux.Handle("POST /api/v1/auth/login", limited(http.HandlerFunc(authHandler.Login)))
	mux.Handle("POST /api/v1/auth/logout", http.HandlerFunc(authHandler.Logout))

	mux.Handle("GET /api/v1/auth/profile", protected(http.HandlerFunc(profileHandler.GetProfile)))
	mux.Handle("PUT /api/v1/auth/profile", protected(http.HandlerFunc(profileHandler.UpdateProfile)))

	mux.Handle("GET /api/v1/tasks", protected(http.HandlerFunc(taskHandler.List)))
	mux.Handle("POST /api/v1/tasks", protected(http.HandlerFunc(taskHandler.Create)))
	mux.Handle("GET /api/v1/tasks/{id}", protected(http.HandlerFunc(taskHandler.Get)))
	mux.Handle("PUT /api/v1/tasks/{id}", protected(http.HandlerFunc(taskHandler.Update)))
	mux.Handle("DELETE /api/v1/tasks/{id}", protected(http.HandlerFunc(taskHandler.Delete)))

	var handler http.Handler = mux
	handler = middleware.LoggingMiddleware(a.logger, "/api/v1/health")(handler)
	handler = middleware.RecoveryMiddleware(a.logger)(handler)

	return handler
}

// Run starts the HTTP server and blocks until ctx is cancelled, then shuts
// down gracefully.
func (a *App) Run(ctx context.Context) error {
	errC := make(chan error, 1)

	go func() {
		a.logger.Info("server listening",
			slog.String("address", a.cfg.Address),
			slog.String("version", a.version))

		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errC <- err
		}
	}()

	select {
	case err := <-errC:
		a.storage.Close()
		return fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("shutdown error", slog.Any("error", err))
	}

	if err := a.storage.Close(); err != nil {
		a.logger.Error("storage close error", slog.Any("error", err))
	}

	a.logger.Info("server stopped")
	return nil
}
