// Package config loads and validates the server configuration.
//
// Values are resolved from, in order of precedence: TASKLIST_* environment
// variables, an optional config.yml in the working directory, and built-in
// defaults. A .env file, if present, is loaded into the environment first.
// The result is an immutable value constructed once at startup and passed
// to the component constructors; nothing reads configuration at runtime.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// MinSecretLen is the minimum JWT signing secret length in bytes.
const MinSecretLen = 32

// Config holds runtime settings for the tasklist server.
type Config struct {
	// Address is the HTTP bind address.
	Address string `mapstructure:"address"`

	// DatabasePath is the SQLite database file path.
	DatabasePath string `mapstructure:"database_path"`

	// JWTSecret is the HMAC secret for signing session tokens (HS256).
	// Required; must be at least MinSecretLen bytes.
	JWTSecret string `mapstructure:"jwt_secret"`

	// TokenTTL is the session token lifetime. Tokens are not refreshed or
	// extended; a new login issues a new token.
	TokenTTL time.Duration `mapstructure:"token_ttl"`

	// BcryptCost is the password hashing cost. Zero selects the default.
	BcryptCost int `mapstructure:"bcrypt_cost"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `mapstructure:"log_level"`

	// AuthRateLimit / AuthRateWindow bound register/login attempts per IP.
	AuthRateLimit  int           `mapstructure:"auth_rate_limit"`
	AuthRateWindow time.Duration `mapstructure:"auth_rate_window"`
}

// Load builds a Config from defaults, an optional config.yml and
// TASKLIST_* environment variables.
func Load() (*Config, error) {
	// Optional .env for local development; missing file is fine.
	_ = godotenv.Load()

	v := viper.New()

	v.SetDefault("address", ":8080")
	v.SetDefault("database_path", "tasklist.db")
	v.SetDefault("jwt_secret", "")
	v.SetDefault("token_ttl", 7*24*time.Hour)
	v.SetDefault("bcrypt_cost", 0)
	v.SetDefault("log_level", "info")
	v.SetDefault("auth_rate_limit", 10)
	v.SetDefault("auth_rate_window", time.Minute)

	v.SetEnvPrefix("TASKLIST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the configuration for values the server cannot run with.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("TASKLIST_JWT_SECRET is required")
	}
	if len(c.JWTSecret) < MinSecretLen {
		return fmt.Errorf("jwt secret must be at least %d bytes, got %d", MinSecretLen, len(c.JWTSecret))
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("token_ttl must be positive, got %s", c.TokenTTL)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level: %q", c.LogLevel)
	}
	return nil
}

// SlogLevel maps the configured log level to a slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
