// Package config loads process configuration from the environment.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the server needs to start.
type Config struct {
	// DBPath is the SQLite database file.
	DBPath string

	// ListenAddr is the HTTP listen address.
	ListenAddr string

	// JWTSecret signs session tokens. Required.
	JWTSecret string

	// TokenDuration is the session token lifetime.
	TokenDuration time.Duration

	// AdminKeyHash is the bcrypt hash of the operator key. Empty
	// disables the admin surface.
	AdminKeyHash string
}

// Load reads .env (if present) and the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file, using environment")
	}

	cfg := &Config{
		DBPath:       getEnv("DB_PATH", "./data/gameswap.db"),
		ListenAddr:   getEnv("LISTEN_ADDR", ":8080"),
		JWTSecret:    getEnv("JWT_SECRET", ""),
		AdminKeyHash: getEnv("ADMIN_KEY_HASH", ""),
	}

	dur, err := time.ParseDuration(getEnv("TOKEN_DURATION", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid TOKEN_DURATION: %w", err)
	}
	cfg.TokenDuration = dur

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

// getEnv returns the environment value or a fallback.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}
