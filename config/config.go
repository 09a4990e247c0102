// Package config loads all runtime configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration. It is loaded once in main
// and passed explicitly to the components that need it.
type Config struct {
	// DatabaseURL is the Postgres connection string.
	DatabaseURL string

	// SecretKey signs access tokens. Required.
	SecretKey string
	// Algorithm is the JWT signing algorithm (HS256, HS384 or HS512).
	Algorithm string
	// AccessTokenTTL is the lifetime of issued access tokens.
	AccessTokenTTL time.Duration

	// BaseURL prefixes returned asset links (uploaded images).
	BaseURL string
	// StaticDir is the local directory served under /static.
	StaticDir string

	Port string

	// LiveNATSPort is the port of the embedded NATS server backing the
	// live event feed.
	LiveNATSPort int
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	secret := os.Getenv("SECRET_KEY")
	if secret == "" {
		return nil, fmt.Errorf("SECRET_KEY environment variable is not set")
	}

	cfg := &Config{
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		SecretKey:      secret,
		Algorithm:      getEnv("ALGORITHM", "HS256"),
		AccessTokenTTL: time.Duration(getEnvInt("ACCESS_TOKEN_EXPIRE_MINUTES", 30)) * time.Minute,
		BaseURL:        getEnv("BASE_URL", "http://127.0.0.1:8000"),
		StaticDir:      getEnv("STATIC_DIR", "static"),
		Port:           getEnv("PORT", "8000"),
		LiveNATSPort:   getEnvInt("LIVE_NATS_PORT", 4233),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	switch cfg.Algorithm {
	case "HS256", "HS384", "HS512":
	default:
		return nil, fmt.Errorf("unsupported signing algorithm %q", cfg.Algorithm)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
