// Package config loads server settings from the environment, optionally
// seeded by a .env file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DevJWTSecret is used when JWT_SECRET is unset and APP_ENV is "dev" or empty.
const DevJWTSecret = "dev-secret-change-me"

// Config holds every setting the server reads at startup.
type Config struct {
	Env            string
	Port           int
	DBPath         string
	JWTSecret      string
	TokenTTL       time.Duration
	LogLevel       slog.Level
	LogFormat      string
	CurrencyPlaces int32
}

// Load reads the given .env files (default ".env"; missing files are
// ignored) and then the process environment. Variables already set in the
// environment win over the files.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function such as os.Getenv.
func FromEnv(getenv func(string) string) (*Config, error) {
	get := func(key, fallback string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return fallback
	}

	cfg := &Config{
		Env:       get("APP_ENV", "dev"),
		DBPath:    get("DB_PATH", "./data/splitledger.db"),
		JWTSecret: get("JWT_SECRET", ""),
		LogFormat: strings.ToLower(get("LOG_FORMAT", "text")),
	}

	port, err := strconv.Atoi(get("PORT", "8080"))
	if err != nil || port <= 0 || port > 65535 {
		return nil, fmt.Errorf("invalid PORT %q", getenv("PORT"))
	}
	cfg.Port = port

	cfg.TokenTTL, err = time.ParseDuration(get("TOKEN_TTL", "24h"))
	if err != nil || cfg.TokenTTL <= 0 {
		return nil, fmt.Errorf("invalid TOKEN_TTL %q", getenv("TOKEN_TTL"))
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(get("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	switch cfg.LogFormat {
	case "text", "json":
	default:
		return nil, fmt.Errorf("invalid LOG_FORMAT %q (want text or json)", cfg.LogFormat)
	}

	places, err := strconv.ParseInt(get("CURRENCY_PLACES", "2"), 10, 32)
	if err != nil || places < 0 || places > 8 {
		return nil, fmt.Errorf("invalid CURRENCY_PLACES %q", getenv("CURRENCY_PLACES"))
	}
	cfg.CurrencyPlaces = int32(places)

	if cfg.JWTSecret == "" {
		if cfg.Env != "dev" {
			return nil, errors.New("JWT_SECRET is required outside dev")
		}
		cfg.JWTSecret = DevJWTSecret
	}

	return cfg, nil
}

// Addr is the listen address for Port.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
