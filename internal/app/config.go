package app

import (
	"errors"
	"os"
	"strconv"
	"time"
)

type Config struct {
	AccessSecret  string // Required in prod: HMAC secret for access tokens
	RefreshSecret string // Required in prod: HMAC secret for refresh tokens

	DatabaseFile        string        // Optional: path to SQLite database file (default: ./taskrail.db)
	ClientOrigin        string        // Optional: browser origin allowed by CORS (default: none)
	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

// Development fallback secrets. Prod refuses to start on these; Validate
// enforces it.
const (
	devAccessSecret  = "dev-access-secret-change-me"
	devRefreshSecret = "dev-refresh-secret-change-me"
)

func LoadConfig() Config {
	return Config{
		AccessSecret:        getEnvOrDefault("TASKRAIL_ACCESS_SECRET", devAccessSecret),
		RefreshSecret:       getEnvOrDefault("TASKRAIL_REFRESH_SECRET", devRefreshSecret),
		DatabaseFile:        getEnvOrDefault("TASKRAIL_DATABASE_FILE", "taskrail.db"),
		ClientOrigin:        os.Getenv("CLIENT_ORIGIN"),
		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}
}

// Validate rejects configurations that must never reach production: fallback
// signing secrets, or the same secret for both token kinds.
func (c Config) Validate() error {
	if c.Env == "prod" {
		if c.AccessSecret == devAccessSecret || c.RefreshSecret == devRefreshSecret {
			return errors.New("app: production requires TASKRAIL_ACCESS_SECRET and TASKRAIL_REFRESH_SECRET")
		}
	}
	if c.AccessSecret == c.RefreshSecret {
		return errors.New("app: access and refresh secrets must differ")
	}
	return nil
}

// SecureCookies reports whether the refresh cookie gets the Secure attribute.
// Local dev runs over plain HTTP, so only dev goes without it.
func (c Config) SecureCookies() bool {
	return c.Env != "dev"
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	return defaultValue
}
