package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Issuer        string // Optional: issuer claim for session tokens (default: molt-auth)
	SessionSecret string // Required: HMAC secret for session tokens (min 32 bytes)
	OPRFServerKey string // Required: hex scalar for OPRF evaluation

	SessionTTL           time.Duration // Optional: session token lifetime (default: 5m)
	MagicLinkTTL         time.Duration // Optional: magic link token lifetime (default: 30m)
	MagicLinkBaseURL     string        // Optional: base URL links point at (default: http://localhost:3000/verify)
	StoreDriver          string        // Optional: store driver (memory, sqlite, redis) (default: sqlite)
	DatabaseFile         string        // Optional: path to SQLite database file (default: ./molt-auth.db)
	RedisURL             string        // Optional: redis URL for the redis driver (default: redis://localhost:6379/0)
	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Expired token sweep interval (default: 1m)
}

func LoadConfig() Config {
	cfg := Config{
		Issuer:        getEnvOrDefault("AUTH_ISSUER", "molt-auth"),
		SessionSecret: os.Getenv("SESSION_SECRET"),  // Required: validated when the codec is built
		OPRFServerKey: os.Getenv("OPRF_SERVER_KEY"), // Required: validated when the evaluator is built

		SessionTTL:   getEnvDurationOrDefault("SESSION_TTL", 5*time.Minute),
		MagicLinkTTL: getEnvDurationOrDefault("MAGICLINK_TTL", 30*time.Minute),
		MagicLinkBaseURL: getEnvOrDefault(
			"MAGICLINK_BASE_URL",
			"http://localhost:3000/verify",
		), // Where the emailed link lands; the frontend extracts the token
		StoreDriver:          getEnvOrDefault("STORE_DRIVER", "sqlite"),
		DatabaseFile:         getEnvOrDefault("DATABASE_FILE", "molt-auth.db"),
		RedisURL:             getEnvOrDefault("REDIS_URL", "redis://localhost:6379/0"),
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Minute),
	}

	return cfg
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

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes (for backwards compatibility)
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
