package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds service configuration.
type Config struct {
	DatabaseURL   string
	ServerAddr    string
	MigrationsDir string

	// ExpiryDuration is how long a confirmed accreditation may sit untouched
	// before it expires.
	ExpiryDuration time.Duration
	// ExpiryPollInterval is how often an armed expiry timer re-checks its
	// record.
	ExpiryPollInterval time.Duration

	DispatchMaxRetries   int
	DispatchRetryBackoff time.Duration
}

// Load reads configuration from environment.
func Load() (*Config, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		user := getenv("POSTGRES_USER", "accreditation")
		pass := getenv("POSTGRES_PASSWORD", "accreditation_pass")
		db := getenv("POSTGRES_DB", "accreditation")
		host := getenv("POSTGRES_HOST", "localhost")
		port := getenv("POSTGRES_PORT", "5432")
		sslmode := getenv("DATABASE_SSLMODE", "disable")
		dsn = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", user, pass, host, port, db, sslmode)
	}
	addr := getenv("SERVER_ADDR", "0.0.0.0:8080")
	migrationsDir := getenv("MIGRATIONS_DIR", "internal/migrations")
	expiry := parseDuration(getenv("ACCREDITATION_EXPIRY", "720h"), 720*time.Hour)
	poll := parseDuration(getenv("EXPIRY_POLL_INTERVAL", "1m"), time.Minute)
	maxRetries := parseInt(getenv("DISPATCH_MAX_RETRIES", "3"), 3)
	backoff := parseDuration(getenv("DISPATCH_RETRY_BACKOFF", "1s"), time.Second)

	return &Config{
		DatabaseURL:          dsn,
		ServerAddr:           addr,
		MigrationsDir:        migrationsDir,
		ExpiryDuration:       expiry,
		ExpiryPollInterval:   poll,
		DispatchMaxRetries:   maxRetries,
		DispatchRetryBackoff: backoff,
	}, nil
}

func getenv(key, def string) string {
	val := os.Getenv(key)
	if val == "" {
		return def
	}
	return val
}

func parseDuration(val string, def time.Duration) time.Duration {
	if val == "" {
		return def
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return def
	}
	return d
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return def
	}
	return n
}
