// Package config loads server configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the server needs to start.
type Config struct {
	// Port is the HTTP listen port.
	Port string

	// SQLiteDBPath is where ledger history is mirrored. Empty disables
	// persistence and the ledger lives in memory only.
	SQLiteDBPath string

	// CurrentUserName is the display name used when the database holds no
	// users yet and a current user has to be created.
	CurrentUserName string

	// DemoSeed loads a small demo dataset on first boot when true.
	DemoSeed bool

	// ShutdownTimeout bounds graceful shutdown on SIGINT/SIGTERM.
	ShutdownTimeout time.Duration
}

// Load reads configuration from the environment. A .env file is honored for
// local development and silently skipped when absent.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:            getEnv("PORT", "8080"),
		SQLiteDBPath:    getEnv("SQLITE_DB_PATH", "./data/divvy.db"),
		CurrentUserName: getEnv("CURRENT_USER_NAME", "You"),
		DemoSeed:        getEnvBool("DEMO_SEED", false),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

// Validate returns an error describing the first invalid setting found.
func (c *Config) Validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil {
		return fmt.Errorf("invalid port %q: must be a number", c.Port)
	}
	if port < 1 || port > 65535 {
		return fmt.Errorf("invalid port %d: must be between 1 and 65535", port)
	}
	if c.CurrentUserName == "" {
		return fmt.Errorf("current user name must not be empty")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}
