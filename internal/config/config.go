// Package config loads service configuration from the environment.
package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds the runtime configuration for the server.
type Config struct {
	// Port is the TCP port the HTTP server listens on.
	Port string

	// DBPath is the SQLite database file path. Parent directories are
	// created on startup.
	DBPath string

	// StaticPath is the directory holding the frontend build.
	StaticPath string

	// LogLevel is one of debug, info, warn, error.
	LogLevel string
}

// Load reads configuration from the environment, after sourcing an
// optional .env file. Missing keys fall back to development defaults.
func Load() *Config {
	// A missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	return &Config{
		Port:       getEnv("PORT", "8080"),
		DBPath:     getEnv("DB_PATH", "./data/billbook.db"),
		StaticPath: getEnv("STATIC_PATH", "../frontend/dist"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
