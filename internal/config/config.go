// Package config loads the service configuration from the environment,
// with optional .env support for local runs.
package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the server needs at startup.
type Config struct {
	Port     string
	APIToken string

	XRPLWebsocketURL string
	XRPScanAPIURL    string

	LogLevel string

	// WindowDays and PageLimit are the analysis defaults applied when a
	// request does not override them.
	WindowDays int
	PageLimit  int

	DialTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// Load reads the configuration. Absent variables fall back to defaults
// suitable for a local run against the public mainnet cluster.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file loaded, relying on environment:", err)
	}

	return &Config{
		Port:             getEnv("PORT", "8080"),
		APIToken:         getEnv("API_TOKEN", "dev-token"),
		XRPLWebsocketURL: getEnv("XRPL_WS_URL", "wss://xrplcluster.com"),
		XRPScanAPIURL:    getEnv("XRPSCAN_API_URL", "https://api.xrpscan.com/api/v1"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		WindowDays:       getEnvInt("WINDOW_DAYS", 7),
		PageLimit:        getEnvInt("PAGE_LIMIT", 200),
		DialTimeout:      getEnvDuration("DIAL_TIMEOUT", 15*time.Second),
		ShutdownTimeout:  getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("invalid %s=%q, using default %d", key, raw, fallback)
		return fallback
	}
	return value
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("invalid %s=%q, using default %s", key, raw, fallback)
		return fallback
	}
	return value
}
