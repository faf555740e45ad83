package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all client configuration.
type Config struct {
	PortalURL    string
	LogLevel     string
	LogFormat    string
	HTTPTimeout  time.Duration
	JournalPath  string
	PollInterval time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
// It loads .env file if present but does not fail if missing.
func Load() *Config {
	_ = godotenv.Load() // .env is optional

	return &Config{
		PortalURL:    getEnv("PORTAL_URL", "http://localhost:8080/api"),
		LogLevel:     getEnv("LOG_LEVEL", "warn"),
		LogFormat:    getEnv("LOG_FORMAT", "pretty"),
		HTTPTimeout:  time.Duration(getEnvInt("HTTP_TIMEOUT_SECONDS", 10)) * time.Second,
		JournalPath:  getEnv("JOURNAL_PATH", defaultJournalPath()),
		PollInterval: time.Duration(getEnvInt("NOTIFY_POLL_SECONDS", 30)) * time.Second,
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// defaultJournalPath places the attempt journal under the user's home
// directory, falling back to the working directory when HOME is unset.
func defaultJournalPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "examterm.db"
	}
	return filepath.Join(home, ".examterm", "journal.db")
}
