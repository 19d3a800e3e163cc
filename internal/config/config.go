// Package config resolves runtime settings from the environment and an
// optional .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Remote backend names.
const (
	RemoteNone      = "none"
	RemoteMemory    = "memory"
	RemoteFirestore = "firestore"
)

// Config holds all runtime configuration.
type Config struct {
	// DBDir is the directory holding per-user cache files. Empty means the
	// XDG data directory.
	DBDir string

	// UserID is the signed-in user. Commands that touch user data need it.
	UserID string

	// Remote selects the remote namespace backend.
	// Values: "none", "memory", "firestore"
	Remote string

	Firestore FirestoreConfig
	Log       LogConfig
	Reminder  ReminderConfig

	// MaxIntervalDays caps review intervals. Zero leaves them uncapped.
	MaxIntervalDays int
}

// FirestoreConfig holds Firestore-specific configuration.
type FirestoreConfig struct {
	ProjectID string

	// MaxAttempts bounds tries per call on transient failures. Default: 3.
	MaxAttempts int
}

// LogConfig selects the log level and handler.
type LogConfig struct {
	Level string // debug, info, warn, error
	Env   string // "dev" selects the colored console handler
}

// ReminderConfig configures the due-review reminder.
type ReminderConfig struct {
	Interval time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Remote: RemoteNone,
		Firestore: FirestoreConfig{
			MaxAttempts: 3,
		},
		Log: LogConfig{
			Level: "info",
		},
		Reminder: ReminderConfig{
			Interval: time.Hour,
		},
	}
}

// Load reads .env files (missing files are ignored) and then builds the
// config from the environment. Variables already set in the environment
// win over .env values.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return ConfigFromEnv()
}

// ConfigFromEnv builds a Config from environment variables, falling back
// to defaults for unset values.
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	if d := os.Getenv("VOCABULOUS_DB_DIR"); d != "" {
		cfg.DBDir = d
	}
	if u := os.Getenv("VOCABULOUS_USER"); u != "" {
		cfg.UserID = u
	}
	if r := os.Getenv("VOCABULOUS_REMOTE"); r != "" {
		cfg.Remote = strings.ToLower(r)
	}
	if p := os.Getenv("VOCABULOUS_FIRESTORE_PROJECT"); p != "" {
		cfg.Firestore.ProjectID = p
	}
	if v := os.Getenv("VOCABULOUS_FIRESTORE_MAX_ATTEMPTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("VOCABULOUS_FIRESTORE_MAX_ATTEMPTS: %w", err)
		}
		cfg.Firestore.MaxAttempts = n
	}
	if l := os.Getenv("VOCABULOUS_LOG_LEVEL"); l != "" {
		cfg.Log.Level = strings.ToLower(l)
	}
	if e := os.Getenv("VOCABULOUS_ENV"); e != "" {
		cfg.Log.Env = strings.ToLower(e)
	}

	if v := os.Getenv("VOCABULOUS_REMINDER_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("VOCABULOUS_REMINDER_INTERVAL: %w", err)
		}
		cfg.Reminder.Interval = d
	}
	if v := os.Getenv("VOCABULOUS_MAX_INTERVAL_DAYS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("VOCABULOUS_MAX_INTERVAL_DAYS: %w", err)
		}
		cfg.MaxIntervalDays = n
	}

	return cfg, nil
}

// Validate checks that the selected remote backend is usable.
func (c Config) Validate() error {
	switch c.Remote {
	case RemoteNone, RemoteMemory:
	case RemoteFirestore:
		if c.Firestore.ProjectID == "" {
			return fmt.Errorf("VOCABULOUS_FIRESTORE_PROJECT is required for the firestore remote")
		}
		if c.Firestore.MaxAttempts < 1 {
			return fmt.Errorf("firestore max attempts must be at least 1, got %d", c.Firestore.MaxAttempts)
		}
	default:
		return fmt.Errorf("unknown remote: %q", c.Remote)
	}
	if c.MaxIntervalDays < 0 {
		return fmt.Errorf("max interval days must not be negative, got %d", c.MaxIntervalDays)
	}
	if c.Reminder.Interval <= 0 {
		return fmt.Errorf("reminder interval must be positive, got %s", c.Reminder.Interval)
	}
	return nil
}
