package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendSQLite = "sqlite"
	BackendBolt   = "bolt"
)

// Config keeps runtime settings for the tracker.
type Config struct {
	TelegramToken  string
	OwnerChatID    int64
	StorageBackend string
	DatabaseURL    string
	BoltPath       string
	StorageKey     string
	Location       *time.Location
	BackupDir      string
	BackupAt       string
	BackupInterval time.Duration
	LogLevel       string
}

// Load reads configuration from environment variables with sane defaults.
// A .env file in the working directory is applied first when present.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromLookup(os.Getenv)
}

// FromLookup builds a Config from an arbitrary variable source.
func FromLookup(getenv func(string) string) (Config, error) {
	get := func(key string) string { return strings.TrimSpace(getenv(key)) }

	cfg := Config{
		TelegramToken:  get("TELEGRAM_TOKEN"),
		StorageBackend: strings.ToLower(get("STORAGE_BACKEND")),
		DatabaseURL:    get("DATABASE_URL"),
		BoltPath:       get("BOLT_PATH"),
		StorageKey:     get("STORAGE_KEY"),
		BackupDir:      get("BACKUP_DIR"),
		BackupAt:       get("BACKUP_AT"),
		BackupInterval: parseInterval(get("BACKUP_INTERVAL_HOURS")),
		LogLevel:       get("LOG_LEVEL"),
	}

	if cfg.StorageBackend == "" {
		cfg.StorageBackend = BackendSQLite
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "deadline_tracker.db"
	}
	if cfg.BoltPath == "" {
		cfg.BoltPath = "deadline_tracker.bolt"
	}
	if cfg.StorageKey == "" {
		cfg.StorageKey = "college-deadlines"
	}
	if cfg.BackupInterval == 0 {
		cfg.BackupInterval = 24 * time.Hour
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	tz := get("TIMEZONE")
	if tz == "" {
		tz = "Local"
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return cfg, fmt.Errorf("load timezone %q: %w", tz, err)
	}
	cfg.Location = loc

	if raw := get("OWNER_CHAT_ID"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("OWNER_CHAT_ID must be an integer: %w", err)
		}
		cfg.OwnerChatID = id
	}

	switch cfg.StorageBackend {
	case BackendSQLite, BackendBolt:
	default:
		return cfg, fmt.Errorf("unknown STORAGE_BACKEND %q", cfg.StorageBackend)
	}

	if cfg.TelegramToken == "" {
		return cfg, fmt.Errorf("TELEGRAM_TOKEN is required")
	}

	return cfg, nil
}

func parseInterval(raw string) time.Duration {
	if raw == "" {
		return 0
	}
	hours, err := time.ParseDuration(raw + "h")
	if err != nil || hours <= 0 {
		return 0
	}
	return hours
}
