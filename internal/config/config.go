package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config application configuration
type Config struct {
	// Database
	DatabasePath string `env:"DATABASE_PATH" envDefault:"./data/wizbank.db"`

	// Email
	IMAPDialTimeout time.Duration `env:"IMAP_DIAL_TIMEOUT" envDefault:"30s"`

	// Run defaults. These seed the settings table on first start and can be
	// changed there afterwards without touching the environment.
	LookbackDays int  `env:"LOOKBACK_DAYS" envDefault:"7"`
	UnreadOnly   bool `env:"UNREAD_ONLY" envDefault:"true"`
	MarkAsRead   bool `env:"MARK_AS_READ" envDefault:"true"`

	// Security. Key takes priority over passphrase; with neither set the
	// vault runs in pass-through mode.
	EncryptionKey string `env:"WIZBANK_KEY_B64"`    // urlsafe base64, 32 raw bytes
	Passphrase    string `env:"WIZBANK_PASSPHRASE"` // derived via PBKDF2 when no key

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"` // "json" or "text"
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.LookbackDays < 1 {
		return nil, fmt.Errorf("LOOKBACK_DAYS must be at least 1, got %d", cfg.LookbackDays)
	}

	return cfg, nil
}
