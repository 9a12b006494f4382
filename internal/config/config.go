package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	// Storage
	DBDriver    string `env:"DB_DRIVER" envDefault:"sqlite"` // sqlite, postgres
	SQLitePath  string `env:"SQLITE_PATH" envDefault:"./data/ecoscan.db"`
	DatabaseURL string `env:"DATABASE_URL"`
	SessionPath string `env:"WA_SESSION_PATH" envDefault:"./data/whatsapp.db"`
	SeedCatalog bool   `env:"SEED_CATALOG" envDefault:"true"`

	// WhatsApp
	WAEnabled       bool   `env:"WA_ENABLED" envDefault:"true"`
	GroupID         string `env:"GROUP_ID"`
	BotPhone        string `env:"BOT_PHONE"`
	ReplyDelayMinMs int    `env:"REPLY_DELAY_MIN_MS" envDefault:"0"` // Minimum delay before reply (milliseconds)
	ReplyDelayMaxMs int    `env:"REPLY_DELAY_MAX_MS" envDefault:"0"` // Maximum delay before reply (milliseconds), 0 = use min as fixed
	ShowTyping      bool   `env:"SHOW_TYPING" envDefault:"false"`    // Show typing indicator during delay

	// HTTP
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`

	// Points & leaderboard
	Timezone         string `env:"TIMEZONE" envDefault:"Local"`
	LeaderboardLimit int    `env:"LEADERBOARD_LIMIT" envDefault:"20"`
	RecapEnabled     bool   `env:"RECAP_ENABLED" envDefault:"false"`
	RecapTime        string `env:"RECAP_TIME" envDefault:"20:00"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"console"`
}

func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using defaults/environment variables")
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.DBDriver {
	case "sqlite":
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when DB_DRIVER=postgres")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.RecapEnabled {
		if _, _, err := c.RecapClock(); err != nil {
			return err
		}
	}
	return nil
}

// Location resolves TIMEZONE; "Local" or empty means the process zone.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// RecapClock parses RECAP_TIME as HH:MM.
func (c Config) RecapClock() (hour, minute uint, err error) {
	t, err := time.Parse("15:04", strings.TrimSpace(c.RecapTime))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid RECAP_TIME %q: %w", c.RecapTime, err)
	}
	return uint(t.Hour()), uint(t.Minute()), nil
}
