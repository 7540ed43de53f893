package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// CommitPolicy decides whether an unconfirmed submission is written to the ledger
type CommitPolicy string

const (
	CommitOnUnknown     CommitPolicy = "commit_on_unknown"
	RequireAcknowledged CommitPolicy = "require_ack"
)

// Config holds all application configuration
type Config struct {
	BotToken       string
	KioskPIN       string
	BackendURL     string
	BackendTimeout time.Duration
	KioskFile      string
	Timezone       string
	PollInterval   time.Duration
	NoticeDelay    time.Duration
	IdleTimeout    time.Duration
	CommitPolicy   CommitPolicy
	HTTPAddr       string
	Database       DatabaseConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if not exists)
	_ = godotenv.Load()

	cfg := &Config{
		BotToken:   os.Getenv("BOT_TOKEN"),
		KioskPIN:   os.Getenv("KIOSK_PIN"),
		BackendURL: os.Getenv("BACKEND_URL"),
		KioskFile:  getEnv("KIOSK_CONFIG", "configs/kiosk.yaml"),
		Timezone:   getEnv("TIMEZONE", "Asia/Taipei"),
		HTTPAddr:   os.Getenv("HTTP_ADDR"),
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			Name:     getEnv("DB_NAME", "mealkiosk"),
			User:     getEnv("DB_USER", "mealkiosk"),
			Password: os.Getenv("DB_PASSWORD"),
		},
	}
	if _, set := os.LookupEnv("HTTP_ADDR"); !set {
		cfg.HTTPAddr = "127.0.0.1:8080"
	}

	// Validate required fields
	if cfg.BotToken == "" {
		return nil, fmt.Errorf("BOT_TOKEN is required")
	}
	if cfg.KioskPIN == "" {
		return nil, fmt.Errorf("KIOSK_PIN is required")
	}
	if cfg.BackendURL == "" {
		return nil, fmt.Errorf("BACKEND_URL is required")
	}
	if cfg.Database.Password == "" {
		return nil, fmt.Errorf("DB_PASSWORD is required")
	}

	var err error
	if cfg.PollInterval, err = getDuration("POLL_INTERVAL", 60*time.Second); err != nil {
		return nil, err
	}
	if cfg.NoticeDelay, err = getDuration("NOTICE_DELAY", 2*time.Second); err != nil {
		return nil, err
	}
	if cfg.IdleTimeout, err = getDuration("SESSION_IDLE_TIMEOUT", 30*time.Minute); err != nil {
		return nil, err
	}
	if cfg.BackendTimeout, err = getDuration("BACKEND_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}

	cfg.CommitPolicy = CommitPolicy(getEnv("COMMIT_POLICY", string(CommitOnUnknown)))
	if cfg.CommitPolicy != CommitOnUnknown && cfg.CommitPolicy != RequireAcknowledged {
		return nil, fmt.Errorf("COMMIT_POLICY must be %q or %q, got %q", CommitOnUnknown, RequireAcknowledged, cfg.CommitPolicy)
	}

	return cfg, nil
}

// Location resolves the kiosk's time zone
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// DSN returns PostgreSQL connection string
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive", key)
	}
	return d, nil
}
