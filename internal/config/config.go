package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store backends
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
)

// Config holds all application configuration
type Config struct {
	BotToken     string
	BotPassword  string
	AdminIDs     []int64
	StoreBackend string
	RedisURL     string
	MetricsAddr  string
	StartTTL     time.Duration
	CallbackEdit bool
	Database     DatabaseConfig
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

	cfg, err := LoadStore()
	if err != nil {
		return nil, err
	}

	cfg.BotToken = os.Getenv("BOT_TOKEN")
	cfg.BotPassword = os.Getenv("BOT_PASSWORD")
	cfg.MetricsAddr = getEnv("METRICS_ADDR", ":9090")

	if cfg.BotToken == "" {
		return nil, fmt.Errorf("BOT_TOKEN is required")
	}

	if cfg.AdminIDs, err = parseIDs(os.Getenv("ADMIN_IDS")); err != nil {
		return nil, fmt.Errorf("ADMIN_IDS: %w", err)
	}

	if cfg.StartTTL, err = time.ParseDuration(getEnv("START_TTL", "0")); err != nil {
		return nil, fmt.Errorf("START_TTL: %w", err)
	}
	if cfg.StartTTL < 0 {
		return nil, fmt.Errorf("START_TTL must not be negative")
	}

	if cfg.CallbackEdit, err = strconv.ParseBool(getEnv("CALLBACK_EDIT", "false")); err != nil {
		return nil, fmt.Errorf("CALLBACK_EDIT: %w", err)
	}

	return cfg, nil
}

// LoadStore reads only the persistence settings. Used by gatectl, which
// never talks to Telegram.
func LoadStore() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		StoreBackend: getEnv("STORE_BACKEND", StorePostgres),
		RedisURL:     os.Getenv("REDIS_URL"),
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			Name:     getEnv("DB_NAME", "gatebot"),
			User:     getEnv("DB_USER", "gatebot"),
			Password: os.Getenv("DB_PASSWORD"),
		},
	}

	switch cfg.StoreBackend {
	case StorePostgres:
		if cfg.Database.Password == "" {
			return nil, fmt.Errorf("DB_PASSWORD is required")
		}
	case StoreRedis:
		if cfg.RedisURL == "" {
			return nil, fmt.Errorf("REDIS_URL is required")
		}
	case StoreMemory:
	default:
		return nil, fmt.Errorf("STORE_BACKEND must be one of %s, %s, %s", StoreMemory, StorePostgres, StoreRedis)
	}

	return cfg, nil
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

func parseIDs(raw string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid user id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
