package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/kirillov6/chanscope/internal/constants"
)

type Config struct {
	YouTube YouTubeConfig
	Quota   QuotaConfig
	Redis   RedisConfig
	State   StateConfig
	Logging LoggingConfig
}

type YouTubeConfig struct {
	APIKey             string
	MinRequestInterval time.Duration
	ScrapeFallback     bool
}

type QuotaConfig struct {
	DailyLimit   int
	SafetyMargin int
	HardLimit    bool
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// StateConfig points at the directory holding the day-keyed quota record.
// An empty Dir keeps the ledger in memory only.
type StateConfig struct {
	Dir string
}

type LoggingConfig struct {
	Level string
	File  string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		YouTube: YouTubeConfig{
			APIKey:             getEnv("YOUTUBE_API_KEY", ""),
			MinRequestInterval: time.Duration(getEnvInt("MIN_REQUEST_INTERVAL_MS", 1000)) * time.Millisecond,
			ScrapeFallback:     getEnvBool("SCRAPE_FALLBACK", true),
		},
		Quota: QuotaConfig{
			DailyLimit:   getEnvInt("QUOTA_DAILY_LIMIT", constants.QuotaDefaults.DailyLimit),
			SafetyMargin: getEnvInt("QUOTA_SAFETY_MARGIN", constants.QuotaDefaults.SafetyMargin),
			HardLimit:    getEnvBool("QUOTA_HARD_LIMIT", false),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", ""),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		State: StateConfig{
			Dir: getEnv("STATE_DIR", "data"),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			File:  getEnv("LOG_FILE", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.YouTube.APIKey == "" {
		return fmt.Errorf("YOUTUBE_API_KEY is required")
	}
	if c.Quota.DailyLimit <= 0 {
		return fmt.Errorf("QUOTA_DAILY_LIMIT must be positive")
	}
	if c.Quota.SafetyMargin < 0 || c.Quota.SafetyMargin >= c.Quota.DailyLimit {
		return fmt.Errorf("QUOTA_SAFETY_MARGIN must be in [0, daily limit)")
	}
	if c.YouTube.MinRequestInterval < 0 {
		return fmt.Errorf("MIN_REQUEST_INTERVAL_MS must not be negative")
	}
	return nil
}

// CacheEnabled reports whether a Redis host was configured.
func (c *Config) CacheEnabled() bool {
	return c.Redis.Host != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
