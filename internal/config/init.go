package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds everything read from the environment (and an optional .env file).
type Config struct {
	Env           string
	Port          string
	DBDriver      string
	DBDSN         string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	JWTSecret     string
	SessionTTL    time.Duration
	PageSize      int
}

// Load reads .env when present and resolves the configuration with defaults.
func Load() (*Config, error) {
	// a missing .env is fine, the environment wins anyway
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_PORT", "8000")
	v.SetDefault("DB_DRIVER", "mysql")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("SESSION_TTL", "24h")
	v.SetDefault("PAGE_SIZE", 10)

	cfg := &Config{
		Env:           v.GetString("APP_ENV"),
		Port:          v.GetString("APP_PORT"),
		DBDriver:      strings.ToLower(v.GetString("DB_DRIVER")),
		DBDSN:         v.GetString("DB_DSN"),
		RedisAddr:     v.GetString("REDIS_ADDR"),
		RedisPassword: v.GetString("REDIS_PASSWORD"),
		RedisDB:       v.GetInt("REDIS_DB"),
		JWTSecret:     v.GetString("JWT_SECRET"),
		SessionTTL:    v.GetDuration("SESSION_TTL"),
		PageSize:      v.GetInt("PAGE_SIZE"),
	}

	if cfg.DBDSN == "" {
		return nil, errors.New("DB_DSN is not set")
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 10
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 24 * time.Hour
	}
	return cfg, nil
}

// RequireServe checks the settings only the HTTP server needs.
func (c *Config) RequireServe() error {
	if c.RedisAddr == "" {
		return errors.New("REDIS_ADDR is not set")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is not set")
	}
	return nil
}
