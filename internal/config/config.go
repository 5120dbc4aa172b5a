package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"library-api/internal/infrastructure/database"
	"library-api/internal/shared/pagination"
)

// Config holds the whole application configuration, populated from
// environment variables
type Config struct {
	App        AppConfig
	Database   *database.DBConfig
	Redis      RedisConfig
	RateLimit  RateLimitConfig
	Pagination PaginationConfig
	CORS       CORSConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
	LogLevel    string
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Password string
	DB       int
}

type RateLimitConfig struct {
	Enabled  bool
	Requests int
	Window   time.Duration
}

type PaginationConfig struct {
	DefaultLimit int
	MinLimit     int
	MaxLimit     int
}

// Bounds converts the config into pagination bounds
func (p PaginationConfig) Bounds() pagination.Bounds {
	return pagination.Bounds{
		DefaultLimit: p.DefaultLimit,
		MinLimit:     p.MinLimit,
		MaxLimit:     p.MaxLimit,
	}
}

type CORSConfig struct {
	AllowedOrigins []string
}

// Load reads config from environment variables
func Load() (*Config, error) {
	dbCfg, err := LoadDatabaseConfig()
	if err != nil {
		return nil, err
	}

	window, err := getEnvDuration("RATE_LIMIT_WINDOW", "60s")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Library API"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "3000"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
		},
		Database: dbCfg,
		Redis: RedisConfig{
			Enabled:  getEnvBool("REDIS_ENABLED", false),
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		RateLimit: RateLimitConfig{
			Enabled:  getEnvBool("RATE_LIMIT_ENABLED", true),
			Requests: getEnvInt("RATE_LIMIT_REQUESTS", 10),
			Window:   window,
		},
		Pagination: PaginationConfig{
			DefaultLimit: getEnvInt("PAGINATION_DEFAULT_LIMIT", pagination.DefaultLimit),
			MinLimit:     getEnvInt("PAGINATION_MIN_LIMIT", pagination.DefaultMinLimit),
			MaxLimit:     getEnvInt("PAGINATION_MAX_LIMIT", pagination.DefaultMaxLimit),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(getEnv("CORS_ORIGIN", "*")),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks values that would otherwise fail at request time
func (c *Config) Validate() error {
	if _, err := strconv.Atoi(c.App.Port); err != nil {
		return fmt.Errorf("APP_PORT must be numeric, got %q", c.App.Port)
	}

	p := c.Pagination
	if p.MinLimit < 1 {
		return fmt.Errorf("PAGINATION_MIN_LIMIT must be at least 1")
	}
	if p.MaxLimit < p.MinLimit {
		return fmt.Errorf("PAGINATION_MAX_LIMIT (%d) must be >= PAGINATION_MIN_LIMIT (%d)", p.MaxLimit, p.MinLimit)
	}
	if p.DefaultLimit < p.MinLimit || p.DefaultLimit > p.MaxLimit {
		return fmt.Errorf("PAGINATION_DEFAULT_LIMIT (%d) must be within [%d, %d]", p.DefaultLimit, p.MinLimit, p.MaxLimit)
	}

	if c.RateLimit.Enabled {
		if c.RateLimit.Requests < 1 {
			return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1")
		}
		if c.RateLimit.Window <= 0 {
			return fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
		}
	}

	if c.App.Environment == "production" && c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD must be set in production")
	}

	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
