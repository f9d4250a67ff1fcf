package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the mailcheck server.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Verify   VerifyConfig
}

type ServerConfig struct {
	Port int
	Env  string
}

// DatabaseConfig selects the job store backend. An empty URL means the
// in-memory store; jobs then live only for the process lifetime.
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig is optional. Without Redis the rate limiter is disabled
// and the job-summary fast path is skipped.
type RedisConfig struct {
	URL string
}

type VerifyConfig struct {
	Workers           int
	CheckTimeout      time.Duration
	MaxBatchSize      int
	RequestsPerMinute int
}

// Load reads configuration from environment variables and returns a validated Config.
// Returns an error with a descriptive message if any value is invalid.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: envInt("MAILCHECK_PORT", 8080),
			Env:  envString("MAILCHECK_ENV", "development"),
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    envInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    envInt("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: envDuration("DATABASE_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			URL: os.Getenv("REDIS_URL"),
		},
		Verify: VerifyConfig{
			Workers:           envInt("VERIFY_WORKERS", 8),
			CheckTimeout:      envDuration("VERIFY_CHECK_TIMEOUT", 5*time.Second),
			MaxBatchSize:      envInt("VERIFY_MAX_BATCH_SIZE", 10000),
			RequestsPerMinute: envInt("RATE_LIMIT_PER_MINUTE", 60),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("MAILCHECK_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}

	if c.Database.URL != "" && !strings.HasPrefix(c.Database.URL, "postgres://") && !strings.HasPrefix(c.Database.URL, "postgresql://") {
		return fmt.Errorf("DATABASE_URL must start with postgres:// or postgresql://, got %q", c.Database.URL)
	}

	if c.Redis.URL != "" && !strings.HasPrefix(c.Redis.URL, "redis://") && !strings.HasPrefix(c.Redis.URL, "rediss://") {
		return fmt.Errorf("REDIS_URL must start with redis:// or rediss://, got %q", c.Redis.URL)
	}

	if c.Verify.Workers < 1 || c.Verify.Workers > 128 {
		return fmt.Errorf("VERIFY_WORKERS must be between 1 and 128, got %d", c.Verify.Workers)
	}

	if c.Verify.MaxBatchSize < 1 {
		return fmt.Errorf("VERIFY_MAX_BATCH_SIZE must be at least 1, got %d", c.Verify.MaxBatchSize)
	}

	return nil
}

func envString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func envDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
