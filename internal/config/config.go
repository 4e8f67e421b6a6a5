package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration
type Config struct {
	// API-Football
	APIFootballKey     string        `envconfig:"API_FOOTBALL_KEY"`
	APIFootballBaseURL string        `envconfig:"API_FOOTBALL_BASE_URL" default:"https://v3.football.api-sports.io"`
	APIFootballHost    string        `envconfig:"API_FOOTBALL_HOST" default:"v3.football.api-sports.io"`
	APIFootballTimeout time.Duration `envconfig:"API_FOOTBALL_TIMEOUT" default:"30s"`

	// Database
	// DATABASE_URL wins over the discrete fields when set (hosted Postgres hands out URLs).
	DatabaseURL      string `envconfig:"DATABASE_URL"`
	DatabaseHost     string `envconfig:"DATABASE_HOST" default:"localhost"`
	DatabasePort     int    `envconfig:"DATABASE_PORT" default:"5432"`
	DatabaseName     string `envconfig:"DATABASE_NAME" default:"partidos"`
	DatabaseUser     string `envconfig:"DATABASE_USER" default:"partidos"`
	DatabasePassword string `envconfig:"DATABASE_PASSWORD"`
	DatabaseSSLMode  string `envconfig:"DATABASE_SSL_MODE" default:"disable"`

	// Redis
	RedisHost     string `envconfig:"REDIS_HOST" default:"localhost"`
	RedisPort     int    `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	// Application
	AppEnv   string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Scheduler
	EnableScheduler    bool   `envconfig:"ENABLE_SCHEDULER" default:"true"`
	InitialSyncEnabled bool   `envconfig:"INITIAL_SYNC_ENABLED" default:"true"`
	FixtureSyncCron    string `envconfig:"FIXTURE_SYNC_CRON" default:"0 3 * * *"`
	ScoreRefreshCron   string `envconfig:"SCORE_REFRESH_CRON" default:"*/15 * * * *"`

	// Caching
	CacheTTLLineups time.Duration `envconfig:"CACHE_TTL_LINEUPS" default:"10m"`
	CacheTTLReport  time.Duration `envconfig:"CACHE_TTL_REPORT" default:"24h"`

	// Monitoring
	EnableMetrics bool `envconfig:"ENABLE_METRICS" default:"true"`
	MetricsPort   int  `envconfig:"METRICS_PORT" default:"9090"`
}

// Load loads configuration from environment variables
// It first attempts to load from .env file if in development mode
func Load() (*Config, error) {
	// Try to load .env file (ignore error if doesn't exist)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate validates the configuration every command needs
func (c *Config) Validate() error {
	if c.DatabaseURL == "" && c.DatabasePassword == "" {
		return fmt.Errorf("DATABASE_PASSWORD is required when DATABASE_URL is not set")
	}

	if c.DatabaseURL == "" && c.DatabasePort <= 0 {
		return fmt.Errorf("DATABASE_PORT must be positive")
	}

	return nil
}

// RequireProvider checks the settings needed to talk to API-Football.
// Table-only commands (list, clear, seed, migrate) run without a key.
func (c *Config) RequireProvider() error {
	if c.APIFootballKey == "" {
		return fmt.Errorf("API_FOOTBALL_KEY is required")
	}
	if c.APIFootballBaseURL == "" {
		return fmt.Errorf("API_FOOTBALL_BASE_URL is required")
	}
	return nil
}

// DatabaseDSN returns the PostgreSQL connection URL
func (c *Config) DatabaseDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DatabaseUser,
		c.DatabasePassword,
		c.DatabaseHost,
		c.DatabasePort,
		c.DatabaseName,
		c.DatabaseSSLMode,
	)
}

// RedisAddr returns the Redis address
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// MustLoad loads configuration or exits on error
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	return cfg
}
