package config

import (
	"net"
	"net/url"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/cattyman919/contact/app/utils/errors"
)

// Config holds all configuration for the contact service
type Config struct {
	// Server
	Port            string        `env:"PORT" default:"9600"`
	Host            string        `env:"HOST" default:"0.0.0.0"`
	LogLevel        string        `env:"LOG_LEVEL" default:"info"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" default:"10s"`

	// Database
	DatabaseURL      string `env:"DATABASE_URL"`
	DatabaseHost     string `env:"DB_HOST" default:"localhost"`
	DatabasePort     string `env:"DB_PORT" default:"5432"`
	DatabaseName     string `env:"DB_NAME" default:"contacts"`
	DatabaseUser     string `env:"DB_USER" default:"contacts_user"`
	DatabasePassword string `env:"DB_PASSWORD" required:"true"`
	DatabaseSSLMode  string `env:"DB_SSL_MODE" default:"disable"`
	DatabaseMaxConns int32  `env:"DB_MAX_CONNS" default:"25"`
	DatabaseMinConns int32  `env:"DB_MIN_CONNS" default:"5"`

	// Pagination
	PaginationDefaultLimit int `env:"PAGINATION_DEFAULT_LIMIT" default:"10"`
	PaginationMaxLimit     int `env:"PAGINATION_MAX_LIMIT" default:"100"`

	// HTTP protection
	RateLimitRPS     float64  `env:"RATE_LIMIT_RPS" default:"20"`
	RateLimitBurst   int      `env:"RATE_LIMIT_BURST" default:"40"`
	CORSAllowOrigins []string `env:"CORS_ALLOW_ORIGINS" default:"http://localhost:4200"`

	// Observability
	EnableMetrics   bool    `env:"ENABLE_METRICS" default:"true"`
	OTelEnabled     bool    `env:"OTEL_ENABLED" default:"false"`
	OTelServiceName string  `env:"OTEL_SERVICE_NAME" default:"contact-service"`
	OTelEndpoint    string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" default:"http://localhost:4318"`
	OTelSampleRatio float64 `env:"OTEL_TRACE_SAMPLE_RATIO" default:"1.0"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	config := &Config{}
	var err error

	// Server configuration
	config.Port = getEnvOrDefault("PORT", "9600")
	config.Host = getEnvOrDefault("HOST", "0.0.0.0")
	config.LogLevel = getEnvOrDefault("LOG_LEVEL", "info")
	config.ShutdownTimeout, err = time.ParseDuration(getEnvOrDefault("SHUTDOWN_TIMEOUT", "10s"))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeConfigError, "invalid SHUTDOWN_TIMEOUT", err)
	}

	// Database configuration
	config.DatabaseURL = os.Getenv("DATABASE_URL")
	config.DatabaseHost = getEnvOrDefault("DB_HOST", "localhost")
	config.DatabasePort = getEnvOrDefault("DB_PORT", "5432")
	config.DatabaseName = getEnvOrDefault("DB_NAME", "contacts")
	config.DatabaseUser = getEnvOrDefault("DB_USER", "contacts_user")
	config.DatabasePassword = os.Getenv("DB_PASSWORD")
	if config.DatabasePassword == "" && config.DatabaseURL == "" {
		return nil, apperrors.New(apperrors.ErrCodeConfigError, "DB_PASSWORD is required")
	}
	config.DatabaseSSLMode = getEnvOrDefault("DB_SSL_MODE", "disable")

	maxConns, err := getIntEnv("DB_MAX_CONNS", 25)
	if err != nil {
		return nil, err
	}
	minConns, err := getIntEnv("DB_MIN_CONNS", 5)
	if err != nil {
		return nil, err
	}
	config.DatabaseMaxConns = int32(maxConns)
	config.DatabaseMinConns = int32(minConns)

	// Pagination configuration
	if config.PaginationDefaultLimit, err = getIntEnv("PAGINATION_DEFAULT_LIMIT", 10); err != nil {
		return nil, err
	}
	if config.PaginationMaxLimit, err = getIntEnv("PAGINATION_MAX_LIMIT", 100); err != nil {
		return nil, err
	}

	// HTTP protection
	if config.RateLimitRPS, err = getFloatEnv("RATE_LIMIT_RPS", 20); err != nil {
		return nil, err
	}
	if config.RateLimitBurst, err = getIntEnv("RATE_LIMIT_BURST", 40); err != nil {
		return nil, err
	}
	config.CORSAllowOrigins = getListEnv("CORS_ALLOW_ORIGINS", []string{"http://localhost:4200"})

	// Observability
	config.EnableMetrics = getBoolEnv("ENABLE_METRICS", true)
	config.OTelEnabled = getBoolEnv("OTEL_ENABLED", false)
	config.OTelServiceName = getEnvOrDefault("OTEL_SERVICE_NAME", "contact-service")
	config.OTelEndpoint = getEnvOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "http://localhost:4318")
	if config.OTelSampleRatio, err = getFloatEnv("OTEL_TRACE_SAMPLE_RATIO", 1.0); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeConfigError, "configuration validation failed", err)
	}

	return config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil {
		return apperrors.Newf(apperrors.ErrCodeConfigError, "invalid port: %s", c.Port)
	}
	if port < 1 || port > 65535 {
		return apperrors.Newf(apperrors.ErrCodeConfigError, "port must be between 1 and 65535: %s", c.Port)
	}

	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !slices.Contains(validLogLevels, strings.ToLower(c.LogLevel)) {
		return apperrors.Newf(apperrors.ErrCodeConfigError, "invalid log level: %s (must be one of: %s)", c.LogLevel, strings.Join(validLogLevels, ", "))
	}

	if c.DatabaseMaxConns < 1 {
		return apperrors.Newf(apperrors.ErrCodeConfigError, "DB_MAX_CONNS must be at least 1, got: %d", c.DatabaseMaxConns)
	}
	if c.DatabaseMinConns < 0 || c.DatabaseMinConns > c.DatabaseMaxConns {
		return apperrors.Newf(apperrors.ErrCodeConfigError, "DB_MIN_CONNS must be between 0 and DB_MAX_CONNS, got: %d", c.DatabaseMinConns)
	}

	if c.PaginationMaxLimit < 1 {
		return apperrors.Newf(apperrors.ErrCodeConfigError, "PAGINATION_MAX_LIMIT must be at least 1, got: %d", c.PaginationMaxLimit)
	}
	if c.PaginationDefaultLimit < 1 || c.PaginationDefaultLimit > c.PaginationMaxLimit {
		return apperrors.Newf(apperrors.ErrCodeConfigError, "PAGINATION_DEFAULT_LIMIT must be between 1 and %d, got: %d", c.PaginationMaxLimit, c.PaginationDefaultLimit)
	}

	if c.RateLimitRPS <= 0 {
		return apperrors.Newf(apperrors.ErrCodeConfigError, "RATE_LIMIT_RPS must be positive, got: %v", c.RateLimitRPS)
	}
	if c.RateLimitBurst < 1 {
		return apperrors.Newf(apperrors.ErrCodeConfigError, "RATE_LIMIT_BURST must be at least 1, got: %d", c.RateLimitBurst)
	}

	if c.OTelSampleRatio < 0 || c.OTelSampleRatio > 1 {
		return apperrors.Newf(apperrors.ErrCodeConfigError, "OTEL_TRACE_SAMPLE_RATIO must be between 0 and 1, got: %v", c.OTelSampleRatio)
	}

	if c.ShutdownTimeout < time.Second {
		return apperrors.Newf(apperrors.ErrCodeConfigError, "shutdown timeout must be at least 1 second, got: %v", c.ShutdownTimeout)
	}

	return nil
}

// Address returns the listen address of the HTTP server
func (c *Config) Address() string {
	return c.Host + ":" + c.Port
}

// DSN returns the PostgreSQL connection string.
// DATABASE_URL wins over the individual DB_* settings.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DatabaseUser, c.DatabasePassword),
		Host:     net.JoinHostPort(c.DatabaseHost, c.DatabasePort),
		Path:     "/" + c.DatabaseName,
		RawQuery: url.Values{"sslmode": {c.DatabaseSSLMode}}.Encode(),
	}
	return dsn.String()
}

// Helper functions

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, apperrors.Wrapf(apperrors.ErrCodeConfigError, err, "invalid %s", key)
	}
	return parsed, nil
}

func getFloatEnv(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, apperrors.Wrapf(apperrors.ErrCodeConfigError, err, "invalid %s", key)
	}
	return parsed, nil
}

func getListEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
