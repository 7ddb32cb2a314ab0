package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Storage drivers
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Analytics backends
const (
	AnalyticsTinybird = "tinybird"
	AnalyticsPostgres = "postgres"
)

// Config holds all application configuration, loaded from the environment
type Config struct {
	// Server Configuration
	Environment string
	ServerPort  string

	// Storage
	StorageDriver string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSSLMode     string

	// Redis configuration
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	CacheTTL        time.Duration // slug resolution entries
	MetricsCacheTTL time.Duration // aggregated metrics, 0 disables

	// HTTP settings
	RateLimitPerMinute int
	CORSAllowedOrigins []string
	RequestTimeout     time.Duration

	// Identity
	AuthJWTSecret string

	// Analytics pipeline
	AnalyticsBackend    string
	AnalyticsWindowDays int
	TinybirdHost        string
	TinybirdToken       string
	TinybirdDatasource  string
	TinybirdClicksPipe  string
	SinkTimeout         time.Duration
	SinkMaxInflight     int
	KafkaBrokers        []string
	KafkaTopic          string

	// Geolocation
	GeoIPDBPath       string
	TrustedGeoHeaders bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		ServerPort:  getEnv("SERVER_PORT", "8081"),

		StorageDriver: getEnv("STORAGE_DRIVER", StoragePostgres),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "5432"),
		DBUser:        getEnv("DB_USER", "postgres"),
		DBPassword:    getEnv("DB_PASSWORD", ""),
		DBName:        getEnv("DB_NAME", "linkbio"),
		DBSSLMode:     getEnv("DB_SSL_MODE", "disable"),

		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		RedisDB:         getEnvAsInt("REDIS_DB", 0),
		CacheTTL:        time.Duration(getEnvAsInt("CACHE_TTL_SECONDS", 300)) * time.Second,
		MetricsCacheTTL: time.Duration(getEnvAsInt("METRICS_CACHE_TTL_SECONDS", 60)) * time.Second,

		RateLimitPerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 120),
		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", nil),
		RequestTimeout:     time.Duration(getEnvAsInt("REQUEST_TIMEOUT_SECONDS", 10)) * time.Second,

		AuthJWTSecret: getEnv("AUTH_JWT_SECRET", ""),

		AnalyticsBackend:    getEnv("ANALYTICS_BACKEND", AnalyticsTinybird),
		AnalyticsWindowDays: getEnvAsInt("ANALYTICS_WINDOW_DAYS", 30),
		TinybirdHost:        strings.TrimSuffix(getEnv("TINYBIRD_HOST", ""), "/"),
		TinybirdToken:       getEnv("TINYBIRD_TOKEN", ""),
		TinybirdDatasource:  getEnv("TINYBIRD_DATASOURCE", "link_clicks"),
		TinybirdClicksPipe:  getEnv("TINYBIRD_CLICKS_PIPE", "owner_clicks"),
		SinkTimeout:         time.Duration(getEnvAsInt("SINK_TIMEOUT_MS", 3000)) * time.Millisecond,
		SinkMaxInflight:     getEnvAsInt("SINK_MAX_INFLIGHT", 64),
		KafkaBrokers:        getEnvAsList("KAFKA_BROKERS", nil),
		KafkaTopic:          getEnv("KAFKA_TOPIC", "link_clicks"),

		GeoIPDBPath:       getEnv("GEOIP_DB_PATH", ""),
		TrustedGeoHeaders: getEnvAsBool("TRUSTED_GEO_HEADERS", true),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if all required configuration is present and valid
func (c *Config) Validate() error {
	if c.Environment == "production" && c.StorageDriver == StoragePostgres && c.DBPassword == "" {
		return fmt.Errorf("DB_PASSWORD is required in production")
	}

	switch c.StorageDriver {
	case StoragePostgres, StorageMemory:
	default:
		return fmt.Errorf("STORAGE_DRIVER must be %q or %q, got %q", StoragePostgres, StorageMemory, c.StorageDriver)
	}

	switch c.AnalyticsBackend {
	case AnalyticsTinybird:
	case AnalyticsPostgres:
		if c.StorageDriver != StoragePostgres {
			return fmt.Errorf("ANALYTICS_BACKEND=postgres requires STORAGE_DRIVER=postgres")
		}
	default:
		return fmt.Errorf("ANALYTICS_BACKEND must be %q or %q, got %q", AnalyticsTinybird, AnalyticsPostgres, c.AnalyticsBackend)
	}

	if c.AuthJWTSecret == "" {
		return fmt.Errorf("AUTH_JWT_SECRET is required")
	}

	if c.AnalyticsWindowDays < 1 || c.AnalyticsWindowDays > 365 {
		return fmt.Errorf("ANALYTICS_WINDOW_DAYS must be between 1 and 365, got %d", c.AnalyticsWindowDays)
	}

	if c.SinkTimeout <= 0 {
		return fmt.Errorf("SINK_TIMEOUT_MS must be positive")
	}

	if c.SinkMaxInflight < 1 {
		return fmt.Errorf("SINK_MAX_INFLIGHT must be at least 1, got %d", c.SinkMaxInflight)
	}

	if c.RateLimitPerMinute < 1 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be at least 1, got %d", c.RateLimitPerMinute)
	}

	return nil
}

// TinybirdConfigured reports whether both endpoint and credential are set
func (c *Config) TinybirdConfigured() bool {
	return c.TinybirdHost != "" && c.TinybirdToken != ""
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt reads an environment variable as integer or returns default
func getEnvAsInt(key string, defaultValue int) int {
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

// getEnvAsBool reads an environment variable as boolean or returns default
func getEnvAsBool(key string, defaultValue bool) bool {
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

// getEnvAsList reads a comma separated list, dropping blanks
func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
