package config

import (
	"os"
	"strconv"
	"strings"

	"godescribe/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Describe DescribeConfig
	Server   ServerConfig
	Database DatabaseConfig
	Cache    CacheConfig
}

// DescribeConfig holds statistics engine settings
type DescribeConfig struct {
	LabelColumn string
	Workers     int
	// HistogramBins and HistogramGroupColumn drive the histogram command.
	HistogramBins        int
	HistogramGroupColumn string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port           string
	GinMode        string
	MaxUploadBytes int64
}

// DatabaseConfig holds database connection settings. An empty URL disables
// report persistence.
type DatabaseConfig struct {
	URL string
}

// Enabled reports whether a database is configured
func (d DatabaseConfig) Enabled() bool {
	return d.URL != ""
}

// CacheConfig holds report cache settings
type CacheConfig struct {
	Enabled bool
	MaxCost int64
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Describe: *loadDescribeConfig(),
		Server:   *loadServerConfig(),
		Database: DatabaseConfig{URL: getEnvOrDefault("DATABASE_URL", "")},
		Cache:    *loadCacheConfig(),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadDescribeConfig() *DescribeConfig {
	return &DescribeConfig{
		LabelColumn:          getEnvOrDefault("LABEL_COLUMN", "Hogwarts House"),
		Workers:              getEnvIntOrDefault("DESCRIBE_WORKERS", 0),
		HistogramBins:        getEnvIntOrDefault("HISTOGRAM_BINS", 20),
		HistogramGroupColumn: getEnvOrDefault("HISTOGRAM_GROUP_COLUMN", "Hogwarts House"),
	}
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:           getEnvOrDefault("PORT", "8080"),
		GinMode:        getEnvOrDefault("GIN_MODE", "release"),
		MaxUploadBytes: int64(getEnvIntOrDefault("MAX_UPLOAD_BYTES", 10<<20)),
	}
}

func loadCacheConfig() *CacheConfig {
	return &CacheConfig{
		Enabled: getEnvBoolOrDefault("CACHE_ENABLED", true),
		MaxCost: int64(getEnvIntOrDefault("CACHE_MAX_COST", 64<<20)),
	}
}

func validateConfig(config *Config) error {
	if strings.TrimSpace(config.Describe.LabelColumn) == "" {
		return errors.ConfigInvalid("LABEL_COLUMN must not be blank")
	}
	if config.Describe.Workers < 0 {
		return errors.ConfigInvalid("DESCRIBE_WORKERS must be zero or positive")
	}
	if config.Describe.HistogramBins < 1 {
		return errors.ConfigInvalid("HISTOGRAM_BINS must be at least 1")
	}
	if config.Server.Port == "" {
		return errors.ConfigInvalid("PORT is required")
	}
	if config.Server.MaxUploadBytes <= 0 {
		return errors.ConfigInvalid("MAX_UPLOAD_BYTES must be positive")
	}
	if config.Cache.Enabled && config.Cache.MaxCost <= 0 {
		return errors.ConfigInvalid("CACHE_MAX_COST must be positive when the cache is enabled")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
