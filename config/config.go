package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config represents the complete exporter configuration
type Config struct {
	CF            CFConfig
	Export        ExportConfig
	Observability ObservabilityConfig
	Environment   string
}

// CFConfig holds Cloud Foundry session configuration.
// Credentials are read once at process start and passed to the
// authenticator as values; nothing reads the environment mid-run.
type CFConfig struct {
	Username       string `validate:"required"`
	Password       string `validate:"required"`
	APIEndpoint    string `validate:"required,url"`
	CLIPath        string `validate:"required"`
	CommandTimeout time.Duration
}

// ExportConfig holds CSV export configuration
type ExportConfig struct {
	Dir        string `validate:"required"`
	WindowDays int    `validate:"min=1"`
	PageSize   int    `validate:"min=1,max=5000"`
	MaxPages   int    `validate:"min=1"`
	// ProcessedActions selects which actions survive into the
	// processed CSV. Empty means keep every row.
	ProcessedActions []string
}

// ObservabilityConfig holds logging configuration
type ObservabilityConfig struct {
	LogLevel  string `validate:"required"`
	LogFormat string `validate:"required,oneof=json text"`
}

var validate = validator.New()

// ErrMissingCredentials reports that CF_USERNAME or CF_PASSWORD is
// unset. The caller must fail before any CLI invocation.
var ErrMissingCredentials = errors.New("cloud foundry credentials not found in environment")

// New creates a new Config instance by loading environment variables
func New() (*Config, error) {
	// Load .env file if it exists (best effort)
	_ = godotenv.Load(".env")

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		CF: CFConfig{
			Username:       getEnv("CF_USERNAME", ""),
			Password:       getEnv("CF_PASSWORD", ""),
			APIEndpoint:    getEnv("CF_API_URL", "https://api.fr.cloud.gov"),
			CLIPath:        getEnv("CF_CLI_PATH", "cf"),
			CommandTimeout: getEnvAsDuration("CF_COMMAND_TIMEOUT", 5*time.Minute),
		},
		Export: ExportConfig{
			Dir:              getEnv("EXPORT_DIR", "exports"),
			WindowDays:       getEnvAsInt("EXPORT_WINDOW_DAYS", 7),
			PageSize:         getEnvAsInt("EXPORT_PAGE_SIZE", 500),
			MaxPages:         getEnvAsInt("EXPORT_MAX_PAGES", 100),
			ProcessedActions: getEnvAsSlice("EXPORT_PROCESSED_ACTIONS", nil),
		},
		Observability: ObservabilityConfig{
			LogLevel:  getEnv("LOG_LEVEL", "info"),
			LogFormat: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if all required configuration fields are set
func (c *Config) Validate() error {
	// Credentials are checked first so their absence surfaces as the
	// credential error regardless of other misconfiguration.
	if c.CF.Username == "" || c.CF.Password == "" {
		return ErrMissingCredentials
	}

	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	return nil
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development" || c.Environment == "dev"
}

// Helper functions

// getEnv returns the environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt returns the environment variable as an integer or a default
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

// getEnvAsDuration returns the environment variable as a duration or a default
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// getEnvAsSlice returns the environment variable as a comma-separated
// list, with surrounding whitespace trimmed and empty items dropped.
func getEnvAsSlice(key string, defaultValue []string) []string {
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
	if len(items) == 0 {
		return defaultValue
	}
	return items
}
