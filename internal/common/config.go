package common

import (
	"os"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	Pipeline PipelineConfig
	Compose  ComposeConfig
	Journal  JournalConfig
	Logging  LoggingConfig
}

// PipelineConfig holds batch pipeline tuning knobs.
type PipelineConfig struct {
	ComposeWorkers int // parallelism of the enrich/compose stage
	Template       string
}

// ComposeConfig holds page rendering settings.
type ComposeConfig struct {
	ThumbnailSize int // square thumbnail edge in source pixels
}

// JournalConfig holds batch journal settings.
type JournalConfig struct {
	Path    string // SQLite file; empty disables the journal
	Enabled bool
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string // "debug" | "info" | "warn" | "error"
	Format string // "json" | "text"
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Pipeline: PipelineConfig{
			ComposeWorkers: getEnvAsInt("COMPOSE_WORKERS", 4),
			Template:       getEnv("MANIFEST_TEMPLATE", "etsy"),
		},
		Compose: ComposeConfig{
			ThumbnailSize: getEnvAsInt("THUMBNAIL_SIZE", 55),
		},
		Journal: JournalConfig{
			Path:    getEnv("JOURNAL_PATH", "manifest-press.db"),
			Enabled: getEnvAsBool("JOURNAL_ENABLED", true),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Pipeline.ComposeWorkers < 1 {
		return NewAppError("CONFIG_ERROR", "COMPOSE_WORKERS must be at least 1", ErrInvalidInput)
	}
	if c.Compose.ThumbnailSize < 1 {
		return NewAppError("CONFIG_ERROR", "THUMBNAIL_SIZE must be at least 1", ErrInvalidInput)
	}
	return nil
}
