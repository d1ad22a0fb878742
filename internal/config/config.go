package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/exp/slices"
)

// Config holds all configuration for the application
type Config struct {
	Azure AzureConfig
	App   AppConfig
}

// AppConfig holds application-specific configuration
type AppConfig struct {
	LogLevel      string
	UploadTimeout int // seconds - timeout for the whole blob upload step
	FileMode      os.FileMode
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Azure: LoadAzureConfig(),
		App:   LoadAppConfig(),
	}
}

// LoadAppConfig loads application-specific configuration
func LoadAppConfig() AppConfig {
	return AppConfig{
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		UploadTimeout: getEnvAsInt("UPLOAD_TIMEOUT", 120),
		FileMode:      os.FileMode(getEnvAsOctal("OUTPUT_FILE_MODE", 0644)),
	}
}

// Validate checks the environment configuration.
// Blob settings are only checked when a blob feature is in use.
func (c *Config) Validate(needsBlob bool) error {
	if err := c.App.ValidateAppConfig(); err != nil {
		return err
	}

	if needsBlob {
		if err := c.Azure.ValidateAzureConfig(); err != nil {
			return err
		}
	}

	return nil
}

// ValidateAppConfig validates application-specific configuration
func (c *AppConfig) ValidateAppConfig() error {
	if err := validateRange("UPLOAD_TIMEOUT", c.UploadTimeout, 5, 3600, "Upload timeout"); err != nil {
		return err
	}

	if c.FileMode&0600 != 0600 {
		return &ConfigError{
			Field:   "OUTPUT_FILE_MODE",
			Message: fmt.Sprintf("Output file mode %#o must be readable and writable by the owner", uint32(c.FileMode)),
		}
	}

	if err := validateLogLevel(c.LogLevel); err != nil {
		return err
	}

	return nil
}

// ValidLogLevels lists the accepted LOG_LEVEL values
var ValidLogLevels = []string{"debug", "verbose", "info", "warning", "warn", "error", "fatal", "silent"}

// validateLogLevel validates that the log level is valid
func validateLogLevel(logLevel string) error {
	if slices.Contains(ValidLogLevels, strings.ToLower(logLevel)) {
		return nil
	}

	return &ConfigError{
		Field:   "LOG_LEVEL",
		Message: fmt.Sprintf("Invalid log level '%s'. Valid levels are: %s", logLevel, strings.Join(ValidLogLevels, ", ")),
	}
}

// validateRange validates that a value is within the specified range
func validateRange(field string, value, min, max int, fieldName string) error {
	if value < min || value > max {
		message := fmt.Sprintf("%s must be between %d and %d", fieldName, min, max)
		message += " seconds"

		return &ConfigError{
			Field:   field,
			Message: message,
		}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Message
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsOctal(key string, defaultValue uint32) uint32 {
	if value := os.Getenv(key); value != "" {
		if mode, err := strconv.ParseUint(strings.TrimPrefix(value, "0o"), 8, 32); err == nil {
			return uint32(mode)
		}
	}
	return defaultValue
}
