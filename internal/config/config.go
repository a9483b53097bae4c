package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/fbal23/BIO-RED-Validation-Portal/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig
	Validator ValidatorConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string
	// Port is the port to listen on (default: 8080)
	Port int
	// MaxUploadBytes caps one uploaded submission file (default: 20MB)
	MaxUploadBytes int64
}

// ValidatorConfig holds validator file system paths
type ValidatorConfig struct {
	// UploadDir receives web uploads before validation (default: temp_uploads)
	UploadDir string
	// ReportDir receives persisted batch reports when set
	ReportDir string
	// LogFile mirrors validator logging when set (default: validation.log)
	LogFile string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	port, err := getEnvIntOrDefault("SERVER_PORT", 8080)
	if err != nil {
		return nil, err
	}
	maxUpload, err := getEnvInt64OrDefault("UPLOAD_MAX_BYTES", 20<<20)
	if err != nil {
		return nil, err
	}

	config := &Config{
		Server: ServerConfig{
			Host:           getEnvOrDefault("SERVER_HOST", "0.0.0.0"),
			Port:           port,
			MaxUploadBytes: maxUpload,
		},
		Validator: ValidatorConfig{
			UploadDir: getEnvOrDefault("UPLOAD_DIR", "temp_uploads"),
			ReportDir: getEnvOrDefault("REPORT_DIR", ""),
			LogFile:   getEnvOrDefault("VALIDATION_LOG_FILE", "validation.log"),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func validateConfig(c *Config) error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return errors.ConfigInvalid(fmt.Sprintf("SERVER_PORT %d out of range", c.Server.Port))
	}
	if c.Server.MaxUploadBytes <= 0 {
		return errors.ConfigInvalid("UPLOAD_MAX_BYTES must be positive")
	}
	if c.Validator.UploadDir == "" {
		return errors.ConfigInvalid("UPLOAD_DIR must not be empty")
	}
	return nil
}

// Addr returns the listen address for the web server.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvIntOrDefault(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.ConfigInvalid(fmt.Sprintf("%s must be an integer, got %q", key, v))
	}
	return n, nil
}

func getEnvInt64OrDefault(key string, fallback int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, errors.ConfigInvalid(fmt.Sprintf("%s must be an integer, got %q", key, v))
	}
	return n, nil
}
