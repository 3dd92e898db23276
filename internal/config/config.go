package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"dataviz/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig   `validate:"required"`
	Session  SessionConfig  `validate:"required"`
	Pipeline PipelineConfig `validate:"required"`
	LogLevel string         `validate:"oneof=ERROR WARN INFO DEBUG TRACE"`
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port        string `validate:"required,numeric"`
	GinMode     string `validate:"oneof=debug release test"`
	MaxUploadMB int    `validate:"min=1,max=1024"`
}

// SessionConfig bounds the in-memory upload cache
type SessionConfig struct {
	TTL         time.Duration `validate:"min=1s"`
	MaxSessions int           `validate:"min=1"`
}

// PipelineConfig holds per-request pipeline settings
type PipelineConfig struct {
	FilterWorkers int `validate:"min=1,max=64"`
	PreviewRows   int `validate:"min=0,max=1000"`
}

// MaxUploadBytes returns the upload limit in bytes
func (c ServerConfig) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server:   *loadServerConfig(),
		Session:  *loadSessionConfig(),
		Pipeline: *loadPipelineConfig(),
		LogLevel: strings.ToUpper(getEnvOrDefault("LOG_LEVEL", "INFO")),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

// LoadDotEnv seeds the environment from the given .env files (default ".env").
// A missing file is not an error; variables already set are never overridden.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return errors.Wrapf(err, "failed to load %s", p)
		}
	}
	return nil
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:        getEnvOrDefault("PORT", "8080"),
		GinMode:     getEnvOrDefault("GIN_MODE", "debug"),
		MaxUploadMB: getEnvIntOrDefault("MAX_UPLOAD_MB", 50),
	}
}

func loadSessionConfig() *SessionConfig {
	return &SessionConfig{
		TTL:         getEnvDurationOrDefault("SESSION_TTL", time.Hour),
		MaxSessions: getEnvIntOrDefault("SESSION_MAX", 64),
	}
}

func loadPipelineConfig() *PipelineConfig {
	return &PipelineConfig{
		FilterWorkers: getEnvIntOrDefault("FILTER_WORKERS", 1),
		PreviewRows:   getEnvIntOrDefault("PREVIEW_ROWS", 20),
	}
}

var validate = validator.New()

func validateConfig(config *Config) error {
	err := validate.Struct(config)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors.ConfigInvalid(err.Error())
	}
	problems := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		problems = append(problems, fmt.Sprintf("%s failed %q (got %v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return errors.ConfigInvalid(strings.Join(problems, "; "))
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

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
