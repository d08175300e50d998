// Package config loads jma-terminal settings from a TOML file, an optional
// .env file and JMA_* environment variables.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/ngmaloney/jma-terminal/internal/database"
	"github.com/ngmaloney/jma-terminal/internal/jma"
	"github.com/pelletier/go-toml/v2"
)

// DefaultPath is the config file read when no -config flag is given
const DefaultPath = "jma-terminal.toml"

// Environment variables that override file settings
const (
	EnvAreaURL        = "JMA_AREA_URL"
	EnvForecastURL    = "JMA_FORECAST_URL"
	EnvDBPath         = "JMA_DB_PATH"
	EnvLogFile        = "JMA_LOG_FILE"
	EnvTimeoutSeconds = "JMA_TIMEOUT_SECONDS"
)

// JMA contains upstream endpoint configuration
type JMA struct {
	AreaURL         string `toml:"area_url"`
	ForecastBaseURL string `toml:"forecast_base_url"` // Directory holding <code>.json
	UserAgent       string `toml:"user_agent"`
	TimeoutSeconds  int    `toml:"timeout_seconds"`
}

// Timeout returns the request timeout as a duration
func (j JMA) Timeout() time.Duration {
	return time.Duration(j.TimeoutSeconds) * time.Second
}

// Cache contains the forecast cache location
type Cache struct {
	DBPath string `toml:"db_path"`
}

// Logging contains the log destination. The terminal belongs to the UI, so
// logs always go to a file.
type Logging struct {
	File string `toml:"file"`
}

// Config represents the complete application configuration
type Config struct {
	JMA     JMA     `toml:"jma"`
	Cache   Cache   `toml:"cache"`
	Logging Logging `toml:"logging"`
}

// Default returns a configuration with every default applied
func Default() *Config {
	c := &Config{}
	c.ApplyDefaults()
	return c
}

// LoadConfig reads and parses a TOML configuration file
func LoadConfig(configPath string) (*Config, error) {
	cleanPath := filepath.Clean(configPath)

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &ConfigNotFoundError{Path: cleanPath}
		}
		return nil, fmt.Errorf("failed to read configuration file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse TOML configuration: %w", err)
	}

	config.ApplyDefaults()
	return &config, nil
}

// Load builds the runtime configuration: the TOML file at configPath (defaults
// when it does not exist), then .env, then JMA_* environment variables. The
// result is validated.
func Load(configPath string) (*Config, error) {
	config, err := LoadConfig(configPath)
	if err != nil {
		var notFound *ConfigNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		config = Default()
	}

	if err := LoadDotEnv(".env"); err != nil {
		return nil, err
	}
	if err := config.ApplyEnv(); err != nil {
		return nil, err
	}
	config.ApplyDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// LoadDotEnv loads variables from path without overriding ones already set.
// A missing file is not an error.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides settings from JMA_* environment variables
func (c *Config) ApplyEnv() error {
	if v := os.Getenv(EnvAreaURL); v != "" {
		c.JMA.AreaURL = v
	}
	if v := os.Getenv(EnvForecastURL); v != "" {
		c.JMA.ForecastBaseURL = v
	}
	if v := os.Getenv(EnvDBPath); v != "" {
		c.Cache.DBPath = v
	}
	if v := os.Getenv(EnvLogFile); v != "" {
		c.Logging.File = v
	}
	if v := os.Getenv(EnvTimeoutSeconds); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return ValidationError{Field: EnvTimeoutSeconds, Message: fmt.Sprintf("not an integer: %q", v)}
		}
		c.JMA.TimeoutSeconds = n
	}
	return nil
}

// ApplyDefaults sets default values for optional configuration fields
func (c *Config) ApplyDefaults() {
	if strings.TrimSpace(c.JMA.AreaURL) == "" {
		c.JMA.AreaURL = jma.DefaultAreaURL
	}
	if strings.TrimSpace(c.JMA.ForecastBaseURL) == "" {
		c.JMA.ForecastBaseURL = jma.DefaultForecastBaseURL
	}
	if strings.TrimSpace(c.JMA.UserAgent) == "" {
		c.JMA.UserAgent = jma.DefaultUserAgent
	}
	if c.JMA.TimeoutSeconds == 0 {
		c.JMA.TimeoutSeconds = 30
	}

	if strings.TrimSpace(c.Cache.DBPath) == "" {
		c.Cache.DBPath = database.DBPath()
	}

	if strings.TrimSpace(c.Logging.File) == "" {
		c.Logging.File = "jma-terminal.log"
	}
}

// ConfigNotFoundError represents a missing configuration file
type ConfigNotFoundError struct {
	Path string
}

func (e *ConfigNotFoundError) Error() string {
	return fmt.Sprintf("configuration file not found: %s", e.Path)
}

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error in %s: %s", e.Field, e.Message)
}

// MultiValidationError represents multiple validation errors
type MultiValidationError struct {
	Errors []ValidationError
}

func (e *MultiValidationError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("configuration has %d errors:\n  %s", len(e.Errors), strings.Join(msgs, "\n  "))
}

// Validate checks the configuration for correctness and completeness
func (c *Config) Validate() error {
	var errs []ValidationError

	errs = append(errs, validateURL("jma.area_url", c.JMA.AreaURL)...)
	errs = append(errs, validateURL("jma.forecast_base_url", c.JMA.ForecastBaseURL)...)

	if c.JMA.TimeoutSeconds <= 0 {
		errs = append(errs, ValidationError{
			Field:   "jma.timeout_seconds",
			Message: "must be a positive number of seconds",
		})
	}
	if strings.TrimSpace(c.Cache.DBPath) == "" {
		errs = append(errs, ValidationError{Field: "cache.db_path", Message: "is required"})
	}
	if strings.TrimSpace(c.Logging.File) == "" {
		errs = append(errs, ValidationError{Field: "logging.file", Message: "is required"})
	}

	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	default:
		return &MultiValidationError{Errors: errs}
	}
}

func validateURL(field, raw string) []ValidationError {
	u, err := url.Parse(raw)
	if err != nil {
		return []ValidationError{{Field: field, Message: fmt.Sprintf("invalid URL: %v", err)}}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return []ValidationError{{Field: field, Message: "must be an http or https URL"}}
	}
	if u.Host == "" {
		return []ValidationError{{Field: field, Message: "missing host"}}
	}
	return nil
}
