package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// FileEnv names the environment variable holding an optional YAML config file
const FileEnv = "FITTRACK_CONFIG"

// Config holds all application configuration
type Config struct {
	// Server configuration
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"min=1,max=65535"`

	// Database configuration
	DatabasePath string `yaml:"database_path" validate:"required"`

	// Logging configuration
	LogLevel string `yaml:"log_level" validate:"oneof=debug info warn error"`

	// Timezone decides what "today" means for date defaults and windows
	Timezone string         `yaml:"timezone" validate:"required"`
	Location *time.Location `yaml:"-"`

	// Metrics configuration
	MetricsEnabled bool   `yaml:"metrics_enabled"`
	MetricsHost    string `yaml:"metrics_host"`
	MetricsPort    int    `yaml:"metrics_port" validate:"min=1,max=65535"`

	// Gemini configuration. Assistants are disabled without a key.
	GeminiAPIKey string `yaml:"gemini_api_key"`
	GeminiModel  string `yaml:"gemini_model" validate:"required"`

	// ExerciseDB configuration. Suggestions are disabled without a key.
	ExerciseDBAPIKey string `yaml:"exercisedb_api_key"`
	ExerciseDBHost   string `yaml:"exercisedb_host" validate:"required,hostname_port|hostname"`

	// Tracking configuration
	DefaultCalorieTarget int `yaml:"default_calorie_target" validate:"gt=0"`

	// ReconcileInterval enables the background daily log reconciler when
	// positive
	ReconcileInterval time.Duration `yaml:"reconcile_interval" validate:"gte=0"`
}

// Defaults returns the configuration used when nothing is set
func Defaults() *Config {
	return &Config{
		Host:                 "localhost",
		Port:                 4101,
		DatabasePath:         "./fittrack.db",
		LogLevel:             "info",
		Timezone:             "UTC",
		MetricsHost:          "localhost",
		MetricsPort:          9090,
		GeminiModel:          "gemini-2.5-flash",
		ExerciseDBHost:       "exercisedb.p.rapidapi.com",
		DefaultCalorieTarget: 2000,
	}
}

// Load builds the configuration from defaults, then the YAML file named by
// FITTRACK_CONFIG if set, then environment variables. Nothing is required,
// but malformed values fail.
func Load() (*Config, error) {
	cfg := Defaults()

	if path := os.Getenv(FileEnv); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.loadEnv(); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) loadEnv() error {
	var errs []error

	setString(&c.Host, "HOST")
	setString(&c.DatabasePath, "DATABASE_PATH")
	setString(&c.LogLevel, "LOG_LEVEL")
	setString(&c.Timezone, "TIMEZONE")
	setString(&c.MetricsHost, "METRICS_HOST")
	setString(&c.GeminiAPIKey, "GEMINI_API_KEY")
	setString(&c.GeminiModel, "GEMINI_MODEL")
	setString(&c.ExerciseDBAPIKey, "EXERCISEDB_API_KEY")
	setString(&c.ExerciseDBHost, "EXERCISEDB_HOST")

	errs = append(errs,
		setInt(&c.Port, "PORT"),
		setInt(&c.MetricsPort, "METRICS_PORT"),
		setInt(&c.DefaultCalorieTarget, "DEFAULT_CALORIE_TARGET"),
		setBool(&c.MetricsEnabled, "METRICS_ENABLED"),
		setDuration(&c.ReconcileInterval, "RECONCILE_INTERVAL"),
	)
	return errors.Join(errs...)
}

var validate = validator.New()

func (c *Config) validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	c.Location = loc
	return nil
}

// AssistantsEnabled reports whether a Gemini key is configured
func (c *Config) AssistantsEnabled() bool {
	return c.GeminiAPIKey != ""
}

// SlogLevel maps LogLevel to a slog level
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// setString overrides dst with an environment variable when it is set
func setString(dst *string, key string) {
	if value := os.Getenv(key); value != "" {
		*dst = value
	}
}

func setInt(dst *int, key string) error {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return nil
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return fmt.Errorf("invalid %s %q: must be an integer", key, valueStr)
	}
	*dst = value
	return nil
}

func setBool(dst *bool, key string) error {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return nil
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return fmt.Errorf("invalid %s %q: must be true or false", key, valueStr)
	}
	*dst = value
	return nil
}

func setDuration(dst *time.Duration, key string) error {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return nil
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, valueStr, err)
	}
	*dst = value
	return nil
}
