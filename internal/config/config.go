// Package config handles configuration loading and validation.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	// Endpoint is the analyze endpoint URL.
	Endpoint string `envconfig:"SAFEPOST_ENDPOINT" yaml:"endpoint"`

	// CorpusDir is the root directory of labeled test images.
	CorpusDir string `envconfig:"SAFEPOST_CORPUS_DIR" yaml:"corpus_dir"`

	// OutputDir is where reports, CSVs and charts are written.
	OutputDir string `envconfig:"SAFEPOST_OUTPUT_DIR" yaml:"output_dir"`

	// Detector configuration
	Detector DetectorConfig `yaml:"detector"`

	// Logging configuration
	Log LogConfig `yaml:"log"`

	// Run history configuration
	History HistoryConfig `yaml:"history"`
}

// DetectorConfig holds detector client settings.
type DetectorConfig struct {
	TimeoutSeconds    int     `envconfig:"SAFEPOST_TIMEOUT_SECONDS" yaml:"timeout_seconds"`
	RequestsPerSecond float64 `envconfig:"SAFEPOST_REQUESTS_PER_SECOND" yaml:"requests_per_second"` // 0 = unlimited
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `envconfig:"SAFEPOST_LOG_LEVEL" yaml:"level"`
	Format string `envconfig:"SAFEPOST_LOG_FORMAT" yaml:"format"`
}

// HistoryConfig holds run-history settings.
type HistoryConfig struct {
	Enabled  bool   `envconfig:"SAFEPOST_HISTORY_ENABLED" yaml:"enabled"`
	RedisURL string `envconfig:"SAFEPOST_HISTORY_REDIS_URL" yaml:"redis_url"`
	TTLHours int    `envconfig:"SAFEPOST_HISTORY_TTL_HOURS" yaml:"ttl_hours"`
}

// Load loads configuration from environment variables and optional config file.
func Load(configPath string) (*Config, error) {
	cfg := &Config{}

	// Set defaults first
	setDefaults(cfg)

	// Load from YAML file if provided (overrides defaults)
	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
	}

	// Override with environment variables (highest priority)
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("processing env config: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// LoadFromEnv loads configuration from environment variables only.
func LoadFromEnv() (*Config, error) {
	return Load("")
}

func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	return yaml.Unmarshal(data, cfg)
}

func setDefaults(cfg *Config) {
	cfg.Endpoint = "http://localhost:3000/api/analyze"
	cfg.CorpusDir = "test_images"
	cfg.OutputDir = "test_results_output"

	cfg.Detector = DetectorConfig{
		TimeoutSeconds:    30,
		RequestsPerSecond: 0,
	}

	cfg.Log = LogConfig{
		Level:  "info",
		Format: "text",
	}

	cfg.History = HistoryConfig{
		Enabled:  false,
		RedisURL: "redis://localhost:6379",
		TTLHours: 24 * 30,
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	var errs []string

	u, err := url.Parse(c.Endpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Sprintf("invalid endpoint URL: %s", c.Endpoint))
	}

	if c.CorpusDir == "" {
		errs = append(errs, "corpus_dir must not be empty")
	}

	if c.OutputDir == "" {
		errs = append(errs, "output_dir must not be empty")
	}

	if c.Detector.TimeoutSeconds < 1 {
		errs = append(errs, "timeout_seconds must be positive")
	}

	if c.Detector.RequestsPerSecond < 0 {
		errs = append(errs, "requests_per_second must not be negative")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Log.Level] {
		errs = append(errs, fmt.Sprintf("invalid log level: %s (must be debug, info, warn, or error)", c.Log.Level))
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[c.Log.Format] {
		errs = append(errs, fmt.Sprintf("invalid log format: %s (must be text or json)", c.Log.Format))
	}

	if c.History.Enabled && c.History.RedisURL == "" {
		errs = append(errs, "history.redis_url is required when history is enabled")
	}

	if c.History.TTLHours < 1 {
		errs = append(errs, "history.ttl_hours must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}
