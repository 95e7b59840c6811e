// Package config provides environment-variable-first configuration loading
// with optional YAML file and .env fallbacks for the SparkPost CLI.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"

	"github.com/shineum/sparkpost-lite/sparkpost"
)

// DotEnvFile is the .env file read by Load and LoadFromFile when present.
const DotEnvFile = ".env"

// Provider names accepted by the PROVIDER variable.
const (
	ProviderSparkPost = "sparkpost"
	ProviderStdout    = "stdout"
)

// Config holds the complete application configuration.
type Config struct {
	SparkPost SparkPostConfig `yaml:"sparkpost"`
	Sender    SenderConfig    `yaml:"sender"`
	Provider  string          `yaml:"provider" validate:"oneof=sparkpost stdout"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// SparkPostConfig holds API client settings.
type SparkPostConfig struct {
	APIKey        string            `yaml:"api_key"`
	Origin        string            `yaml:"origin"`
	APIVersion    string            `yaml:"api_version"`
	StackIdentity string            `yaml:"stack_identity"`
	Debug         bool              `yaml:"debug"`
	Headers       map[string]string `yaml:"headers"`
}

// SenderConfig holds defaults applied to every message sent by the CLI.
type SenderConfig struct {
	From       string `yaml:"from"`
	CampaignID string `yaml:"campaign_id"`
	Sandbox    bool   `yaml:"sandbox"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=json text"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load loads configuration from environment variables with sensible defaults.
// Variables from a .env file in the working directory are added to the
// environment first; variables already set are not overridden.
func Load() (*Config, error) {
	if err := loadDotEnv(DotEnvFile); err != nil {
		return nil, err
	}

	cfg := &Config{}
	cfg.applyDefaults()
	cfg.applyEnvVars()
	return cfg, nil
}

// LoadFromFile loads configuration from a YAML file as the base layer,
// then overrides with environment variables. Returns an error if the
// specified file path does not exist.
func LoadFromFile(path string) (*Config, error) {
	if err := loadDotEnv(DotEnvFile); err != nil {
		return nil, err
	}

	cfg := &Config{}
	cfg.applyDefaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Environment variables always override YAML values
	cfg.applyEnvVars()

	return cfg, nil
}

// Validate checks enumerated fields.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid %s %q: must be one of %s", strings.ToLower(fe.Field()), fe.Value(), fe.Param())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// ClientConfig returns the settings for sparkpost.New. The logger is left
// for the caller to set.
func (c *Config) ClientConfig() sparkpost.Config {
	return sparkpost.Config{
		APIKey:        c.SparkPost.APIKey,
		Origin:        c.SparkPost.Origin,
		APIVersion:    c.SparkPost.APIVersion,
		StackIdentity: c.SparkPost.StackIdentity,
		Debug:         c.SparkPost.Debug,
		Headers:       c.SparkPost.Headers,
	}
}

// loadDotEnv reads path into the environment. A missing file is not an error.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// applyDefaults sets sensible default values for all configuration fields.
func (c *Config) applyDefaults() {
	c.Provider = ProviderSparkPost
	c.Logging.Level = "info"
	c.Logging.Format = "json"
}

// applyEnvVars overrides configuration with environment variable values.
// Only non-empty environment variables override existing values.
func (c *Config) applyEnvVars() {
	if v := os.Getenv(sparkpost.APIKeyEnv); v != "" {
		c.SparkPost.APIKey = v
	}
	if v := os.Getenv("SPARKPOST_ORIGIN"); v != "" {
		c.SparkPost.Origin = v
	}
	if v := os.Getenv("SPARKPOST_API_VERSION"); v != "" {
		c.SparkPost.APIVersion = v
	}
	if v := os.Getenv("SPARKPOST_STACK_IDENTITY"); v != "" {
		c.SparkPost.StackIdentity = v
	}
	if v := os.Getenv("SPARKPOST_DEBUG"); v != "" {
		if b, err := cast.ToBoolE(v); err == nil {
			c.SparkPost.Debug = b
		}
	}

	if v := os.Getenv("SPARKPOST_FROM"); v != "" {
		c.Sender.From = v
	}
	if v := os.Getenv("SPARKPOST_CAMPAIGN_ID"); v != "" {
		c.Sender.CampaignID = v
	}
	if v := os.Getenv("SPARKPOST_SANDBOX"); v != "" {
		if b, err := cast.ToBoolE(v); err == nil {
			c.Sender.Sandbox = b
		}
	}

	if v := os.Getenv("PROVIDER"); v != "" {
		c.Provider = strings.ToLower(v)
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = strings.ToLower(v)
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		c.Logging.Format = strings.ToLower(v)
	}
}
