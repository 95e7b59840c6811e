package config

import (
	"os"
	"path/filepath"
	"testing"
)

// configEnvVars lists every variable read by applyEnvVars.
var configEnvVars = []string{
	"SPARKPOST_API_KEY", "SPARKPOST_ORIGIN", "SPARKPOST_API_VERSION",
	"SPARKPOST_STACK_IDENTITY", "SPARKPOST_DEBUG",
	"SPARKPOST_FROM", "SPARKPOST_CAMPAIGN_ID", "SPARKPOST_SANDBOX",
	"PROVIDER", "LOG_LEVEL", "LOG_FORMAT",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, env := range configEnvVars {
		t.Setenv(env, "")
	}
}

func TestLoad_DefaultValues(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Provider != ProviderSparkPost {
		t.Errorf("Provider: got %q, want %q", cfg.Provider, ProviderSparkPost)
	}
	if cfg.SparkPost.APIKey != "" {
		t.Errorf("SparkPost.APIKey: got %q, want empty", cfg.SparkPost.APIKey)
	}
	if cfg.SparkPost.Origin != "" {
		t.Errorf("SparkPost.Origin: got %q, want empty", cfg.SparkPost.Origin)
	}
	if cfg.SparkPost.Debug {
		t.Error("SparkPost.Debug: got true, want false")
	}
	if cfg.Sender.Sandbox {
		t.Error("Sender.Sandbox: got true, want false")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level: got %q, want %q", cfg.Logging.Level, "info")
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Logging.Format: got %q, want %q", cfg.Logging.Format, "json")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad_EnvVarOverrides(t *testing.T) {
	t.Setenv("SPARKPOST_API_KEY", "key-123")
	t.Setenv("SPARKPOST_ORIGIN", "https://api.eu.sparkpost.com:443")
	t.Setenv("SPARKPOST_API_VERSION", "v2")
	t.Setenv("SPARKPOST_STACK_IDENTITY", "billing-worker/1.4")
	t.Setenv("SPARKPOST_DEBUG", "true")
	t.Setenv("SPARKPOST_FROM", "Billing <billing@example.com>")
	t.Setenv("SPARKPOST_CAMPAIGN_ID", "invoices")
	t.Setenv("SPARKPOST_SANDBOX", "1")
	t.Setenv("PROVIDER", "STDOUT")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("LOG_FORMAT", "Text")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.SparkPost.APIKey != "key-123" {
		t.Errorf("SparkPost.APIKey: got %q, want %q", cfg.SparkPost.APIKey, "key-123")
	}
	if cfg.SparkPost.Origin != "https://api.eu.sparkpost.com:443" {
		t.Errorf("SparkPost.Origin: got %q", cfg.SparkPost.Origin)
	}
	if cfg.SparkPost.APIVersion != "v2" {
		t.Errorf("SparkPost.APIVersion: got %q, want %q", cfg.SparkPost.APIVersion, "v2")
	}
	if cfg.SparkPost.StackIdentity != "billing-worker/1.4" {
		t.Errorf("SparkPost.StackIdentity: got %q", cfg.SparkPost.StackIdentity)
	}
	if !cfg.SparkPost.Debug {
		t.Error("SparkPost.Debug: got false, want true")
	}
	if cfg.Sender.From != "Billing <billing@example.com>" {
		t.Errorf("Sender.From: got %q", cfg.Sender.From)
	}
	if cfg.Sender.CampaignID != "invoices" {
		t.Errorf("Sender.CampaignID: got %q, want %q", cfg.Sender.CampaignID, "invoices")
	}
	if !cfg.Sender.Sandbox {
		t.Error("Sender.Sandbox: got false, want true")
	}
	if cfg.Provider != "stdout" {
		t.Errorf("Provider: got %q, want %q", cfg.Provider, "stdout")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level: got %q, want %q", cfg.Logging.Level, "debug")
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("Logging.Format: got %q, want %q", cfg.Logging.Format, "text")
	}
}

func TestLoad_InvalidBoolIgnored(t *testing.T) {
	clearEnv(t)
	t.Setenv("SPARKPOST_DEBUG", "not-a-bool")
	t.Setenv("SPARKPOST_SANDBOX", "maybe")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.SparkPost.Debug {
		t.Error("SparkPost.Debug: invalid value should leave default false")
	}
	if cfg.Sender.Sandbox {
		t.Error("Sender.Sandbox: invalid value should leave default false")
	}
}

func TestLoadFromFile(t *testing.T) {
	yamlContent := `
sparkpost:
  api_key: "yaml-key"
  origin: "https://sparkpost.internal:8443"
  api_version: "v1"
  stack_identity: "yaml-stack"
  debug: true
  headers:
    X-MSYS-SUBACCOUNT: "123"
sender:
  from: "yaml@example.com"
  campaign_id: "yaml-campaign"
  sandbox: true
provider: stdout
logging:
  level: "warn"
  format: "text"
`

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	// Clear env vars to ensure YAML values come through
	clearEnv(t)

	cfg, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.SparkPost.APIKey != "yaml-key" {
		t.Errorf("SparkPost.APIKey: got %q, want %q", cfg.SparkPost.APIKey, "yaml-key")
	}
	if cfg.SparkPost.Origin != "https://sparkpost.internal:8443" {
		t.Errorf("SparkPost.Origin: got %q", cfg.SparkPost.Origin)
	}
	if !cfg.SparkPost.Debug {
		t.Error("SparkPost.Debug: got false, want true")
	}
	if got := cfg.SparkPost.Headers["X-MSYS-SUBACCOUNT"]; got != "123" {
		t.Errorf("SparkPost.Headers: got %q, want %q", got, "123")
	}
	if cfg.Sender.From != "yaml@example.com" {
		t.Errorf("Sender.From: got %q", cfg.Sender.From)
	}
	if !cfg.Sender.Sandbox {
		t.Error("Sender.Sandbox: got false, want true")
	}
	if cfg.Provider != "stdout" {
		t.Errorf("Provider: got %q, want %q", cfg.Provider, "stdout")
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level: got %q, want %q", cfg.Logging.Level, "warn")
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("Logging.Format: got %q, want %q", cfg.Logging.Format, "text")
	}
}

func TestLoadFromFile_EnvOverridesYAML(t *testing.T) {
	yamlContent := `
sparkpost:
  api_key: "yaml-key"
  origin: "https://yaml.example.com"
logging:
  level: "warn"
`

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	clearEnv(t)
	t.Setenv("SPARKPOST_API_KEY", "env-key")
	t.Setenv("LOG_LEVEL", "error")

	cfg, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Env var should override YAML
	if cfg.SparkPost.APIKey != "env-key" {
		t.Errorf("SparkPost.APIKey: got %q, want %q (env should override YAML)", cfg.SparkPost.APIKey, "env-key")
	}
	// Empty env var should NOT override YAML value
	if cfg.SparkPost.Origin != "https://yaml.example.com" {
		t.Errorf("SparkPost.Origin: got %q (empty env should not override YAML)", cfg.SparkPost.Origin)
	}
	if cfg.Logging.Level != "error" {
		t.Errorf("Logging.Level: got %q, want %q (env should override YAML)", cfg.Logging.Level, "error")
	}
	// Defaults survive when neither layer sets a value
	if cfg.Provider != ProviderSparkPost {
		t.Errorf("Provider: got %q, want %q", cfg.Provider, ProviderSparkPost)
	}
}

func TestLoadFromFile_FileNotFound(t *testing.T) {
	t.Parallel()

	_, err := LoadFromFile("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error for missing file, got nil")
	}
}

func TestLoadFromFile_InvalidYAML(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("{{invalid yaml"), 0644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	_, err := LoadFromFile(configPath)
	if err == nil {
		t.Error("expected error for invalid YAML, got nil")
	}
}

func TestLoadDotEnv(t *testing.T) {
	const key = "SPARKPOST_DOTENV_TEST_VALUE"
	os.Unsetenv(key)
	t.Cleanup(func() { os.Unsetenv(key) })

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte(key+"=from-dotenv\n"), 0644); err != nil {
		t.Fatalf("failed to write .env: %v", err)
	}

	if err := loadDotEnv(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := os.Getenv(key); got != "from-dotenv" {
		t.Errorf("%s: got %q, want %q", key, got, "from-dotenv")
	}
}

func TestLoadDotEnv_DoesNotOverrideEnv(t *testing.T) {
	t.Setenv("SPARKPOST_CAMPAIGN_ID", "from-env")

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("SPARKPOST_CAMPAIGN_ID=from-dotenv\n"), 0644); err != nil {
		t.Fatalf("failed to write .env: %v", err)
	}

	if err := loadDotEnv(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := os.Getenv("SPARKPOST_CAMPAIGN_ID"); got != "from-env" {
		t.Errorf("SPARKPOST_CAMPAIGN_ID: got %q, want %q", got, "from-env")
	}
}

func TestLoadDotEnv_MissingFile(t *testing.T) {
	t.Parallel()

	if err := loadDotEnv(filepath.Join(t.TempDir(), ".env")); err != nil {
		t.Errorf("missing .env should be ignored, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	valid := func() *Config {
		return &Config{
			Provider: ProviderSparkPost,
			Logging:  LoggingConfig{Level: "info", Format: "json"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "stdout provider", mutate: func(c *Config) { c.Provider = ProviderStdout }},
		{name: "unknown provider", mutate: func(c *Config) { c.Provider = "ses" }, wantErr: true},
		{name: "unknown level", mutate: func(c *Config) { c.Logging.Level = "trace" }, wantErr: true},
		{name: "unknown format", mutate: func(c *Config) { c.Logging.Format = "xml" }, wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate(): got err=%v, wantErr=%v", err, tt.wantErr)
			}
		})
	}
}

func TestClientConfig(t *testing.T) {
	t.Parallel()

	cfg := &Config{SparkPost: SparkPostConfig{
		APIKey:        "k",
		Origin:        "https://o.example.com",
		APIVersion:    "v1",
		StackIdentity: "stack",
		Debug:         true,
		Headers:       map[string]string{"X-Custom": "1"},
	}}

	cc := cfg.ClientConfig()
	if cc.APIKey != "k" || cc.Origin != "https://o.example.com" || cc.APIVersion != "v1" {
		t.Errorf("ClientConfig: got %+v", cc)
	}
	if cc.StackIdentity != "stack" || !cc.Debug {
		t.Errorf("ClientConfig: got %+v", cc)
	}
	if cc.Headers["X-Custom"] != "1" {
		t.Errorf("ClientConfig.Headers: got %v", cc.Headers)
	}
	if cc.Logger != nil || cc.HTTPClient != nil {
		t.Error("ClientConfig should leave Logger and HTTPClient unset")
	}
}
