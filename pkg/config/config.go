package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// OpenFilesConfig holds credentials and scoping for the file backend.
type OpenFilesConfig struct {
	APIKey   string `yaml:"api_key" envconfig:"API_KEY"`
	BaseURL  string `yaml:"base_url" envconfig:"BASE_URL"`
	BasePath string `yaml:"base_path" envconfig:"BASE_PATH"`
	Timeout  int    `yaml:"timeout" envconfig:"TIMEOUT"` // Request timeout in seconds
}

// TimeoutDuration returns the configured timeout, or zero when unset.
func (c OpenFilesConfig) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// ProviderConfig holds per-LLM-provider credentials.
type ProviderConfig struct {
	APIKey  string `yaml:"api_key" envconfig:"API_KEY"`
	BaseURL string `yaml:"base_url" envconfig:"BASE_URL"`
	Model   string `yaml:"model" envconfig:"MODEL"`
}

// ServerConfig contains settings for the local dev backend server.
type ServerConfig struct {
	Addr   string `yaml:"addr" envconfig:"ADDR"`
	APIKey string `yaml:"api_key" envconfig:"API_KEY"`
}

// Config is the root configuration structure. The envconfig tags produce
// the conventional variable names: OPENFILES_API_KEY, OPENAI_API_KEY,
// ANTHROPIC_API_KEY, OPENFILES_SERVER_ADDR.
type Config struct {
	// LogLevel controls structured logging verbosity (DEBUG, INFO, WARN, ERROR).
	LogLevel string `yaml:"log_level" envconfig:"OPENFILES_LOG_LEVEL"`

	// OpenFiles backend settings.
	OpenFiles OpenFilesConfig `yaml:"openfiles" envconfig:"OPENFILES"`

	// LLM provider settings.
	OpenAI    ProviderConfig `yaml:"openai" envconfig:"OPENAI"`
	Anthropic ProviderConfig `yaml:"anthropic" envconfig:"ANTHROPIC"`

	// Dev server settings.
	Server ServerConfig `yaml:"server" envconfig:"OPENFILES_SERVER"`
}

// Load reads configuration from the specified path, or defaults if path is
// empty. Priority: Env Vars > Config File > Defaults.
func Load(path string) (*Config, error) {
	// Try loading .env files (ignore error if not present)
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")

	if path == "" {
		// Try default locations
		home, err := os.UserHomeDir()
		if err == nil {
			defaultPath := filepath.Join(home, ".openfiles", "config.yaml")
			if _, err := os.Stat(defaultPath); err == nil {
				path = defaultPath
			}
		}

		localPath := "config.yaml"
		if _, err := os.Stat(localPath); err == nil {
			path = localPath
		}
	}

	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	// Process Env Vars. These override file values.
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to process env vars: %w", err)
	}

	// Apply Defaults
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}

	return cfg, nil
}
