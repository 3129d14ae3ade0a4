package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigDir  = ".simonai"
	DefaultConfigFile = "config.yaml"

	// Storage backends.
	BackendBadger = "badger"
	BackendSQLite = "sqlite"
)

// Config represents the application configuration
type Config struct {
	API     APIConfig     `yaml:"api"`
	Storage StorageConfig `yaml:"storage"`
}

// APIConfig configures the OpenRouter client.
type APIConfig struct {
	// BaseURL of the OpenRouter-compatible endpoint
	BaseURL string `yaml:"base_url"`

	// APIKey; the OPENROUTER_API_KEY environment variable takes precedence
	APIKey string `yaml:"api_key"`

	// Referer sent as the HTTP-Referer header, identifies the app
	Referer string `yaml:"referer"`

	// Model identifiers per task
	ChatModel   string `yaml:"chat_model"`
	VisionModel string `yaml:"vision_model"`
	ImageModel  string `yaml:"image_model"`
}

// StorageConfig selects and locates the persistence backend.
type StorageConfig struct {
	// Backend is "badger" or "sqlite"
	Backend string `yaml:"backend"`

	// DataDir holds the database files; defaults under the config dir
	DataDir string `yaml:"data_dir"`
}

func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:     "https://openrouter.ai/api/v1",
			Referer:     "https://simonai.local",
			ChatModel:   "openai/gpt-3.5-turbo",
			VisionModel: "openai/gpt-4o-mini",
			ImageModel:  "black-forest-labs/flux-1.1-pro",
		},
		Storage: StorageConfig{
			Backend: BackendBadger,
		},
	}
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, DefaultConfigDir)
	return filepath.Join(configDir, DefaultConfigFile), nil
}

// EnsureConfigDir creates the config directory if it doesn't exist
func EnsureConfigDir() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, DefaultConfigDir)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return nil
}

// Load loads the configuration from file, creating default if not exists
func Load() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		// Config file doesn't exist, create default
		cfg := DefaultConfig()
		if err := Save(cfg); err != nil {
			// If save fails, just return default config without error
			// This ensures the app works even if we can't write config
			return cfg, nil
		}
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// Save saves the configuration to file
func Save(cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("cannot save invalid config: %w", err)
	}

	if err := EnsureConfigDir(); err != nil {
		return err
	}

	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration values
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url must not be empty")
	}
	if c.API.ChatModel == "" || c.API.VisionModel == "" || c.API.ImageModel == "" {
		return fmt.Errorf("api model identifiers must not be empty")
	}

	switch c.Storage.Backend {
	case BackendBadger, BackendSQLite:
	default:
		return fmt.Errorf("storage.backend must be %q or %q, got %q",
			BackendBadger, BackendSQLite, c.Storage.Backend)
	}

	return nil
}

// ResolveAPIKey returns the API key, preferring the environment over the
// config file.
func (c *Config) ResolveAPIKey() string {
	if key := os.Getenv("OPENROUTER_API_KEY"); key != "" {
		return key
	}
	return c.API.APIKey
}

// ResolveDataDir returns the storage directory, defaulting to "data" under
// the config directory.
func (c *Config) ResolveDataDir() (string, error) {
	if c.Storage.DataDir != "" {
		return c.Storage.DataDir, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, DefaultConfigDir, "data"), nil
}
