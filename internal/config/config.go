package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/perch-ai/perch/internal/models"
)

// Config holds the application configuration.
// API keys are not stored here; see the auth package's credentials.yaml.
type Config struct {
	Model           models.ChatModel `mapstructure:"model"`             // Selected chat model (e.g., "gpt-4o-mini")
	OpenAIMode      string           `mapstructure:"openai_mode"`       // "openai" or "azure"
	CustomModel     string           `mapstructure:"custom_model"`      // Upstream name for the "custom" model
	APIBase         string           `mapstructure:"api_base"`          // OpenAI-compatible proxy (e.g., LiteLLM); routes every model when set
	OllamaBase      string           `mapstructure:"ollama_base"`       // OpenAI-compatible endpoint of the local Ollama server
	ShowLocalModels bool             `mapstructure:"show_local_models"` // Offer local models in the selector
	LogLevel        string           `mapstructure:"log_level"`         // zerolog level name
}

const (
	DefaultOpenAIMode = models.OpenAIModeOpenAI
	DefaultOllamaBase = "http://localhost:11434/v1"
	DefaultLogLevel   = "info"

	ConfigFileName = "config.yaml"
)

// DefaultModel is the model used when none is configured.
var DefaultModel = models.DefaultModel

func DefaultConfigDir() (string, error) {
	if dir := os.Getenv("PERCH_CONFIG_DIR"); dir != "" {
		return dir, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "perch"), nil
}

func DefaultConfigPath() (string, error) {
	configDir, err := DefaultConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, ConfigFileName), nil
}

func Load() (*Config, error) {
	configDir, err := DefaultConfigDir()
	if err != nil {
		return nil, err
	}
	return LoadFrom(configDir)
}

// LoadFrom reads config.yaml from configDir, applying defaults and PERCH_*
// environment overrides. A missing file is not an error.
func LoadFrom(configDir string) (*Config, error) {
	return load(configDir, true)
}

// LoadFileFrom is LoadFrom without environment overrides: it returns what
// config.yaml in configDir holds, plus defaults.
func LoadFileFrom(configDir string) (*Config, error) {
	return load(configDir, false)
}

func load(configDir string, withEnv bool) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)

	// Set defaults
	v.SetDefault("model", string(DefaultModel))
	v.SetDefault("openai_mode", DefaultOpenAIMode)
	v.SetDefault("custom_model", "")
	v.SetDefault("api_base", "")
	v.SetDefault("ollama_base", DefaultOllamaBase)
	v.SetDefault("show_local_models", false)
	v.SetDefault("log_level", DefaultLogLevel)

	// Allow environment variable overrides
	if withEnv {
		v.SetEnvPrefix("PERCH")
		v.AutomaticEnv()
	}

	// Read config file (if exists)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
		// Config file not found is okay, we use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Canonicalize symbols and case; unknown values are kept so the UI can
	// fall back to the default descriptor instead of silently rewriting them.
	if m, err := models.Parse(string(cfg.Model)); err == nil {
		cfg.Model = m
	}

	return &cfg, nil
}

func Save(cfg *Config) error {
	configDir, err := DefaultConfigDir()
	if err != nil {
		return err
	}
	return SaveTo(configDir, cfg)
}

// SaveTo writes cfg to configDir/config.yaml.
func SaveTo(configDir string, cfg *Config) error {
	// Create config directory if it doesn't exist
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configPath := filepath.Join(configDir, ConfigFileName)

	v := viper.New()
	v.SetConfigType("yaml")
	v.Set("model", string(cfg.Model))
	v.Set("openai_mode", cfg.OpenAIMode)
	v.Set("show_local_models", cfg.ShowLocalModels)

	// Optional keys are only written when set
	if cfg.CustomModel != "" {
		v.Set("custom_model", cfg.CustomModel)
	}
	if cfg.APIBase != "" {
		v.Set("api_base", cfg.APIBase)
	}
	if cfg.OllamaBase != "" && cfg.OllamaBase != DefaultOllamaBase {
		v.Set("ollama_base", cfg.OllamaBase)
	}
	if cfg.LogLevel != "" && cfg.LogLevel != DefaultLogLevel {
		v.Set("log_level", cfg.LogLevel)
	}

	if err := v.WriteConfigAs(configPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

func ConfigExists() bool {
	configPath, err := DefaultConfigPath()
	if err != nil {
		return false
	}
	_, err = os.Stat(configPath)
	return err == nil
}

// ModelEnv returns the settings that shape upstream model names, with
// OPENAI_MODE / CUSTOM_MODEL environment overrides applied.
func (c *Config) ModelEnv() models.Env {
	return models.Env{
		OpenAIMode:  c.OpenAIMode,
		CustomModel: c.CustomModel,
	}.WithOSOverrides()
}

// UsesProxy returns true if every model is routed through api_base
func (c *Config) UsesProxy() bool {
	return c.APIBase != ""
}

// GetEffectiveOllamaBase returns the Ollama endpoint, defaulting when unset
func (c *Config) GetEffectiveOllamaBase() string {
	if c.OllamaBase == "" {
		return DefaultOllamaBase
	}
	return c.OllamaBase
}
