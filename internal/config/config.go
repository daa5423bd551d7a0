// Package config provides configuration management for the trading client.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Client      ClientConfig `mapstructure:"client"`
	UI          UIConfig     `mapstructure:"ui"`
	Credentials Credentials  `mapstructure:"-"` // Loaded separately
}

// ClientConfig holds API client configuration.
type ClientConfig struct {
	Environment    string `mapstructure:"environment"`     // "prod", "uat"
	TimeoutSeconds int    `mapstructure:"timeout_seconds"` // per-request timeout
	RetryAttempts  int    `mapstructure:"retry_attempts"`
}

// UIConfig holds UI-related configuration.
type UIConfig struct {
	ColorEnabled bool   `mapstructure:"color_enabled"`
	DateFormat   string `mapstructure:"date_format"`
}

// Credentials holds API credentials.
type Credentials struct {
	Neo NeoCredentials `mapstructure:"neo"`
}

// NeoCredentials holds Kotak Neo API credentials.
type NeoCredentials struct {
	ConsumerKey  string `mapstructure:"consumer_key"`
	MobileNumber string `mapstructure:"mobile_number"`
	UCC          string `mapstructure:"ucc"`
	PAN          string `mapstructure:"pan"`
	Password     string `mapstructure:"password"`
	MPIN         string `mapstructure:"mpin"`
	TOTPSecret   string `mapstructure:"totp_secret"` // For auto-generated TOTP login
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/neo-trader"
	}
	return filepath.Join(home, ".config", "neo-trader")
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := &Config{}

	if err := loadConfigFile(configDir, cfg); err != nil {
		return nil, fmt.Errorf("loading config.toml: %w", err)
	}

	if err := loadCredentials(configDir, &cfg.Credentials); err != nil {
		return nil, fmt.Errorf("loading credentials.toml: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func loadConfigFile(configDir string, target *Config) error {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	v.SetDefault("client.environment", "prod")
	v.SetDefault("client.timeout_seconds", 10)
	v.SetDefault("client.retry_attempts", 3)
	v.SetDefault("ui.color_enabled", true)
	v.SetDefault("ui.date_format", "2006-01-02")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found, create template and continue on defaults
			if err := createTemplateConfig(configDir); err != nil {
				return err
			}
			return v.Unmarshal(target)
		}
		return err
	}

	return v.Unmarshal(target)
}

func loadCredentials(configDir string, creds *Credentials) error {
	v := viper.New()
	v.SetConfigName("credentials")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return createTemplateCredentials(configDir)
		}
		return err
	}

	return v.Unmarshal(creds)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("NEO_CONSUMER_KEY"); v != "" {
		cfg.Credentials.Neo.ConsumerKey = v
	}
	if v := os.Getenv("NEO_MOBILE_NUMBER"); v != "" {
		cfg.Credentials.Neo.MobileNumber = v
	}
	if v := os.Getenv("NEO_UCC"); v != "" {
		cfg.Credentials.Neo.UCC = v
	}
	if v := os.Getenv("NEO_MPIN"); v != "" {
		cfg.Credentials.Neo.MPIN = v
	}
	if v := os.Getenv("NEO_TOTP_SECRET"); v != "" {
		cfg.Credentials.Neo.TOTPSecret = v
	}
	if v := os.Getenv("NEO_ENVIRONMENT"); v != "" {
		cfg.Client.Environment = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Client.Environment != "prod" && c.Client.Environment != "uat" {
		return fmt.Errorf("invalid environment: %s (must be 'prod' or 'uat')", c.Client.Environment)
	}
	if c.Client.TimeoutSeconds <= 0 {
		return fmt.Errorf("timeout_seconds must be positive")
	}
	if c.Client.RetryAttempts < 1 {
		return fmt.Errorf("retry_attempts must be at least 1")
	}
	return nil
}
