// Package config loads the run configuration and the persisted column
// selections document.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config is the full run configuration, read once at startup.
type Config struct {
	// Driver selects the database dialect: sqlite, mysql or postgres.
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
	// Schema is the database/schema name for introspection; empty means the
	// connection's current one.
	Schema string `mapstructure:"schema"`

	// Provider selects the translation service: microsoft or google.
	Provider  string `mapstructure:"provider"`
	APIKey    string `mapstructure:"api_key"`
	APIRegion string `mapstructure:"api_region"`
	// Endpoint overrides the Microsoft endpoint; empty means the public one.
	Endpoint string `mapstructure:"endpoint"`
	// Credentials is a Google Cloud credentials file path.
	Credentials string `mapstructure:"credentials"`

	TargetLang      string `mapstructure:"target_lang"`
	PageSize        int    `mapstructure:"page_size"`
	MaxRetries      int    `mapstructure:"max_retries"`
	OverwriteSource bool   `mapstructure:"overwrite_source"`
}

// Load reads the configuration file at path (YAML or JSON), applying defaults
// and TRANSLATEMODE_* environment overrides.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("TRANSLATEMODE")
	v.AutomaticEnv()

	v.SetDefault("driver", "mysql")
	v.SetDefault("provider", "microsoft")
	v.SetDefault("target_lang", "de")
	v.SetDefault("page_size", 10)
	v.SetDefault("max_retries", 3)
	v.SetDefault("overwrite_source", true)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if cfg.DSN == "" {
		return nil, fmt.Errorf("config %s: dsn is required", path)
	}
	return &cfg, nil
}
