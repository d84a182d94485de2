// Package config provides configuration management for the dividend analysis application.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Data     DataConfig     `mapstructure:"data"`
	Refresh  RefreshConfig  `mapstructure:"refresh"`
	Provider ProviderConfig `mapstructure:"provider"`
	Log      LogConfig      `mapstructure:"log"`
}

// DataConfig holds persistence configuration.
type DataConfig struct {
	Dir          string `mapstructure:"dir"`           // directory for data files
	Backend      string `mapstructure:"backend"`       // "file" or "sqlite"
	UniverseFile string `mapstructure:"universe_file"` // optional ticker list override, one per line
}

// RefreshConfig controls the batched refresh orchestrator.
type RefreshConfig struct {
	BatchSize    int           `mapstructure:"batch_size"`
	BatchPause   time.Duration `mapstructure:"batch_pause"`
	PoolSize     int           `mapstructure:"pool_size"`
	SnapshotTTL  time.Duration `mapstructure:"snapshot_ttl"`
	HistoryCap   int           `mapstructure:"history_cap"`
	DividendTail int           `mapstructure:"dividend_tail"`
}

// ProviderConfig holds market data provider configuration.
type ProviderConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level   string `mapstructure:"level"`
	Console bool   `mapstructure:"console"`
	File    bool   `mapstructure:"file"`
	Path    string `mapstructure:"path"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/divhunter"
	}
	return filepath.Join(home, ".config", "divhunter")
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory. A missing config
// file is not an error; defaults apply.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	setDefaults(v, configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config.toml: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, configDir string) {
	v.SetDefault("data.dir", filepath.Join(configDir, "data"))
	v.SetDefault("data.backend", "file")
	v.SetDefault("data.universe_file", "")

	v.SetDefault("refresh.batch_size", 20)
	v.SetDefault("refresh.batch_pause", 2*time.Second)
	v.SetDefault("refresh.pool_size", 10)
	v.SetDefault("refresh.snapshot_ttl", 24*time.Hour)
	v.SetDefault("refresh.history_cap", 30)
	v.SetDefault("refresh.dividend_tail", 400)

	v.SetDefault("provider.base_url", "https://query1.finance.yahoo.com")
	v.SetDefault("provider.timeout", 10*time.Second)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.console", true)
	v.SetDefault("log.file", true)
	v.SetDefault("log.path", filepath.Join(configDir, "logs", "divhunter.log"))
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DIVHUNTER_DATA_DIR"); v != "" {
		cfg.Data.Dir = v
	}
	if v := os.Getenv("DIVHUNTER_BACKEND"); v != "" {
		cfg.Data.Backend = v
	}
	if v := os.Getenv("DIVHUNTER_PROVIDER_URL"); v != "" {
		cfg.Provider.BaseURL = v
	}
	if v := os.Getenv("DIVHUNTER_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Data.Backend != "file" && c.Data.Backend != "sqlite" {
		return fmt.Errorf("invalid data backend: %s (must be 'file' or 'sqlite')", c.Data.Backend)
	}
	if c.Refresh.BatchSize <= 0 {
		return fmt.Errorf("batch_size must be positive")
	}
	if c.Refresh.PoolSize <= 0 {
		return fmt.Errorf("pool_size must be positive")
	}
	if c.Refresh.SnapshotTTL <= 0 {
		return fmt.Errorf("snapshot_ttl must be positive")
	}
	if c.Refresh.HistoryCap <= 0 {
		return fmt.Errorf("history_cap must be positive")
	}
	if c.Refresh.DividendTail <= 0 {
		return fmt.Errorf("dividend_tail must be positive")
	}
	if c.Provider.Timeout <= 0 {
		return fmt.Errorf("provider timeout must be positive")
	}
	return nil
}
