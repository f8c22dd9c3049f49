package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig
	UI       UIConfig
}

// DatabaseConfig holds sqlite settings. LegacyPath points at the old
// single-blob JSON store upgraded once on first run, if it exists.
type DatabaseConfig struct {
	Path       string
	LegacyPath string `mapstructure:"legacy_path"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	CurrencySymbol string `mapstructure:"currency_symbol"`
	DateFormat     string `mapstructure:"date_format"`
}

// Load reads configuration from file and env. Env var overrides use prefix WEALTHFLOW_.
func Load() (Config, error) {
	v := viper.New()

	dataDir := filepath.Join(os.Getenv("HOME"), ".local", "share", "wealthflow")
	v.SetDefault("database.path", filepath.Join(dataDir, "wealthflow.db"))
	v.SetDefault("database.legacy_path", filepath.Join(dataDir, "wealthflow.v1.json"))
	v.SetDefault("ui.currency_symbol", "$")
	v.SetDefault("ui.date_format", "2006-01-02")

	v.SetConfigType("toml")

	cfgPath := os.Getenv("WEALTHFLOW_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "wealthflow"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("WEALTHFLOW")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}
