package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("WEALTHFLOW_CONFIG", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, filepath.Join(home, ".local", "share", "wealthflow", "wealthflow.db"), cfg.Database.Path)
	require.Equal(t, filepath.Join(home, ".local", "share", "wealthflow", "wealthflow.v1.json"), cfg.Database.LegacyPath)
	require.Equal(t, "$", cfg.UI.CurrencySymbol)
	require.Equal(t, "2006-01-02", cfg.UI.DateFormat)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("WEALTHFLOW_DATABASE_PATH", "/tmp/elsewhere.db")
	t.Setenv("WEALTHFLOW_UI_CURRENCY_SYMBOL", "£")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "/tmp/elsewhere.db", cfg.Database.Path)
	require.Equal(t, "£", cfg.UI.CurrencySymbol)
}

func TestLoadConfigFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfgPath := filepath.Join(home, "config.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
[database]
path = "/tmp/from-file.db"

[ui]
currency_symbol = "€"
`), 0o644))
	t.Setenv("WEALTHFLOW_CONFIG", cfgPath)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "/tmp/from-file.db", cfg.Database.Path)
	require.Equal(t, "€", cfg.UI.CurrencySymbol)
	// untouched keys keep their defaults
	require.Equal(t, "2006-01-02", cfg.UI.DateFormat)
}
