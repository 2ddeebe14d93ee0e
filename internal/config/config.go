// Package config loads and saves the agent's TOML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds all gcp-cost-agent configuration.
type Config struct {
	Gemini    GeminiConfig    `toml:"gemini"`
	Warehouse WarehouseConfig `toml:"warehouse"`
	Analytics AnalyticsConfig `toml:"analytics"`
	Session   SessionConfig   `toml:"session"`
}

// GeminiConfig holds the NLU API settings. An empty key means the
// rule-based extractor runs alone.
type GeminiConfig struct {
	APIKey string `toml:"api_key,omitempty"`
	Model  string `toml:"model,omitempty"`
}

// WarehouseConfig holds the billing database location.
type WarehouseConfig struct {
	Path string `toml:"path,omitempty"`
}

// AnalyticsConfig tunes the statistical routines.
type AnalyticsConfig struct {
	AnomalyWindow    int     `toml:"anomaly_window"`
	AnomalyThreshold float64 `toml:"anomaly_threshold"`
	ForecastHorizon  int     `toml:"forecast_horizon"`
	TopK             int     `toml:"top_k"`
}

// SessionConfig holds conversational-state settings.
type SessionConfig struct {
	TTLMinutes int `toml:"ttl_minutes"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Gemini: GeminiConfig{
			Model: "gemini-2.0-flash",
		},
		Analytics: AnalyticsConfig{
			AnomalyWindow:    6,
			AnomalyThreshold: 2.0,
			ForecastHorizon:  1,
			TopK:             5,
		},
		Session: SessionConfig{
			TTLMinutes: 30,
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "gcp-cost-agent")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "gcp-cost-agent")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// WarehousePath returns the configured database path, or the default
// under the config dir.
func WarehousePath(cfg Config) string {
	if cfg.Warehouse.Path != "" {
		return cfg.Warehouse.Path
	}
	return filepath.Join(ConfigDir(), "billing.db")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(ConfigPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// GetGeminiKey returns the API key from env var or config, in that order.
func GetGeminiKey(cfg Config) string {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return key
	}
	return cfg.Gemini.APIKey
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}
