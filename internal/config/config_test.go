package config

import (
	"os"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Analytics.AnomalyWindow != 6 {
		t.Errorf("AnomalyWindow = %d, want 6", cfg.Analytics.AnomalyWindow)
	}
	if cfg.Analytics.AnomalyThreshold != 2.0 {
		t.Errorf("AnomalyThreshold = %v, want 2.0", cfg.Analytics.AnomalyThreshold)
	}
	if cfg.Session.TTLMinutes != 30 {
		t.Errorf("TTLMinutes = %d, want 30", cfg.Session.TTLMinutes)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Analytics.TopK != 5 {
		t.Errorf("TopK = %d, want default 5", cfg.Analytics.TopK)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := DefaultConfig()
	cfg.Gemini.APIKey = "test-key"
	cfg.Warehouse.Path = "/tmp/billing.db"
	cfg.Analytics.AnomalyWindow = 9

	if err := Save(cfg); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Gemini.APIKey != "test-key" {
		t.Errorf("APIKey = %q", loaded.Gemini.APIKey)
	}
	if loaded.Analytics.AnomalyWindow != 9 {
		t.Errorf("AnomalyWindow = %d, want 9", loaded.Analytics.AnomalyWindow)
	}
}

func TestGeminiKeyEnvOverride(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Gemini.APIKey = "from-config"

	os.Unsetenv("GEMINI_API_KEY")
	if got := GetGeminiKey(cfg); got != "from-config" {
		t.Errorf("key = %q, want from-config", got)
	}

	t.Setenv("GEMINI_API_KEY", "from-env")
	if got := GetGeminiKey(cfg); got != "from-env" {
		t.Errorf("key = %q, want from-env", got)
	}
}
