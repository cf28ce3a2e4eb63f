package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func testEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	return dir
}

func TestGetDefaultConfig(t *testing.T) {
	testEnv(t)

	cfg, err := GetDefaultConfig()
	if err != nil {
		t.Fatalf("getting default config: %v", err)
	}

	if cfg.StorageDir == "" {
		t.Error("expected a default storage directory")
	}
	if cfg.CatalogPath != filepath.Join(cfg.StorageDir, "catalog.json") {
		t.Errorf("unexpected default catalog path: %s", cfg.CatalogPath)
	}
	if cfg.Gateway.Timeout.Duration != 5*time.Second {
		t.Errorf("expected 5s gateway timeout, got %s", cfg.Gateway.Timeout)
	}
	if cfg.Gateway.Retries != 2 {
		t.Errorf("expected 2 retries, got %d", cfg.Gateway.Retries)
	}
	if cfg.Search.RemoteLimit != 25 || cfg.Search.CompactCap != 5 || cfg.Search.ExpandedCap != 8 {
		t.Errorf("unexpected search defaults: %+v", cfg.Search)
	}
	if cfg.Recency.Limit != 3 {
		t.Errorf("expected recency limit 3, got %d", cfg.Recency.Limit)
	}
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	dir := testEnv(t)

	cfg, err := LoadConfig(filepath.Join(dir, "nope.toml"))
	if err != nil {
		t.Fatalf("loading missing config: %v", err)
	}
	if cfg.Search.CompactCap != 5 {
		t.Errorf("expected default compact cap, got %d", cfg.Search.CompactCap)
	}
}

func TestLoadConfigFillsDefaults(t *testing.T) {
	dir := testEnv(t)
	path := filepath.Join(dir, "config.toml")

	partial := `storage_dir = "` + dir + `"

[gateway]
url = "https://search.example.com"
timeout = "10s"
`
	if err := os.WriteFile(path, []byte(partial), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("loading config: %v", err)
	}

	if cfg.StorageDir != dir {
		t.Errorf("expected storage dir %s, got %s", dir, cfg.StorageDir)
	}
	if cfg.Gateway.URL != "https://search.example.com" {
		t.Errorf("unexpected gateway url: %s", cfg.Gateway.URL)
	}
	if cfg.Gateway.Timeout.Duration != 10*time.Second {
		t.Errorf("expected 10s timeout, got %s", cfg.Gateway.Timeout)
	}
	// Everything unset falls back to defaults.
	if cfg.Gateway.Retries != 2 {
		t.Errorf("expected default retries, got %d", cfg.Gateway.Retries)
	}
	if cfg.Search.RemoteLimit != 25 {
		t.Errorf("expected default remote limit, got %d", cfg.Search.RemoteLimit)
	}
	if cfg.Recency.Limit != 3 {
		t.Errorf("expected default recency limit, got %d", cfg.Recency.Limit)
	}
}

func TestSaveAndReloadRoundTrip(t *testing.T) {
	dir := testEnv(t)
	path := filepath.Join(dir, "sub", "config.toml")

	cfg, err := GetDefaultConfig()
	if err != nil {
		t.Fatalf("getting defaults: %v", err)
	}
	cfg.Gateway.URL = "http://localhost:8080"
	cfg.Search.CompactCap = 7

	if err := cfg.SaveConfig(path); err != nil {
		t.Fatalf("saving config: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("reloading config: %v", err)
	}
	if loaded.Gateway.URL != "http://localhost:8080" {
		t.Errorf("gateway url lost in round trip: %s", loaded.Gateway.URL)
	}
	if loaded.Search.CompactCap != 7 {
		t.Errorf("compact cap lost in round trip: %d", loaded.Search.CompactCap)
	}
}

func TestSaveTemplateConfig(t *testing.T) {
	dir := testEnv(t)
	path := filepath.Join(dir, "config.toml")

	cfg := &Config{StorageDir: filepath.Join(dir, "store")}
	if err := cfg.SaveTemplateConfig(path); err != nil {
		t.Fatalf("saving template: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading template: %v", err)
	}
	text := string(data)
	if !strings.Contains(text, cfg.StorageDir) {
		t.Error("template does not reference the configured storage directory")
	}
	if strings.Contains(text, "/home/user/.local/share/scoutdeck") {
		t.Error("template placeholder was not replaced")
	}

	// The template must parse back into a valid configuration.
	if _, err := LoadConfig(path); err != nil {
		t.Fatalf("template config does not parse: %v", err)
	}
}
