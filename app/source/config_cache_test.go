package source

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfigFile(t *testing.T, dir, name, content string) {
	t.Helper()

	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
}

func TestConfigCache_Run(t *testing.T) {
	dir := t.TempDir()

	writeConfigFile(t, dir, "hackernews.yml", `
url: https://news.ycombinator.com/rss
kind: generic
settings:
  enabled: true
  timeout: 10
`)
	writeConfigFile(t, dir, "reddit-ai.yml", `
url: https://www.reddit.com/r/artificial/.rss
kind: reddit
settings:
  enabled: false
`)

	cache := NewConfigCache(dir)
	if err := cache.Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if cache.GetConfigCount() != 2 {
		t.Errorf("Expected 2 configs, got %d", cache.GetConfigCount())
	}

	config, err := cache.GetConfig("hackernews")
	if err != nil {
		t.Fatalf("GetConfig failed: %v", err)
	}
	if config.URL != "https://news.ycombinator.com/rss" {
		t.Errorf("Unexpected URL: %s", config.URL)
	}
	if config.Settings.Timeout != 10 {
		t.Errorf("Expected timeout 10, got %d", config.Settings.Timeout)
	}

	enabled := cache.GetEnabledConfigs()
	if len(enabled) != 1 {
		t.Fatalf("Expected 1 enabled config, got %d", len(enabled))
	}
	if enabled[0].Name != "hackernews" {
		t.Errorf("Expected enabled config 'hackernews', got %q", enabled[0].Name)
	}
}

func TestConfigCache_TimeoutDefault(t *testing.T) {
	dir := t.TempDir()

	writeConfigFile(t, dir, "feed.yml", `
url: https://example.com/rss
settings:
  enabled: true
`)

	cache := NewConfigCache(dir)
	if err := cache.Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	config, err := cache.GetConfig("feed")
	if err != nil {
		t.Fatalf("GetConfig failed: %v", err)
	}
	if config.Settings.Timeout != 30 {
		t.Errorf("Expected default timeout 30, got %d", config.Settings.Timeout)
	}
}

func TestConfigCache_InvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing url", "kind: generic\nsettings:\n  enabled: true\n"},
		{"unknown kind", "url: https://example.com/rss\nkind: telegraph\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfigFile(t, dir, "bad.yml", tt.content)

			cache := NewConfigCache(dir)
			if err := cache.Run(); err == nil {
				t.Error("Expected error for invalid config")
			}
		})
	}
}

func TestConfigCache_MissingDirIsEmpty(t *testing.T) {
	cache := NewConfigCache(filepath.Join(t.TempDir(), "does-not-exist"))
	if err := cache.Run(); err != nil {
		t.Fatalf("Run on missing dir should succeed, got: %v", err)
	}
	if cache.GetConfigCount() != 0 {
		t.Errorf("Expected 0 configs, got %d", cache.GetConfigCount())
	}
}
