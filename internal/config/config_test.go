package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"reprise/internal/config"
)

func TestLoadDefaultsUsesEnvKeyAndExpandsPaths(t *testing.T) {
	t.Setenv("LASTFM_API_KEY", "env-key")
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantData := filepath.Join(tempHome, ".local", "share", "reprise")
	if cfg.Paths.DataDir != wantData {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Paths.DataDir, wantData)
	}
	if cfg.Lastfm.APIKey != "env-key" {
		t.Fatalf("expected API key from env, got %q", cfg.Lastfm.APIKey)
	}
	if cfg.Lastfm.BaseURL != config.Default().Lastfm.BaseURL {
		t.Fatalf("unexpected base url: %q", cfg.Lastfm.BaseURL)
	}
	if cfg.Lastfm.CallAttempts != 3 {
		t.Fatalf("unexpected call attempts: %d", cfg.Lastfm.CallAttempts)
	}
	if cfg.Throttle.MaxCalls != 1500 || cfg.Throttle.WindowSeconds != 300 {
		t.Fatalf("unexpected throttle defaults: %+v", cfg.Throttle)
	}
	if len(cfg.Refresh.Jobs) != 4 {
		t.Fatalf("unexpected default jobs: %v", cfg.Refresh.Jobs)
	}
	if cfg.DatabasePath() != filepath.Join(wantData, "reprise.db") {
		t.Fatalf("unexpected database path: %q", cfg.DatabasePath())
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.DataDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "reprise.toml")

	content := `
[lastfm]
api_key = "abc123"
base_url = "https://example.com/2.0/"
call_attempts = 5
retry_delay_seconds = 1

[throttle]
max_calls = 10
window_seconds = 60

[refresh]
jobs = ["artist.getInfo"]
chart_pages = 0
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("unexpected resolution: resolved=%q exists=%v", resolved, exists)
	}
	if cfg.Lastfm.APIKey != "abc123" {
		t.Fatalf("unexpected api key: %q", cfg.Lastfm.APIKey)
	}
	if cfg.Lastfm.CallAttempts != 5 || cfg.Lastfm.RetryDelaySeconds != 1 {
		t.Fatalf("unexpected retry policy: %+v", cfg.Lastfm)
	}
	if cfg.Throttle.MaxCalls != 10 {
		t.Fatalf("unexpected throttle: %+v", cfg.Throttle)
	}
	if len(cfg.Refresh.Jobs) != 1 || cfg.Refresh.Jobs[0] != "artist.getInfo" {
		t.Fatalf("unexpected jobs: %v", cfg.Refresh.Jobs)
	}
	if cfg.Refresh.ChartPages != 0 {
		t.Fatalf("expected chart pages 0, got %d", cfg.Refresh.ChartPages)
	}
	// Unset values fall back to defaults.
	if cfg.Refresh.Workers != config.Default().Refresh.Workers {
		t.Fatalf("unexpected workers: %d", cfg.Refresh.Workers)
	}
}

func TestLoadRejectsMissingAPIKey(t *testing.T) {
	t.Setenv("LASTFM_API_KEY", "")
	t.Setenv("HOME", t.TempDir())

	_, _, _, err := config.Load("")
	if err == nil {
		t.Fatal("expected error for missing api key")
	}
	if !strings.Contains(err.Error(), "lastfm.api_key") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoadRejectsUnknownJob(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "reprise.toml")
	content := `
[lastfm]
api_key = "abc123"

[refresh]
jobs = ["artist.getPlaylists"]
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	_, _, _, err := config.Load(configPath)
	if err == nil || !strings.Contains(err.Error(), "unknown call type") {
		t.Fatalf("expected unknown job error, got %v", err)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"negative retry delay": `
[lastfm]
api_key = "k"
retry_delay_seconds = -1
`,
		"bad base url": `
[lastfm]
api_key = "k"
base_url = "ftp://example.com"
`,
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "reprise.toml")
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			if _, _, _, err := config.Load(path); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestCreateSampleProducesLoadableConfig(t *testing.T) {
	t.Setenv("LASTFM_API_KEY", "sample-key")
	path := filepath.Join(t.TempDir(), "conf", "config.toml")

	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load sample: %v", err)
	}
	if !exists {
		t.Fatal("expected sample file to exist")
	}
	if cfg.Lastfm.BaseURL != config.Default().Lastfm.BaseURL {
		t.Fatalf("unexpected sample base url: %q", cfg.Lastfm.BaseURL)
	}
}
