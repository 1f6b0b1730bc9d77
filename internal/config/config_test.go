package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v", err)
	}

	if cfg.Endpoint != "http://localhost:3000/api/analyze" {
		t.Errorf("Endpoint = %s, want default analyze URL", cfg.Endpoint)
	}

	if cfg.Detector.TimeoutSeconds != 30 {
		t.Errorf("TimeoutSeconds = %d, want 30", cfg.Detector.TimeoutSeconds)
	}

	if cfg.History.Enabled {
		t.Error("History.Enabled = true, want false by default")
	}
}

func TestLoadFromEnv(t *testing.T) {
	os.Setenv("SAFEPOST_ENDPOINT", "http://detector:9000/api/analyze")
	os.Setenv("SAFEPOST_LOG_LEVEL", "debug")
	defer func() {
		os.Unsetenv("SAFEPOST_ENDPOINT")
		os.Unsetenv("SAFEPOST_LOG_LEVEL")
	}()

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v", err)
	}

	if cfg.Endpoint != "http://detector:9000/api/analyze" {
		t.Errorf("Endpoint = %s, want http://detector:9000/api/analyze", cfg.Endpoint)
	}

	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %s, want debug", cfg.Log.Level)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
endpoint: "http://custom:3000/api/analyze"
corpus_dir: "./images"
detector:
  timeout_seconds: 60
  requests_per_second: 2
log:
  level: warn
  format: json
history:
  enabled: true
  redis_url: "redis://cache:6379"
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Endpoint != "http://custom:3000/api/analyze" {
		t.Errorf("Endpoint = %s, want http://custom:3000/api/analyze", cfg.Endpoint)
	}

	if cfg.CorpusDir != "./images" {
		t.Errorf("CorpusDir = %s, want ./images", cfg.CorpusDir)
	}

	if cfg.Detector.TimeoutSeconds != 60 {
		t.Errorf("TimeoutSeconds = %d, want 60", cfg.Detector.TimeoutSeconds)
	}

	if cfg.Log.Format != "json" {
		t.Errorf("Log.Format = %s, want json", cfg.Log.Format)
	}

	if !cfg.History.Enabled || cfg.History.RedisURL != "redis://cache:6379" {
		t.Errorf("History = %+v, want enabled with redis://cache:6379", cfg.History)
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)
	cfg.Endpoint = "not a url"
	cfg.Detector.TimeoutSeconds = 0
	cfg.Log.Level = "loud"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() = nil, want error")
	}

	msg := err.Error()
	for _, want := range []string{"invalid endpoint URL", "timeout_seconds must be positive", "invalid log level"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Validate() error missing %q:\n%s", want, msg)
		}
	}
}

func TestValidateHistoryRequiresURL(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)
	cfg.History.Enabled = true
	cfg.History.RedisURL = ""

	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "history.redis_url") {
		t.Errorf("Validate() = %v, want history.redis_url error", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("Load() with missing file = nil, want error")
	}
}
