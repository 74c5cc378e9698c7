package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	want := Default()
	if *cfg != *want {
		t.Errorf("Load() = %+v, want defaults %+v", cfg, want)
	}
}

func TestLoad_EmptyPath(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Listen != DefaultListen {
		t.Errorf("Listen = %q, want %q", cfg.Listen, DefaultListen)
	}
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
base_url: https://example.edu
listen: 0.0.0.0:9000
log_level: debug
location: Main Campus
refresh: "0 */2 * * *"
rate_per_second: 0.5
request_timeout: 10s
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.BaseURL != "https://example.edu" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.Listen != "0.0.0.0:9000" {
		t.Errorf("Listen = %q", cfg.Listen)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
	if cfg.Location != "Main Campus" {
		t.Errorf("Location = %q", cfg.Location)
	}
	if cfg.Refresh != "0 */2 * * *" {
		t.Errorf("Refresh = %q", cfg.Refresh)
	}
	if cfg.RatePerSecond != 0.5 {
		t.Errorf("RatePerSecond = %v", cfg.RatePerSecond)
	}
	if cfg.RequestTimeout != 10*time.Second {
		t.Errorf("RequestTimeout = %v", cfg.RequestTimeout)
	}
	// untouched fields keep defaults
	if cfg.Timezone != Default().Timezone {
		t.Errorf("Timezone = %q, want default", cfg.Timezone)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "listen: 0.0.0.0:9000\nlocation: Main Campus\n")

	t.Setenv("EWUCAL_LISTEN", ":7070")
	t.Setenv("EWUCAL_RATE_PER_SECOND", "4")
	t.Setenv("EWUCAL_SNS_TOPIC_ARN", "arn:aws:sns:ap-south-1:123456789012:ewucal")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Listen != ":7070" {
		t.Errorf("Listen = %q, want env override :7070", cfg.Listen)
	}
	if cfg.RatePerSecond != 4 {
		t.Errorf("RatePerSecond = %v, want 4", cfg.RatePerSecond)
	}
	if cfg.Location != "Main Campus" {
		t.Errorf("Location = %q, want file value", cfg.Location)
	}
	if cfg.SNSTopicARN != "arn:aws:sns:ap-south-1:123456789012:ewucal" {
		t.Errorf("SNSTopicARN = %q", cfg.SNSTopicARN)
	}
	if cfg.DataDir != DefaultDataDir {
		t.Errorf("DataDir = %q, want default", cfg.DataDir)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad yaml", "listen: [unclosed"},
		{"bad log level", "log_level: chatty"},
		{"bad offset", "utc_offset: six hours"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.content)); err == nil {
				t.Error("Load() expected error, got nil")
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	cfg := &Config{Listen: ":1234"}
	cfg.Normalize()

	if cfg.Listen != ":1234" {
		t.Errorf("Listen = %q, want kept value", cfg.Listen)
	}
	if cfg.RatePerSecond != DefaultRatePerSecond {
		t.Errorf("RatePerSecond = %v, want default", cfg.RatePerSecond)
	}
	if cfg.RequestTimeout != DefaultRequestTimeout {
		t.Errorf("RequestTimeout = %v, want default", cfg.RequestTimeout)
	}
}
