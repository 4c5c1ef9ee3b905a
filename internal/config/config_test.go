package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/profilefetch/profilefetch/internal/config"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PROFILEFETCH_CONFIG",
		"PROFILEFETCH_LOG_LEVEL",
		"PROFILEFETCH_TOKEN",
		"PROFILEFETCH_BASE_URL",
		"PROFILEFETCH_CACHE_BACKEND",
		"PROFILEFETCH_REDIS_ADDR",
		"PROFILEFETCH_EVENT_MONTHS",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if cfg.BaseURL != "https://api.github.com" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.CacheBackend != "memory" {
		t.Errorf("CacheBackend = %q, want memory", cfg.CacheBackend)
	}
	if cfg.EventMonths != 6 {
		t.Errorf("EventMonths = %d, want 6", cfg.EventMonths)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PROFILEFETCH_LOG_LEVEL", "debug")
	t.Setenv("PROFILEFETCH_TOKEN", "ghp_test")
	t.Setenv("PROFILEFETCH_EVENT_MONTHS", "12")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if cfg.Token != "ghp_test" {
		t.Errorf("Token = %q", cfg.Token)
	}
	if cfg.EventMonths != 12 {
		t.Errorf("EventMonths = %d, want 12", cfg.EventMonths)
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := "log_level: warn\ncache_backend: redis\nredis_addr: redis:6379\n"
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("PROFILEFETCH_CONFIG", path)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want warn", cfg.LogLevel)
	}
	if cfg.CacheBackend != "redis" || cfg.RedisAddr != "redis:6379" {
		t.Errorf("cache = (%q, %q)", cfg.CacheBackend, cfg.RedisAddr)
	}
}

func TestLoad_EnvBeatsFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("log_level: warn\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("PROFILEFETCH_CONFIG", path)
	t.Setenv("PROFILEFETCH_LOG_LEVEL", "error")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.LogLevel != "error" {
		t.Errorf("LogLevel = %q, want error (env should win)", cfg.LogLevel)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad_backend", "PROFILEFETCH_CACHE_BACKEND", "memcached"},
		{"zero_months", "PROFILEFETCH_EVENT_MONTHS", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			if _, err := config.Load(); err == nil {
				t.Errorf("Load() with %s=%s expected error", tt.key, tt.value)
			}
		})
	}
}
