package config

import (
	"errors"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if PROFILEFETCH_CONFIG is set
//  3. env (prefix PROFILEFETCH_)
func Load() (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("PROFILEFETCH_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// Environment variables: PROFILEFETCH_TOKEN, PROFILEFETCH_LOG_LEVEL, ...
	// Map env keys like PROFILEFETCH_CACHE_BACKEND -> cache_backend so they
	// line up with the koanf tags on the struct.
	envProvider := env.Provider("PROFILEFETCH_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "profilefetch_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}

	switch cfg.CacheBackend {
	case "memory":
	case "redis":
		if cfg.RedisAddr == "" {
			return nil, errors.New("redis_addr must be set when cache_backend is redis")
		}
	default:
		return nil, errors.New("cache_backend must be memory or redis")
	}
	if cfg.UserAgent == "" {
		return nil, errors.New("user_agent must not be empty")
	}
	if cfg.EventMonths <= 0 {
		return nil, errors.New("event_months must be positive")
	}
	return &cfg, nil
}
