// Package config defines process configuration and its loading order.
package config

// Config contains process configuration for the profilefetch CLI.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogPretty enables human-readable console output instead of JSON.
	LogPretty bool `koanf:"log_pretty"`

	// BaseURL is the GitHub API root.
	BaseURL string `koanf:"base_url"`

	// Token, when set, authenticates requests for a larger rate budget.
	Token string `koanf:"token"`

	// UserAgent identifies this client to the API.
	UserAgent string `koanf:"user_agent"`

	// TimeoutSeconds bounds each individual network call.
	TimeoutSeconds int `koanf:"timeout_seconds"`

	// RetryMaxAttempts caps attempts per request, including the first.
	RetryMaxAttempts int `koanf:"retry_max_attempts"`

	// CacheBackend selects the cache store: memory or redis.
	CacheBackend string `koanf:"cache_backend"`

	// RedisAddr is the Redis address when cache_backend is redis.
	RedisAddr string `koanf:"redis_addr"`

	// EventMonths is how far back the activity window reaches.
	EventMonths int `koanf:"event_months"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		LogPretty:        true,
		BaseURL:          "https://api.github.com",
		UserAgent:        "profilefetch/1.0",
		TimeoutSeconds:   15,
		RetryMaxAttempts: 3,
		CacheBackend:     "memory",
		RedisAddr:        "localhost:6379",
		EventMonths:      6,
	}
}
