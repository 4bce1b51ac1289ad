package app

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Environment variables read by ApplyEnvOverrides.
const (
	EnvBaseURL          = "LTXMD_BASE_URL"
	EnvUserAgent        = "LTXMD_USER_AGENT"
	EnvTimeout          = "LTXMD_TIMEOUT"
	EnvMaxAttempts      = "LTXMD_MAX_ATTEMPTS"
	EnvConcurrency      = "LTXMD_CONCURRENCY"
	EnvSSLVerify        = "LTXMD_SSL_VERIFY"
	EnvInsecureFallback = "LTXMD_INSECURE_FALLBACK"
	EnvRespectRobots    = "LTXMD_RESPECT_ROBOTS"
	EnvCacheDir         = "LTXMD_CACHE_DIR"
	EnvCacheMaxAge      = "LTXMD_CACHE_MAX_AGE"
	EnvVerbose          = "LTXMD_VERBOSE"
)

// ApplyEnvOverrides overrides cfg fields with environment variables when the
// corresponding env vars are set. This lets env take precedence over values
// coming from a config file while flags remain highest precedence.
// Unparseable values are ignored.
func ApplyEnvOverrides(cfg *Config) {
	if cfg == nil {
		return
	}

	if v := strings.TrimSpace(os.Getenv(EnvBaseURL)); v != "" {
		cfg.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvUserAgent)); v != "" {
		cfg.UserAgent = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvCacheDir)); v != "" {
		cfg.CacheDir = v
	}

	setDuration := func(dst *time.Duration, envKey string) {
		if s := strings.TrimSpace(os.Getenv(envKey)); s != "" {
			if d, err := time.ParseDuration(s); err == nil {
				*dst = d
			}
		}
	}
	setDuration(&cfg.Timeout, EnvTimeout)
	setDuration(&cfg.CacheMaxAge, EnvCacheMaxAge)

	setInt := func(dst *int, envKey string) {
		if s := strings.TrimSpace(os.Getenv(envKey)); s != "" {
			if n, err := strconv.Atoi(s); err == nil && n > 0 {
				*dst = n
			}
		}
	}
	setInt(&cfg.MaxAttempts, EnvMaxAttempts)
	setInt(&cfg.Concurrency, EnvConcurrency)

	// Booleans override when env present and truthy/falsey
	setBool := func(dst *bool, envKey string) {
		if s := strings.ToLower(strings.TrimSpace(os.Getenv(envKey))); s != "" {
			switch s {
			case "1", "true", "yes", "on":
				*dst = true
			case "0", "false", "no", "off":
				*dst = false
			}
		}
	}
	setBool(&cfg.SSLVerify, EnvSSLVerify)
	setBool(&cfg.InsecureFallback, EnvInsecureFallback)
	setBool(&cfg.RespectRobots, EnvRespectRobots)
	setBool(&cfg.Verbose, EnvVerbose)
}
