package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/i474232898/smart-insole-relay/internal/sensor/upstream"
)

var validate = validator.New()

type AppConfig struct {
	AppEnv   string `validate:"oneof=dev prod"`
	LogLevel slog.Level
	Port     string `validate:"required,numeric"`

	// StaticDir is served at / for the dashboard assets.
	StaticDir string

	UpstreamURL     string        `validate:"required,url"`
	UpstreamTimeout time.Duration `validate:"gt=0"`

	// Breaker settings for the data endpoints (0 failures = never trip, the default).
	BreakerFailures uint32
	BreakerCooldown time.Duration `validate:"gte=0"`

	// ProbeInterval controls the background upstream check (0 = disabled).
	ProbeInterval time.Duration `validate:"gte=0"`
	// ProbeHistory is how many probe results are kept for /health.
	ProbeHistory int `validate:"gte=0"`
}

// Load reads configuration from environment with sensible defaults.
// It is called once at startup; nothing downstream reads the environment.
func Load() (*AppConfig, error) {
	cfg := &AppConfig{}

	cfg.AppEnv = getenvDefault("APP_ENV", "dev")

	level, err := parseLogLevel(getenvDefault("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level

	cfg.Port = getenvDefault("PORT", "5000")
	cfg.StaticDir = getenvDefault("STATIC_DIR", "public")
	cfg.UpstreamURL = getenvDefault("UPSTREAM_URL", upstream.DefaultURL)

	if cfg.UpstreamTimeout, err = getenvDuration("UPSTREAM_TIMEOUT", upstream.DefaultTimeout); err != nil {
		return nil, err
	}

	failures, err := getenvInt("UPSTREAM_BREAKER_FAILURES", 0)
	if err != nil {
		return nil, err
	}
	if failures < 0 {
		return nil, fmt.Errorf("invalid UPSTREAM_BREAKER_FAILURES: %d", failures)
	}
	cfg.BreakerFailures = uint32(failures)

	if cfg.BreakerCooldown, err = getenvDuration("UPSTREAM_BREAKER_COOLDOWN", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.ProbeInterval, err = getenvDuration("UPSTREAM_PROBE_INTERVAL", time.Minute); err != nil {
		return nil, err
	}
	if cfg.ProbeHistory, err = getenvInt("UPSTREAM_PROBE_HISTORY", 60); err != nil {
		return nil, err
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Upstream returns the client settings used by the data endpoints.
func (c *AppConfig) Upstream() upstream.Config {
	return upstream.Config{
		URL:     c.UpstreamURL,
		Timeout: c.UpstreamTimeout,
		Breaker: upstream.BreakerConfig{
			Failures: c.BreakerFailures,
			Cooldown: c.BreakerCooldown,
		},
	}
}

// ProbeUpstream returns the client settings for the background probe. The
// probe never trips a breaker, so its failures cannot affect the data endpoints.
func (c *AppConfig) ProbeUpstream() upstream.Config {
	return upstream.Config{
		URL:     c.UpstreamURL,
		Timeout: c.UpstreamTimeout,
	}
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q (allowed: debug, info, warn, error)", s)
	}
}

func getenvDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
