package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	defaultAppName       = "NoteGenius"
	defaultAppEnv        = "development"
	defaultPort          = "8080"
	defaultLogLevel      = "info"
	defaultShutdownDelay = 10 * time.Second
	defaultIdemTTL       = 24 * time.Hour
	defaultDeliveryDelay = 1500 * time.Millisecond
	defaultSummaryDelay  = 2 * time.Second
	defaultDemoEmailCode = "123456"
	defaultDemoPhoneCode = "1234"
)

// Verification code issuance modes.
const (
	ModeRandom = "random"
	ModeDemo   = "demo"
)

// Config captures application runtime configuration loaded from environment variables.
type Config struct {
	AppName  string
	AppEnv   string
	Port     string
	LogLevel string

	// Optional backing stores. Empty means in-memory fallbacks.
	DatabaseURL string
	RedisURL    string

	ShutdownPeriod time.Duration
	IdempotencyTTL time.Duration

	// Verification flow knobs.
	VerificationMode string
	DemoEmailCode    string
	DemoPhoneCode    string
	RequireName      bool
	DeliveryDelay    time.Duration

	// Notes knobs.
	SummaryDelay time.Duration
}

// Load reads configuration values from the environment and populates a Config instance.
func Load() (Config, error) {
	cfg := Config{
		AppName:          getEnv("APP_NAME", defaultAppName),
		AppEnv:           strings.ToLower(getEnv("APP_ENV", defaultAppEnv)),
		Port:             getEnv("PORT", defaultPort),
		LogLevel:         strings.ToLower(getEnv("LOG_LEVEL", defaultLogLevel)),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		RedisURL:         os.Getenv("REDIS_URL"),
		ShutdownPeriod:   defaultShutdownDelay,
		IdempotencyTTL:   defaultIdemTTL,
		VerificationMode: strings.ToLower(getEnv("VERIFICATION_MODE", ModeDemo)),
		DemoEmailCode:    getEnv("DEMO_EMAIL_CODE", defaultDemoEmailCode),
		DemoPhoneCode:    getEnv("DEMO_PHONE_CODE", defaultDemoPhoneCode),
		RequireName:      true,
		DeliveryDelay:    defaultDeliveryDelay,
		SummaryDelay:     defaultSummaryDelay,
	}

	var err error
	if cfg.ShutdownPeriod, err = durationEnv("SHUTDOWN_TIMEOUT", cfg.ShutdownPeriod); err != nil {
		return Config{}, err
	}
	if cfg.IdempotencyTTL, err = durationEnv("IDEMPOTENCY_TTL", cfg.IdempotencyTTL); err != nil {
		return Config{}, err
	}
	if cfg.DeliveryDelay, err = durationEnv("DELIVERY_DELAY", cfg.DeliveryDelay); err != nil {
		return Config{}, err
	}
	if cfg.SummaryDelay, err = durationEnv("SUMMARY_DELAY", cfg.SummaryDelay); err != nil {
		return Config{}, err
	}

	if v := os.Getenv("REQUIRE_NAME"); v != "" {
		switch strings.ToLower(v) {
		case "1", "true", "yes":
			cfg.RequireName = true
		case "0", "false", "no":
			cfg.RequireName = false
		default:
			return Config{}, fmt.Errorf("invalid REQUIRE_NAME: %q", v)
		}
	}

	switch cfg.VerificationMode {
	case ModeRandom, ModeDemo:
	default:
		return Config{}, fmt.Errorf("invalid VERIFICATION_MODE: %q (want %q or %q)", cfg.VerificationMode, ModeRandom, ModeDemo)
	}

	return cfg, nil
}

// Address returns the listen address in the format Fiber expects.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return fmt.Sprintf(":%s", c.Port)
}

// IsDev reports whether the app runs in a development-like environment.
func (c Config) IsDev() bool {
	switch c.AppEnv {
	case "dev", "development", "local":
		return true
	default:
		return false
	}
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
