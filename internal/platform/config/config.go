package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds every runtime setting of the storefront. Values come from an
// optional YAML file first, then from the environment (and .env), which wins.
type Config struct {
	Port string `yaml:"port"`

	DatabaseDriver string `yaml:"database_driver"` // postgres | mysql | sqlite
	DatabaseURL    string `yaml:"database_url"`

	CartStorage string `yaml:"cart_storage"` // memory | redis | sql
	RedisURL    string `yaml:"redis_url"`

	WhatsAppPhone string `yaml:"whatsapp_phone"`
	Currency      string `yaml:"currency"`
	Locale        string `yaml:"locale"`

	JWTSecret string `yaml:"jwt_secret"`

	S3Bucket        string `yaml:"s3_bucket"`
	AWSRegion       string `yaml:"aws_region"`
	S3PublicBaseURL string `yaml:"s3_public_base_url"`

	ToastTTL            time.Duration `yaml:"toast_ttl"`
	QuickViewCloseDelay time.Duration `yaml:"quickview_close_delay"`
	AlertCheckInterval  time.Duration `yaml:"alert_check_interval"`
	SearchDebounce      time.Duration `yaml:"search_debounce"`
	SessionIdleTimeout  time.Duration `yaml:"session_idle_timeout"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"` // json | console

	TracingEnabled bool   `yaml:"otel_enabled"`
	OTLPEndpoint   string `yaml:"otel_exporter_otlp_endpoint"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Port:                "8080",
		DatabaseDriver:      "sqlite",
		DatabaseURL:         "file:storefront.db?_pragma=busy_timeout(5000)",
		CartStorage:         "sql",
		Currency:            "KES",
		Locale:              "en",
		JWTSecret:           "change-me",
		AWSRegion:           "us-east-1",
		ToastTTL:            3 * time.Second,
		QuickViewCloseDelay: 1500 * time.Millisecond,
		AlertCheckInterval:  time.Minute,
		SearchDebounce:      300 * time.Millisecond,
		SessionIdleTimeout:  2 * time.Hour,
		LogLevel:            "info",
		LogFormat:           "json",
	}
}

// Load builds the configuration. path may be empty, in which case CONFIG_FILE
// is consulted. A missing .env file is not an error.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()
	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	str := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	str("APP_PORT", &c.Port)
	str("DATABASE_DRIVER", &c.DatabaseDriver)
	str("DATABASE_URL", &c.DatabaseURL)
	str("CART_STORAGE", &c.CartStorage)
	str("REDIS_URL", &c.RedisURL)
	str("WHATSAPP_PHONE", &c.WhatsAppPhone)
	str("STORE_CURRENCY", &c.Currency)
	str("STORE_LOCALE", &c.Locale)
	str("JWT_SECRET", &c.JWTSecret)
	str("S3_BUCKET", &c.S3Bucket)
	str("AWS_REGION", &c.AWSRegion)
	str("S3_PUBLIC_BASE_URL", &c.S3PublicBaseURL)
	str("LOG_LEVEL", &c.LogLevel)
	str("LOG_FORMAT", &c.LogFormat)
	str("OTEL_EXPORTER_OTLP_ENDPOINT", &c.OTLPEndpoint)

	durations := map[string]*time.Duration{
		"TOAST_TTL":             &c.ToastTTL,
		"QUICKVIEW_CLOSE_DELAY": &c.QuickViewCloseDelay,
		"ALERT_CHECK_INTERVAL":  &c.AlertCheckInterval,
		"SEARCH_DEBOUNCE":       &c.SearchDebounce,
		"SESSION_IDLE_TIMEOUT":  &c.SessionIdleTimeout,
	}
	for key, dst := range durations {
		v := os.Getenv(key)
		if v == "" {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
		*dst = d
	}

	if v := os.Getenv("OTEL_ENABLED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid OTEL_ENABLED: %w", err)
		}
		c.TracingEnabled = b
	}
	return nil
}

// Validate rejects combinations the application cannot start with.
func (c *Config) Validate() error {
	switch c.DatabaseDriver {
	case "postgres", "mysql", "sqlite":
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q", c.DatabaseDriver)
	}
	switch c.CartStorage {
	case "memory", "sql":
	case "redis":
		if c.RedisURL == "" {
			return fmt.Errorf("CART_STORAGE=redis requires REDIS_URL")
		}
	default:
		return fmt.Errorf("unsupported CART_STORAGE %q", c.CartStorage)
	}
	if c.ToastTTL <= 0 || c.AlertCheckInterval <= 0 || c.SessionIdleTimeout <= 0 {
		return fmt.Errorf("TOAST_TTL, ALERT_CHECK_INTERVAL and SESSION_IDLE_TIMEOUT must be positive")
	}
	return nil
}
