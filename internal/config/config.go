package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Guizzs26/go-sync-baserow/internal/models"
	cenv "github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	MaxRetryCount = 10
	MaxRetryWait  = 300
)

type Config struct {
	BaserowURL     string `env:"BASEROW_URL" validate:"required,http_url"`
	BaserowAPIKey  string `env:"BASEROW_API_KEY" validate:"required"`
	TableID        int    `env:"BASEROW_TABLE_ID" validate:"gt=0"`
	SchemaFile     string `env:"BASEROW_SCHEMA_FILE"`
	RetryMaxCount  int    `env:"RETRY_MAX_COUNT" envDefault:"3" validate:"gte=0"`
	RetryWaitSec   int    `env:"RETRY_WAIT_SEC" envDefault:"10" validate:"gte=0"`
	HTTPTimeoutSec int    `env:"HTTP_TIMEOUT_SEC" envDefault:"30" validate:"gt=0"`
	LogLevel       string `env:"LOG_LEVEL" envDefault:"INFO"`
	LogFormat      string `env:"LOG_FORMAT" envDefault:"TEXT" validate:"oneof=TEXT JSON TINT text json tint"`
	MetricsPort    string `env:"METRICS_PORT"`
}

// Load reads .env (if present) and the process environment
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := cenv.Parse(cfg); err != nil {
		return nil, &models.ConfigError{Reason: err.Error()}
	}

	cfg.normalize()
	return cfg, nil
}

func (c *Config) normalize() {
	c.BaserowURL = strings.TrimRight(strings.TrimSpace(c.BaserowURL), "/")
	c.BaserowAPIKey = strings.TrimSpace(c.BaserowAPIKey)

	if c.RetryMaxCount > MaxRetryCount {
		slog.Warn("RETRY_MAX_COUNT exceeds safety limit. Clamping to maximum", "requested", c.RetryMaxCount, "limit", MaxRetryCount)
		c.RetryMaxCount = MaxRetryCount
	}
	if c.RetryWaitSec > MaxRetryWait {
		slog.Warn("RETRY_WAIT_SEC exceeds safety limit. Clamping to maximum", "requested", c.RetryWaitSec, "limit", MaxRetryWait)
		c.RetryWaitSec = MaxRetryWait
	}
}

// Validate reports the first invalid setting as a *models.ConfigError
func (c *Config) Validate() error {
	c.normalize()

	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &models.ConfigError{
			Field:  fe.Field(),
			Reason: fmt.Sprintf("failed %q check (value %q)", fe.Tag(), redact(fe.Field(), fe.Value())),
		}
	}
	return &models.ConfigError{Reason: err.Error()}
}

func redact(field string, v any) string {
	if field == "BaserowAPIKey" {
		return "***"
	}
	return fmt.Sprint(v)
}

func (c *Config) RetryWait() time.Duration {
	return time.Duration(c.RetryWaitSec) * time.Second
}

func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSec) * time.Second
}
