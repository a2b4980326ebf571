package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName string `env:"SERVICE_NAME" envDefault:"hivedesk"`
	HTTPPort    string `env:"HTTP_PORT" envDefault:"8080"`
	PostgresDSN string `env:"POSTGRES_DSN"`

	SessionJWTSecret string `env:"SESSION_JWT_SECRET"`
	AdminAPIKey      string `env:"ADMIN_API_KEY"`

	IdentityBaseURL string `env:"IDENTITY_BASE_URL" envDefault:"https://api.identity.example.com"`
	IdentityAPIKey  string `env:"IDENTITY_API_KEY"`

	WebhookSecret    string        `env:"WEBHOOK_SECRET"`
	WebhookTolerance time.Duration `env:"WEBHOOK_TOLERANCE" envDefault:"5m"`

	WorkerPollInterval time.Duration `env:"WORKER_POLL_INTERVAL" envDefault:"2s"`
	OutboxBatchSize    int           `env:"OUTBOX_BATCH_SIZE" envDefault:"100"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
