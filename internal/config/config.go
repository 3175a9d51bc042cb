package config

import (
	"context"
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// App holds core runtime configuration shared across services.
type App struct {
	Name                    string        `env:"APP_NAME" envDefault:"queple-server"`
	Env                     string        `env:"APP_ENV" envDefault:"development"`
	HTTPAddr                string        `env:"HTTP_ADDR" envDefault:"0.0.0.0:8080"`
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_SECONDS" envDefault:"20s"`

	Postgres Postgres
	Redis    Redis
	Security Security
	AI       AI
	Deck     Deck
}

// Postgres captures connection info for the SQL database.
type Postgres struct {
	Host     string `env:"PG_HOST,notEmpty"`
	Port     int    `env:"PG_PORT" envDefault:"5432"`
	User     string `env:"PG_USER,notEmpty"`
	Password string `env:"PG_PASSWORD,notEmpty"`
	Database string `env:"PG_DATABASE,notEmpty"`
	SSLMode  string `env:"PG_SSL_MODE" envDefault:"disable"`
}

// Redis holds cache configuration. An empty Addr disables caching.
type Redis struct {
	Addr     string `env:"REDIS_ADDR"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
	PoolSize int    `env:"REDIS_POOL_SIZE" envDefault:"20"`
}

// Security stores secrets for session token signing.
type Security struct {
	SessionSecret string        `env:"SESSION_SECRET,notEmpty"`
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"720h"`
}

// AI configures the generative text service.
type AI struct {
	APIKey      string        `env:"GEMINI_API_KEY"`
	Model       string        `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash-preview-09-2025"`
	BaseURL     string        `env:"GEMINI_BASE_URL" envDefault:"https://generativelanguage.googleapis.com/v1beta"`
	HTTPTimeout time.Duration `env:"AI_HTTP_TIMEOUT" envDefault:"12s"`
}

// Deck groups deck-assembly defaults.
type Deck struct {
	Size              int           `env:"DECK_SIZE" envDefault:"6"`
	BucketFetchLimit  int           `env:"DECK_BUCKET_FETCH_LIMIT" envDefault:"30"`
	FreshContentRatio float64       `env:"RECOMMEND_FRESH_RATIO" envDefault:"0.2"`
	SeenCacheTTL      time.Duration `env:"SEEN_CACHE_TTL" envDefault:"5m"`
}

// Load parses environment variables into App config. Fields without a
// notEmpty tag are optional and disable their feature when unset.
func Load(ctx context.Context) (*App, error) {
	cfg := &App{}
	if err := env.ParseWithOptions(cfg, env.Options{}); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
