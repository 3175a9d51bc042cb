package config

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("PG_HOST", "db.local")
	t.Setenv("PG_USER", "queple")
	t.Setenv("PG_PASSWORD", "secret")
	t.Setenv("PG_DATABASE", "queple")
	t.Setenv("SESSION_SECRET", "s3cret")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "queple-server", cfg.Name)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTPAddr)
	assert.Equal(t, 5432, cfg.Postgres.Port)
	assert.Equal(t, "disable", cfg.Postgres.SSLMode)
	assert.Equal(t, 6, cfg.Deck.Size)
	assert.Equal(t, 30, cfg.Deck.BucketFetchLimit)
	assert.Equal(t, 0.2, cfg.Deck.FreshContentRatio)
	assert.Equal(t, 5*time.Minute, cfg.Deck.SeenCacheTTL)
	assert.Equal(t, 720*time.Hour, cfg.Security.SessionTTL)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Empty(t, cfg.AI.APIKey)
}

func TestLoadOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("REDIS_ADDR", "cache.local:6379")
	t.Setenv("GEMINI_API_KEY", "key-123")
	t.Setenv("DECK_BUCKET_FETCH_LIMIT", "50")

	cfg, err := Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, "cache.local:6379", cfg.Redis.Addr)
	assert.Equal(t, "key-123", cfg.AI.APIKey)
	assert.Equal(t, 50, cfg.Deck.BucketFetchLimit)
}

func TestLoadMissingRequired(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SESSION_SECRET", "")

	_, err := Load(context.Background())

	assert.Error(t, err)
}
