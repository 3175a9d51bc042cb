package server

import (
	"context"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/queple/queple-server/internal/config"
	"github.com/queple/queple-server/internal/identity"
	"github.com/queple/queple-server/internal/question"
	"github.com/queple/queple-server/internal/reaction"
)

// Handlers bundles the per-domain HTTP handlers routed by the server.
type Handlers struct {
	Identity *identity.HTTPHandlers
	Question *question.HTTPHandlers
	Reaction *reaction.HTTPHandlers
}

// NewHTTPServer wires all routes for the API service.
func NewHTTPServer(cfg *config.App, logger zerolog.Logger, pool *pgxpool.Pool, redisClient *redis.Client, reg *prometheus.Registry, tokenMgr *identity.TokenManager, h Handlers) *http.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	mux.HandleFunc("/v1/ping", func(w http.ResponseWriter, r *http.Request) {
		if err := pingDependencies(r.Context(), pool, redisClient); err != nil {
			logger.Error().Err(err).Msg("dependency ping failed")
			http.Error(w, "upstream error", http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"pong":true}`))
	})

	// Identity endpoints
	mux.HandleFunc("/v1/auth/check", h.Identity.Check)
	mux.HandleFunc("/v1/auth/create", h.Identity.Create)
	mux.HandleFunc("/v1/auth/sync", h.Identity.Sync)

	// Deck + question endpoints
	mux.HandleFunc("/v1/question", h.Question.Deck)
	mux.HandleFunc("/v1/questions", h.Question.Create)
	mux.HandleFunc("/v1/questions/next", h.Question.Next)
	mux.HandleFunc("/v1/questions/react", h.Reaction.React)
	mux.HandleFunc("/v1/recommendations", h.Question.Recommendations)
	mux.HandleFunc("/v1/generate", h.Question.Generate)

	handler := identity.Middleware(tokenMgr, logger)(mux)

	return &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: handler,
	}
}

func pingDependencies(ctx context.Context, pool *pgxpool.Pool, redisClient *redis.Client) error {
	if err := pool.Ping(ctx); err != nil {
		return err
	}
	if redisClient != nil {
		if err := redisClient.Ping(ctx).Err(); err != nil {
			return err
		}
	}
	return nil
}
