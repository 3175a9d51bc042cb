package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/queple/queple-server/internal/config"
	"github.com/queple/queple-server/internal/db/repository"
	"github.com/queple/queple-server/internal/identity"
	"github.com/queple/queple-server/internal/logging"
	"github.com/queple/queple-server/internal/question"
	"github.com/queple/queple-server/internal/question/ai"
	"github.com/queple/queple-server/internal/question/fallback"
	"github.com/queple/queple-server/internal/reaction"
	"github.com/queple/queple-server/internal/server"
)

// Application aggregates shared infrastructure (DB, cache, HTTP server).
type Application struct {
	cfg    *config.App
	logger zerolog.Logger

	pool  *pgxpool.Pool
	redis *redis.Client
	http  *http.Server
}

// New bootstraps config, logger, Postgres, optional Redis, and the HTTP server.
func New(ctx context.Context, cfg *config.App) (*Application, error) {
	logger := logging.New(cfg.Name, cfg.Env)
	logger.Info().Msg("starting application bootstrap")

	connString := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s pool_max_conns=10",
		cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.User, cfg.Postgres.Password, cfg.Postgres.Database, cfg.Postgres.SSLMode)

	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
	} else {
		logger.Warn().Msg("REDIS_ADDR not set; seen-history caching disabled")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	userRepo := repository.NewUserRepository(pool)
	questionRepo := repository.NewQuestionRepository(pool)
	interactionRepo := repository.NewInteractionRepository(pool)

	tokenMgr := identity.NewTokenManager(identity.TokenConfig{
		Secret: []byte(cfg.Security.SessionSecret),
		TTL:    cfg.Security.SessionTTL,
		Issuer: cfg.Name,
	})
	identitySvc := identity.NewService(userRepo, tokenMgr, logger)

	var generator *ai.Client
	if cfg.AI.APIKey != "" {
		generator = ai.NewClient(ai.Config{
			APIKey:  cfg.AI.APIKey,
			Model:   cfg.AI.Model,
			BaseURL: cfg.AI.BaseURL,
			Timeout: cfg.AI.HTTPTimeout,
		}, logger)
	} else {
		logger.Warn().Msg("GEMINI_API_KEY not set; decks will fall back to the static bank on shortfall")
	}

	var seenCache *question.RedisSeenCache
	if redisClient != nil {
		seenCache = question.NewSeenCache(redisClient, cfg.Deck.SeenCacheTTL, logger)
	}

	questionSvc := question.NewService(
		questionRepo,
		generator,
		fallback.New(),
		identitySvc,
		seenCacheOrNil(seenCache),
		question.NewMetrics(reg),
		question.ServiceOptions{
			DeckSize:          cfg.Deck.Size,
			BucketFetchLimit:  cfg.Deck.BucketFetchLimit,
			FreshContentRatio: cfg.Deck.FreshContentRatio,
		},
		logger,
	)

	reactionSvc := reaction.NewService(
		interactionRepo,
		identitySvc,
		seenInvalidatorOrNil(seenCache),
		reaction.NewMetrics(reg),
		logger,
	)

	handlers := server.Handlers{
		Identity: identity.NewHTTPHandlers(identitySvc, logger),
		Question: question.NewHTTPHandlers(questionSvc, generator, logger),
		Reaction: reaction.NewHTTPHandlers(reactionSvc, logger),
	}

	apiServer := server.NewHTTPServer(cfg, logger, pool, redisClient, reg, tokenMgr, handlers)

	return &Application{
		cfg:    cfg,
		logger: logger,
		pool:   pool,
		redis:  redisClient,
		http:   apiServer,
	}, nil
}

// Run starts the HTTP server and waits for termination signals.
func (a *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info().Str("addr", a.cfg.HTTPAddr).Msg("http server listening")
		if err := a.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		a.logger.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
		a.logger.Warn().Msg("context canceled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.GracefulShutdownTimeout)
	defer cancel()

	if err := a.http.Shutdown(shutdownCtx); err != nil {
		a.logger.Error().Err(err).Msg("http shutdown error")
	}

	a.pool.Close()
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error().Err(err).Msg("redis shutdown error")
		}
	}

	a.logger.Info().Msg("shutdown complete")
	return nil
}

// Typed-nil guards: a nil *RedisSeenCache stored in an interface would not
// compare equal to nil at the call sites.
func seenCacheOrNil(c *question.RedisSeenCache) question.SeenCache {
	if c == nil {
		return nil
	}
	return c
}

func seenInvalidatorOrNil(c *question.RedisSeenCache) reaction.SeenInvalidator {
	if c == nil {
		return nil
	}
	return c
}
