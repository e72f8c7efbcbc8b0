// Package app wires configuration into the service graph shared by the API
// server and the command-line tool.
package app

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/conlit/backend/internal/domain"
	"github.com/conlit/backend/internal/infrastructure"
	"github.com/conlit/backend/internal/leetcode"
	"github.com/conlit/backend/internal/llm"
	"github.com/conlit/backend/internal/repository"
	"github.com/conlit/backend/internal/service"
)

// App holds the constructed services and the resources backing them
type App struct {
	Config   *infrastructure.Config
	LeetCode *leetcode.Client
	Corpus   *service.CorpusService
	Solved   *service.SolvedSetResolver
	Coach    *service.CoachService
	Analysis *service.AnalysisService
	Tokens   *service.TokenService

	database *infrastructure.Database
	redis    *redis.Client
	logger   *zap.Logger
}

// New builds every service from cfg. Callers must Close the result.
func New(
	ctx context.Context,
	cfg *infrastructure.Config,
	tracer trace.Tracer,
	metrics *infrastructure.TelemetryMetrics,
	logger *zap.Logger,
) (*App, error) {
	a := &App{Config: cfg, logger: logger}

	cache, err := a.openSolvedCache(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	var provider llm.Provider
	if cfg.LLM.Enabled {
		provider, err = llm.NewProvider(ctx, cfg.LLM.Provider, logger.Named("llm"))
		if err != nil {
			logger.Warn("Coaching disabled: LLM provider could not be initialized", zap.Error(err))
			provider = nil
		}
	} else {
		logger.Info("Coaching disabled: no LLM provider configured")
	}

	a.LeetCode = leetcode.NewClient(&cfg.LeetCode, tracer, metrics, logger)
	a.Corpus = service.NewCorpusService(cfg.Corpus.Path, tracer, logger)
	a.Solved = service.NewSolvedSetResolver(a.LeetCode, cache, tracer, metrics, logger)
	a.Coach = service.NewCoachService(provider, cfg.Analysis.CoachMaxTokens, cfg.LLM.Provider.Timeout, tracer, metrics, logger)
	a.Analysis = service.NewAnalysisService(
		a.LeetCode,
		a.Corpus,
		a.Solved,
		a.Coach,
		&cfg.Analysis,
		cfg.LeetCode.SubmissionLimit,
		tracer,
		metrics,
		logger,
	)
	a.Tokens = service.NewTokenService(&cfg.JWT, tracer, logger)

	return a, nil
}

// openSolvedCache opens the configured solved-set cache backend
func (a *App) openSolvedCache(ctx context.Context) (domain.SolvedCacheRepository, error) {
	switch backend := a.Config.Cache.Backend; backend {
	case "database":
		database, err := infrastructure.NewDatabase(&a.Config.Database, a.logger)
		if err != nil {
			return nil, err
		}
		a.database = database
		if err := database.AutoMigrate(); err != nil {
			return nil, err
		}
		return repository.NewSolvedCacheRepository(database.DB), nil
	case "redis":
		rdb, err := infrastructure.NewRedisClient(ctx, &a.Config.Redis, a.logger)
		if err != nil {
			return nil, err
		}
		a.redis = rdb
		return repository.NewRedisSolvedCache(rdb, a.Config.Cache.TTL), nil
	case "memory":
		return repository.NewMemorySolvedCache(), nil
	case "none", "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported cache backend: %q", backend)
	}
}

// HealthCheck pings the solved-cache backing store, if any
func (a *App) HealthCheck(ctx context.Context) error {
	if a.database != nil {
		if err := a.database.HealthCheck(ctx); err != nil {
			return err
		}
	}
	if a.redis != nil {
		if err := a.redis.Ping(ctx).Err(); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the database and redis connections
func (a *App) Close() {
	if a.database != nil {
		if err := a.database.Close(); err != nil {
			a.logger.Error("Failed to close database", zap.Error(err))
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error("Failed to close redis", zap.Error(err))
		}
	}
}
