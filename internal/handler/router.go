package handler

import (
	"context"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/conlit/backend/internal/infrastructure"
	"github.com/conlit/backend/internal/middleware"
	"github.com/conlit/backend/internal/service"
)

// RouterConfig holds everything the HTTP router needs
type RouterConfig struct {
	Analysis *service.AnalysisService
	Corpus   *service.CorpusService
	Tokens   *service.TokenService
	Metrics  *infrastructure.TelemetryMetrics
	Logger   *zap.Logger

	Server    *infrastructure.ServerConfig
	Telemetry *infrastructure.TelemetryConfig

	// HealthCheck reports backing store health; nil means always healthy
	HealthCheck func(ctx context.Context) error
}

// NewRouter builds the gin engine with middleware and routes
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	corsConfig := middleware.DefaultCORSConfig()
	if len(cfg.Server.AllowedOrigins) > 0 {
		corsConfig = middleware.ProductionCORSConfig(cfg.Server.AllowedOrigins)
	}

	router := gin.New()

	router.Use(middleware.RecoveryMiddleware(cfg.Logger))
	router.Use(middleware.LoggingMiddleware(cfg.Logger))
	router.Use(middleware.CORSMiddleware(corsConfig))
	router.Use(middleware.TracingMiddleware(cfg.Telemetry.ServiceName))
	router.Use(middleware.SpanAttributesMiddleware())
	router.Use(middleware.MetricsMiddleware(cfg.Metrics))

	analysisHandler := NewAnalysisHandler(cfg.Analysis, cfg.Logger)
	corpusHandler := NewCorpusHandler(cfg.Corpus, cfg.Logger)
	adminHandler := NewAdminHandler(cfg.Tokens, cfg.Logger)

	router.GET("/", func(c *gin.Context) {
		paths := make([]string, 0)
		seen := make(map[string]bool)
		for _, route := range router.Routes() {
			if !seen[route.Path] {
				seen[route.Path] = true
				paths = append(paths, route.Path)
			}
		}
		sort.Strings(paths)

		c.JSON(http.StatusOK, gin.H{
			"message": "Welcome to the Conlit API!",
			"version": cfg.Telemetry.ServiceVersion,
			"paths":   paths,
		})
	})

	router.GET("/health", func(c *gin.Context) {
		if cfg.HealthCheck != nil {
			if err := cfg.HealthCheck(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status": "unhealthy",
					"error":  "solved cache unavailable",
				})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"version":   cfg.Telemetry.ServiceVersion,
			"questions": cfg.Corpus.Index().Len(),
		})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/v1")
	{
		user := v1.Group("/user/:username")
		user.Use(middleware.SessionMiddleware())
		{
			user.GET("/profile", analysisHandler.GetProfile)
			user.GET("/analysis", analysisHandler.GetAnalysis)
			user.GET("/analysis/performance-summary", analysisHandler.GetPerformanceSummary)
			user.GET("/analysis/topic-gaps", analysisHandler.GetTopicGaps)
			user.GET("/analysis/nemesis-problems", analysisHandler.GetNemesisProblems)
			user.GET("/analysis/unsolved-contests", analysisHandler.GetUnsolvedContests)
		}

		corpus := v1.Group("/corpus")
		{
			corpus.GET("/stats", corpusHandler.GetStats)
			corpus.GET("/questions/:slug", corpusHandler.GetQuestion)
		}

		admin := v1.Group("/admin")
		{
			admin.POST("/login", adminHandler.Login)
			admin.POST("/refresh", adminHandler.Refresh)

			protected := admin.Group("")
			protected.Use(middleware.AdminAuthMiddleware(cfg.Tokens))
			{
				protected.POST("/corpus/reload", corpusHandler.Reload)
			}
		}
	}

	return router
}
