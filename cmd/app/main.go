// File: cmd/app/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"media-analysis-api/internal/config"
	pg "media-analysis-api/internal/infra/db/postgres"
	"media-analysis-api/internal/infra/logging"
	"media-analysis-api/internal/infra/metrics"
	red "media-analysis-api/internal/infra/redis"
	"media-analysis-api/internal/infra/sched"
	"media-analysis-api/internal/infra/web"
	"media-analysis-api/internal/usecase"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- Config ----
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// ---- Logging ----
	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("[DEV MODE] Enabled")
	}

	// ---- Metrics ----
	metrics.MustRegister()
	metrics.SetBuildInfo(version, commit)

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, cfg.Database.MaxConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()
	if err := pg.EnsureSchema(ctx, pool); err != nil {
		logger.Fatal().Err(err).Msg("schema")
	}

	// ---- Redis (optional) ----
	var (
		redisClient red.RedisClient
		rateLimiter *red.RateLimiter
		statsCache  usecase.StatisticsCache
		cachePinger web.Pinger
	)
	if cfg.Redis.URL != "" {
		client, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			logger.Fatal().Err(err).Msg("redis")
		}
		redisClient = client
		defer redisClient.Close()
		statsCache = red.NewStatsCache(redisClient, cfg.Redis.TTL)
		cachePinger = client
		if cfg.RateLimit.Enabled {
			rateLimiter = red.NewRateLimiter(redisClient)
		}
	} else {
		logger.Warn().Msg("redis.url not set; statistics cache and rate limiting disabled")
	}

	// ---- Repositories ----
	jobRepo := pg.NewPostgresJobRepo(pool)
	mediaRepo := pg.NewPostgresMediaFileRepo(pool)
	resultRepo := pg.NewPostgresResultRepo(pool)
	transcriptionRepo := pg.NewPostgresTranscriptionRepo(pool)
	logRepo := pg.NewPostgresProcessingLogRepo(pool)
	txManager := pg.NewTxManager(pool)

	// ---- Use cases ----
	jobUC := usecase.NewJobUseCase(jobRepo, mediaRepo, resultRepo, transcriptionRepo, logRepo, txManager, statsCache, logger)
	mediaUC := usecase.NewMediaFileUseCase(jobRepo, mediaRepo, logger)
	resultUC := usecase.NewResultUseCase(jobRepo, resultRepo, logger)
	transcriptionUC := usecase.NewTranscriptionUseCase(jobRepo, transcriptionRepo, logger)
	logUC := usecase.NewProcessingLogUseCase(jobRepo, logRepo, logger)

	// ---- Auth ----
	var auth *web.AuthManager
	if cfg.Auth.AdminUser != "" {
		auth = web.NewAuthManager(cfg.Auth.JWTSecret, !cfg.Runtime.Dev, "", cfg.Auth.TokenTTL)
	} else {
		logger.Warn().Msg("auth.admin_user not set; destructive endpoints are unguarded")
	}

	// ---- HTTP server ----
	srv := web.NewServer(web.Deps{
		JobUC:           jobUC,
		MediaUC:         mediaUC,
		ResultUC:        resultUC,
		TranscriptionUC: transcriptionUC,
		LogUC:           logUC,
		Auth:            auth,
		AdminUser:       cfg.Auth.AdminUser,
		AdminPass:       cfg.Auth.AdminPass,
		RateLimiter:     rateLimiter,
		RateLimit:       cfg.RateLimit.Limit,
		RateWindow:      cfg.RateLimit.Window,
		DB:              pool,
		Cache:           cachePinger,
		Logger:          logger,
	})
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      srv.Routes(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("http server error")
			cancel()
		}
	}()

	// ---- Stale job reaper ----
	if cfg.Reaper.Enabled {
		reaper := sched.NewStaleJobReaper(cfg.Reaper.Interval, cfg.Reaper.StaleAfter, cfg.Reaper.FailInsteadOf, jobRepo, statsCache, logger)
		go func() { _ = reaper.Run(ctx) }()
	}

	// ---- Pool stats sampling ----
	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				stat := pool.Stat()
				metrics.SetDBPoolStats(stat.TotalConns(), stat.IdleConns(), stat.AcquiredConns())
			}
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigc:
		logger.Info().Msg("shutdown requested")
	case <-ctx.Done():
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown error")
	}
}
