package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fintracore/corebank/internal/adapter/branchclient"
	httpAdapter "github.com/fintracore/corebank/internal/adapter/http"
	"github.com/fintracore/corebank/internal/adapter/http/handler"
	"github.com/fintracore/corebank/internal/adapter/http/middleware"
	postgresRepo "github.com/fintracore/corebank/internal/adapter/repository/postgres"
	redisRepo "github.com/fintracore/corebank/internal/adapter/repository/redis"
	"github.com/fintracore/corebank/internal/infrastructure/auth"
	"github.com/fintracore/corebank/internal/infrastructure/config"
	"github.com/fintracore/corebank/internal/infrastructure/eventpublisher"
	"github.com/fintracore/corebank/internal/infrastructure/logger"
	"github.com/fintracore/corebank/internal/infrastructure/metrics"
	"github.com/fintracore/corebank/internal/infrastructure/postgres"
	"github.com/fintracore/corebank/internal/infrastructure/redis"
	"github.com/fintracore/corebank/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Service: "corebank"})

	ctx := context.Background()

	// Apply schema migrations before taking traffic.
	if err := postgres.RunMigrations(cfg.DatabaseURL, "migrations", log); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Repositories
	txManager := postgresRepo.NewTxManager(pool)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	entryRepo := postgresRepo.NewEntryRepository(pool)
	ruleRepo := postgresRepo.NewRuleRepository(pool)
	chartRepo := postgresRepo.NewChartRepository(pool)
	ledgerRepo := postgresRepo.NewLedgerRepository(pool)
	auditRepo := postgresRepo.NewAuditRepository(pool)
	var outboxRepo usecase.OutboxRepository = postgresRepo.NewOutboxRepository(pool)
	if !cfg.OutboxEnabled {
		outboxRepo = postgresRepo.NewNullOutboxRepository()
	}
	cache := redisRepo.NewCache(redisClient)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	idGen := postgresRepo.NewULIDGenerator()

	// Branch master data lives in an external registry; cache lookups.
	branchSvc := branchclient.New(
		cfg.BranchServiceURL,
		log,
		branchclient.WithCache(cache, cfg.BranchCacheTTL),
	)

	m := metrics.New()

	// Use cases
	resolver := usecase.NewResolverUseCase(
		ruleRepo, chartRepo, accountRepo, branchSvc, accountRepo, idGen, log, cfg.HomeBranchID,
	).WithMetrics(m)
	postingUC := usecase.NewPostingUseCase(
		txManager, accountRepo, entryRepo, outboxRepo, auditRepo, resolver, idGen, log,
	).WithRetrier(postgresRepo.NewRetrier().WithMetrics(m)).WithMetrics(m)
	accountUC := usecase.NewAccountUseCase(accountRepo)
	entryUC := usecase.NewEntryUseCase(entryRepo)
	ledgerUC := usecase.NewLedgerUseCase(ledgerRepo, entryRepo)
	reportingUC := usecase.NewReportingUseCase(accountRepo, entryRepo, log).WithMetrics(m)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)

	// Outbox relay
	publisherCtx, stopPublisher := context.WithCancel(ctx)
	defer stopPublisher()

	if cfg.OutboxEnabled {
		publisher := eventpublisher.NewEventPublisher(eventpublisher.Config{
			OutboxRepo: outboxRepo,
			Publisher:  eventpublisher.NewLogPublisher(slog.Default()),
			Logger:     slog.Default(),
			BatchSize:  cfg.OutboxBatchSize,
			Interval:   cfg.OutboxInterval,
		})
		go func() {
			if err := publisher.Start(publisherCtx); err != nil && publisherCtx.Err() == nil {
				log.Error().Err(err).Msg("event publisher stopped")
			}
		}()
	}

	// Surface pool pressure on the metrics endpoint.
	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-publisherCtx.Done():
				return
			case <-ticker.C:
				m.DBConnections.Set(float64(pool.Stat().TotalConns()))
			}
		}
	}()

	var rateLimiter *middleware.RateLimiter
	if cfg.RateLimitRPS > 0 {
		rateLimiter = middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	}

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		PostingHandler:   handler.NewPostingHandler(postingUC),
		AccountHandler:   handler.NewAccountHandler(accountUC),
		EntryHandler:     handler.NewEntryHandler(entryUC),
		ReportHandler:    handler.NewReportHandler(reportingUC),
		LedgerHandler:    handler.NewLedgerHandler(ledgerUC),
		AuthHandler:      handler.NewAuthHandler(jwtManager),
		HealthHandler:    handler.NewHealthHandler(pool, redisClient),
		IdempotencyStore: idempotencyStore,
		JWTManager:       jwtManager,
		AuthEnabled:      cfg.AuthEnabled,
		RateLimiter:      rateLimiter,
		Metrics:          m,
		Logger:           log,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	go func() {
		log.Info().
			Str("port", cfg.HTTPPort).
			Str("home_branch", cfg.HomeBranchID).
			Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")
	stopPublisher()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
