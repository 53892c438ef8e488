package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"
	"github.com/pscheid92/remedyhub/internal/adapter/httpserver"
	"github.com/pscheid92/remedyhub/internal/adapter/metrics"
	"github.com/pscheid92/remedyhub/internal/adapter/postgres"
	"github.com/pscheid92/remedyhub/internal/adapter/redis"
	"github.com/pscheid92/remedyhub/internal/adapter/storage"
	"github.com/pscheid92/remedyhub/internal/app"
	"github.com/pscheid92/remedyhub/internal/domain"
	"github.com/pscheid92/remedyhub/internal/interactions"
	"github.com/pscheid92/remedyhub/internal/platform/config"
	"github.com/pscheid92/remedyhub/internal/platform/crypto"
	"github.com/pscheid92/remedyhub/internal/platform/logging"
	"github.com/pscheid92/remedyhub/internal/platform/retry"
	"github.com/pscheid92/remedyhub/internal/platform/version"
	goredis "github.com/redis/go-redis/v9"
)

const (
	connectTimeout  = 60 * time.Second
	shutdownTimeout = 10 * time.Second
	evictionEvery   = time.Minute
	memoryCacheTTL  = 30 * time.Second
)

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func setupDB(cfg *config.Config, m *metrics.DBMetrics) *pgxpool.Pool {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	policy := retry.Policy{
		MaxAttempts:     10,
		InitialBackoff:  500 * time.Millisecond,
		MaxBackoff:      5 * time.Second,
		OverloadBackoff: 10 * time.Second,
		OnRetry: func(attempt int, err error, wait time.Duration) {
			slog.Warn("Database not ready, retrying", "attempt", attempt, "wait", wait, "error", err)
		},
	}
	pool, err := retry.Do(ctx, policy, postgres.ClassifyConnectError, func(ctx context.Context) (*pgxpool.Pool, error) {
		return postgres.Connect(ctx, cfg.DatabaseURL, m)
	})
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := postgres.RunMigrationsWithLock(ctx, pool); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	return pool
}

func setupRedis(cfg *config.Config, m *metrics.RedisMetrics) *goredis.Client {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	client, err := redis.NewClient(ctx, cfg.RedisURL, m)
	if err != nil {
		slog.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	return client
}

func setupCrypto(cfg *config.Config) crypto.Service {
	if cfg.DataEncryptionKey == "" {
		if cfg.IsProduction() {
			slog.Warn("DATA_ENCRYPTION_KEY is not set, medication notes are stored in plaintext")
		}
		return crypto.PlaintextService{}
	}
	svc, err := crypto.NewAesGcmService(cfg.DataEncryptionKey)
	if err != nil {
		slog.Error("Failed to create crypto service", "error", err)
		os.Exit(1)
	}
	return svc
}

// setupUploads returns nil when no bucket is configured; contribution image
// uploads are then refused.
func setupUploads(cfg *config.Config, clock clockwork.Clock) domain.UploadPresigner {
	if cfg.S3Bucket == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	presigner, err := storage.NewS3Presigner(ctx, cfg.S3Bucket, cfg.S3Region, clock)
	if err != nil {
		slog.Error("Failed to create S3 presigner", "error", err)
		os.Exit(1)
	}
	return presigner
}

func seedCatalog(appSvc *app.Service, dataset *interactions.Dataset) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	catalog := app.Catalog{Remedies: dataset.Remedies, Interactions: dataset.InteractionList()}
	if _, err := appSvc.SeedCatalog(ctx, catalog); err != nil {
		slog.Error("Failed to seed catalog", "error", err)
		os.Exit(1)
	}
}

func healthChecks(pool *pgxpool.Pool, rdb *goredis.Client) []httpserver.HealthCheck {
	return []httpserver.HealthCheck{
		{Name: "postgres", Check: pool.Ping},
		{Name: "redis", Check: func(ctx context.Context) error { return rdb.Ping(ctx).Err() }},
	}
}

func runGracefulShutdown(srv *httpserver.Server, appSvc *app.Service, stopBackground func()) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		appSvc.Stop()
		stopBackground()
		close(done)
	}()

	return done
}

func main() {
	clock := clockwork.NewRealClock()

	cfg := setupConfig()

	logCloser := logging.InitLogger(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, File: cfg.LogFile})
	defer func() { _ = logCloser.Close() }()

	info := version.Get()
	slog.Info("Application starting", "env", cfg.AppEnv, "port", cfg.Port, "version", info.Version, "commit", info.Commit)

	reg := metrics.NewRegistry()

	pool := setupDB(cfg, metrics.NewDBMetrics(reg))
	defer pool.Close()

	redisMetrics := metrics.NewRedisMetrics(reg)
	redisClient := setupRedis(cfg, redisMetrics)
	defer func() { _ = redisClient.Close() }()

	dataset, err := interactions.LoadDataset()
	if err != nil {
		slog.Error("Failed to load interaction dataset", "error", err)
		os.Exit(1)
	}

	searchCache := redis.NewSearchCache(redisClient, clock, memoryCacheTTL, metrics.NewCacheMetrics(reg))
	stopEviction := searchCache.StartEvictionTimer(evictionEvery)

	catalogEvents := redis.NewCatalogEvents(redisClient, redisMetrics)

	cryptoSvc := setupCrypto(cfg)
	repos := app.Repositories{
		Users:         postgres.NewUserRepo(pool),
		Subscriptions: postgres.NewSubscriptionRepo(pool),
		Remedies:      postgres.NewRemedyRepo(pool),
		Favorites:     postgres.NewFavoriteRepo(pool),
		Journal:       postgres.NewJournalRepo(pool),
		Medications:   postgres.NewMedicationRepo(pool, cryptoSvc),
		History:       postgres.NewSearchHistoryRepo(pool),
		Interactions:  postgres.NewInteractionRepo(pool),
		Contributions: postgres.NewContributionRepo(pool),
	}

	opts := app.Options{
		SearchCache:    searchCache,
		SearchCacheTTL: cfg.SearchCacheTTL,
		Uploads:        setupUploads(cfg, clock),
		UploadURLTTL:   cfg.UploadURLTTL,
		Aliases:        dataset.Aliases,
		Notifier:       catalogEvents,
		UsageMetrics:   metrics.NewUsageMetrics(reg),
	}

	appSvc := app.NewService(repos, redis.NewUsageCounter(redisClient), clock, opts)

	listenCtx, stopListening := context.WithCancel(context.Background())
	go catalogEvents.Listen(listenCtx, appSvc.ReloadCatalog)

	if cfg.SeedOnStart {
		seedCatalog(appSvc, dataset)
	}

	srv := httpserver.NewServer(cfg, appSvc, httpserver.Deps{
		Registry:     reg,
		HTTPMetrics:  metrics.NewHTTPMetrics(reg),
		HealthChecks: healthChecks(pool, redisClient),
		Clock:        clock,
	})

	done := runGracefulShutdown(srv, appSvc, func() {
		stopListening()
		stopEviction()
	})

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
}
