package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"
	"github.com/pscheid92/remedyhub/internal/adapter/postgres"
	"github.com/pscheid92/remedyhub/internal/adapter/redis"
	"github.com/pscheid92/remedyhub/internal/app"
	"github.com/pscheid92/remedyhub/internal/platform/config"
	"github.com/pscheid92/remedyhub/internal/platform/crypto"
	"github.com/pscheid92/remedyhub/internal/platform/logging"
	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

const commandTimeout = 2 * time.Minute

// NewRootCommand assembles the command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "remedyctl",
		Short:         "Administration tool for remedyhub",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newMigrateCommand(),
		newSeedCommand(),
		newPromoteCommand(),
		newDatasetCommand(),
		newCheckCommand(),
		newAPICommand(),
	)
	return root
}

// env is what database-backed commands share.
type env struct {
	pool *pgxpool.Pool
	rdb  *goredis.Client
	svc  *app.Service
	log  io.Closer
}

func (e *env) Close() {
	e.svc.Stop()
	if e.rdb != nil {
		_ = e.rdb.Close()
	}
	e.pool.Close()
	_ = e.log.Close()
}

func openEnv(ctx context.Context) (*env, error) {
	cfg, err := config.LoadTool()
	if err != nil {
		return nil, err
	}
	closer := logging.InitLogger(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})

	pool, err := postgres.Connect(ctx, cfg.DatabaseURL, nil)
	if err != nil {
		_ = closer.Close()
		return nil, err
	}

	var cryptoSvc crypto.Service = crypto.PlaintextService{}
	if cfg.DataEncryptionKey != "" {
		if cryptoSvc, err = crypto.NewAesGcmService(cfg.DataEncryptionKey); err != nil {
			pool.Close()
			_ = closer.Close()
			return nil, fmt.Errorf("failed to create crypto service: %w", err)
		}
	}

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
	opts := app.Options{DisableRefresher: true}

	// Without Redis, running servers see the change on their next refresh.
	var rdb *goredis.Client
	if cfg.RedisURL != "" {
		if rdb, err = redis.NewClient(ctx, cfg.RedisURL, nil); err != nil {
			slog.Warn("Redis unavailable, catalog changes will not be announced", "error", err)
		} else {
			opts.Notifier = redis.NewCatalogEvents(rdb, nil)
		}
	}

	svc := app.NewService(repos, nil, clockwork.NewRealClock(), opts)
	return &env{pool: pool, rdb: rdb, svc: svc, log: closer}, nil
}

func withEnv(cmd *cobra.Command, fn func(ctx context.Context, e *env) error) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
	defer cancel()

	e, err := openEnv(ctx)
	if err != nil {
		return err
	}
	defer e.Close()
	return fn(ctx, e)
}
