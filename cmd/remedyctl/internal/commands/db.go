package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/pscheid92/remedyhub/internal/adapter/postgres"
	"github.com/pscheid92/remedyhub/internal/app"
	"github.com/pscheid92/remedyhub/internal/domain"
	"github.com/pscheid92/remedyhub/internal/interactions"
	"github.com/spf13/cobra"
)

func newMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEnv(cmd, func(ctx context.Context, e *env) error {
				if err := postgres.RunMigrationsWithLock(ctx, e.pool); err != nil {
					return err
				}
				return printMigrationStatus(ctx, cmd, e)
			})
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the applied and latest schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEnv(cmd, func(ctx context.Context, e *env) error {
				return printMigrationStatus(ctx, cmd, e)
			})
		},
	})
	return cmd
}

func printMigrationStatus(ctx context.Context, cmd *cobra.Command, e *env) error {
	current, latest, err := postgres.MigrationStatus(ctx, e.pool)
	if err != nil {
		return err
	}
	state := "up to date"
	if current < latest {
		state = fmt.Sprintf("%d pending", latest-current)
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "schema version %d of %d (%s)\n", current, latest, state)
	return err
}

func newSeedCommand() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Upsert the remedy catalog and interaction table",
		Long: `Upsert the remedy catalog and interaction table. Without --file the
dataset compiled into the binary is used. Seeding is idempotent.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dataset, err := loadDataset(file)
			if err != nil {
				return err
			}
			return withEnv(cmd, func(ctx context.Context, e *env) error {
				res, err := e.svc.SeedCatalog(ctx, app.Catalog{
					Remedies:     dataset.Remedies,
					Interactions: dataset.InteractionList(),
				})
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "seeded %d remedies and %d interactions\n", res.Remedies, res.Interactions)
				return err
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML dataset to seed instead of the built-in one")
	return cmd
}

func newPromoteCommand() *cobra.Command {
	var role string
	cmd := &cobra.Command{
		Use:   "promote EMAIL",
		Short: "Change the role of a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r := domain.Role(role)
			if !r.Valid() {
				return fmt.Errorf("unknown role %q (want user, moderator or admin)", role)
			}
			return withEnv(cmd, func(ctx context.Context, e *env) error {
				user, err := e.svc.PromoteUser(ctx, args[0], r)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", user.Email, user.Role)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&role, "role", string(domain.RoleModerator), "role to assign")
	return cmd
}

func loadDataset(path string) (*interactions.Dataset, error) {
	if path == "" {
		return interactions.LoadDataset()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer func() { _ = f.Close() }()
	return interactions.ParseDataset(f)
}
