package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chekov-db/chekov/internal/cli"
	"github.com/chekov-db/chekov/internal/engine/runner"
	"github.com/chekov-db/chekov/internal/exec"
	"github.com/chekov-db/chekov/internal/loader"
	"github.com/chekov-db/chekov/internal/lockfile"
	"github.com/chekov-db/chekov/internal/snapshot"
)

func migrateCmd() *cobra.Command {
	var target string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := requireDatabaseURL()
			if err != nil {
				return err
			}

			migrations, err := loader.LoadDir(cfg.MigrationsDir)
			if err != nil {
				return err
			}

			db, err := exec.Open(cmd.Context(), cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer db.Close()

			journal := exec.NewJournal(db)
			if err := journal.EnsureTable(cmd.Context()); err != nil {
				return err
			}

			r := runner.New(db, journal, nil)
			count, err := r.Migrate(cmd.Context(), migrations, target)
			if err != nil {
				return err
			}

			if count == 0 {
				fmt.Fprint(cmd.OutOrStdout(), cli.FormatNote("nothing to migrate"))
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), cli.FormatSuccess("applied "+cli.FormatCount(count, "migration", "migrations")))

			return refreshArtifacts(cmd.Context(), cfg, journal)
		},
	}

	cmd.Flags().StringVar(&target, "target", "", "Migrate up to this revision only")
	return cmd
}

// refreshArtifacts rewrites the lock file and the schema snapshot so both
// reflect the state the journal now records. Called after migrate and
// rollback.
func refreshArtifacts(ctx context.Context, cfg *Config, journal runner.Journal) error {
	if err := lockfile.Write(cfg.MigrationsDir, cfg.LockPath); err != nil {
		return err
	}

	migrations, err := loader.LoadDir(cfg.MigrationsDir)
	if err != nil {
		return err
	}
	applied, err := journal.Applied(ctx)
	if err != nil {
		return err
	}
	schema, err := runner.ReplaySchema(migrations, applied)
	if err != nil {
		return err
	}
	return snapshot.Write(cfg.SnapshotPath, schema)
}
