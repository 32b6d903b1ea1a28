package main

import (
	"context"
	"fmt"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/chekov-db/chekov/internal/cli"
	"github.com/chekov-db/chekov/internal/engine"
	"github.com/chekov-db/chekov/internal/engine/runner"
	"github.com/chekov-db/chekov/internal/exec"
	"github.com/chekov-db/chekov/internal/loader"
	"github.com/chekov-db/chekov/internal/snapshot"
)

func snapshotCmd() *cobra.Command {
	var watch bool
	var print bool

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Render the schema snapshot",
		Long: `Snapshot renders the constraint state to the snapshot file.

With a database URL the journal decides which migrations count as
applied. Without one, every migration file is replayed, producing the
snapshot the schema will have once everything is applied.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			if print {
				schema, err := renderSchema(cmd.Context(), cfg)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), snapshot.Render(schema))
				return nil
			}

			if err := writeSnapshot(cmd.Context(), cfg); err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), cli.FormatSuccess("wrote "+cfg.SnapshotPath))

			if watch {
				return watchMigrations(cmd, cfg)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&watch, "watch", false, "Re-render the snapshot when migration files change")
	cmd.Flags().BoolVar(&print, "print", false, "Print the snapshot to stdout instead of writing it")
	return cmd
}

// renderSchema replays the migrations into a schema, consulting the
// journal when a database is configured.
func renderSchema(ctx context.Context, cfg *Config) (*engine.Schema, error) {
	migrations, err := loader.LoadDir(cfg.MigrationsDir)
	if err != nil {
		return nil, err
	}

	var applied []engine.AppliedMigration
	if cfg.DatabaseURL != "" {
		db, err := exec.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		defer db.Close()

		journal := exec.NewJournal(db)
		if err := journal.EnsureTable(ctx); err != nil {
			return nil, err
		}
		applied, err = journal.Applied(ctx)
		if err != nil {
			return nil, err
		}
	} else {
		// Offline: treat every migration file as applied.
		for _, m := range migrations {
			applied = append(applied, engine.AppliedMigration{
				Revision: m.Revision,
				Name:     m.Name,
				Checksum: m.Checksum,
			})
		}
	}

	return runner.ReplaySchema(migrations, applied)
}

func writeSnapshot(ctx context.Context, cfg *Config) error {
	schema, err := renderSchema(ctx, cfg)
	if err != nil {
		return err
	}
	return snapshot.Write(cfg.SnapshotPath, schema)
}

// watchMigrations re-renders the snapshot whenever the migrations
// directory changes. Blocks until interrupted.
func watchMigrations(cmd *cobra.Command, cfg *Config) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("file watcher failed: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(cfg.MigrationsDir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", cfg.MigrationsDir, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Watching %s for changes...\n", cfg.MigrationsDir)

	for {
		select {
		case <-cmd.Context().Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove) != 0 {
				if err := writeSnapshot(cmd.Context(), cfg); err != nil {
					fmt.Fprint(cmd.ErrOrStderr(), cli.FormatError(err))
					continue
				}
				fmt.Fprint(cmd.OutOrStdout(), cli.FormatSuccess("wrote "+cfg.SnapshotPath))
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprint(cmd.ErrOrStderr(), cli.FormatWarning(err.Error()))
		}
	}
}
