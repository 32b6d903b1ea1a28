package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chekov-db/chekov/internal/cli"
	"github.com/chekov-db/chekov/internal/dialect"
	"github.com/chekov-db/chekov/internal/engine"
	"github.com/chekov-db/chekov/internal/engine/runner"
	"github.com/chekov-db/chekov/internal/exec"
	"github.com/chekov-db/chekov/internal/loader"
)

func planCmd() *cobra.Command {
	var target string
	var offline bool

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show the SQL that migrate would execute",
		Long: `Plan runs the pending migrations against a recording executor and
prints the resulting DDL without touching the database or the journal.

With a database URL the journal is consulted so the plan covers exactly
the pending migrations. With --offline every migration is treated as
pending.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			migrations, err := loader.LoadDir(cfg.MigrationsDir)
			if err != nil {
				return err
			}
			if len(migrations) == 0 {
				fmt.Fprint(cmd.OutOrStdout(), cli.FormatNote("no migrations found in "+cfg.MigrationsDir))
				return nil
			}

			var applied []engine.AppliedMigration
			if !offline && cfg.DatabaseURL != "" {
				db, err := exec.Open(cmd.Context(), cfg.DatabaseURL)
				if err != nil {
					return err
				}
				defer db.Close()

				journal := exec.NewJournal(db)
				if err := journal.EnsureTable(cmd.Context()); err != nil {
					return err
				}
				applied, err = journal.Applied(cmd.Context())
				if err != nil {
					return err
				}
			}

			// Dry run: real applied state, throwaway journal, recording
			// executor.
			recorder := exec.NewRecorder(dialect.Postgres())
			r := runner.New(recorder, runner.NewMemJournal(applied), nil)

			count, err := r.Migrate(cmd.Context(), migrations, target)
			if err != nil {
				return err
			}
			if count == 0 {
				fmt.Fprint(cmd.OutOrStdout(), cli.FormatNote("nothing to migrate"))
				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s to apply:\n\n", cli.FormatCount(count, "migration", "migrations"))
			for _, stmt := range recorder.Statements() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s;\n", stmt)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&target, "target", "", "Plan up to this revision only")
	cmd.Flags().BoolVar(&offline, "offline", false, "Plan without consulting the journal")
	return cmd
}
