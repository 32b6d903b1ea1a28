package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/chekov-db/chekov/internal/cli"
	"github.com/chekov-db/chekov/internal/engine/runner"
	"github.com/chekov-db/chekov/internal/exec"
	"github.com/chekov-db/chekov/internal/loader"
)

func rollbackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rollback [steps]",
		Short: "Roll back applied migrations (default: 1 step)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			steps := 1
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil || n < 1 {
					return fmt.Errorf("steps must be a positive integer, got %q", args[0])
				}
				steps = n
			}

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
			count, err := r.Rollback(cmd.Context(), migrations, steps)
			if err != nil {
				return err
			}

			if count == 0 {
				fmt.Fprint(cmd.OutOrStdout(), cli.FormatNote("nothing to roll back"))
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), cli.FormatSuccess("rolled back "+cli.FormatCount(count, "migration", "migrations")))

			return refreshArtifacts(cmd.Context(), cfg, journal)
		},
	}
}
