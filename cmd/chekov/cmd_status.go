package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chekov-db/chekov/internal/cli"
	"github.com/chekov-db/chekov/internal/engine"
	"github.com/chekov-db/chekov/internal/engine/runner"
	"github.com/chekov-db/chekov/internal/exec"
	"github.com/chekov-db/chekov/internal/loader"
)

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show applied and pending migrations",
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
			applied, err := journal.Applied(cmd.Context())
			if err != nil {
				return err
			}

			statuses := runner.GetStatus(migrations, applied)
			if len(statuses) == 0 {
				fmt.Fprint(cmd.OutOrStdout(), cli.FormatNote("no migrations found"))
				return nil
			}

			tbl := cli.NewTable("REVISION", "NAME", "STATUS", "APPLIED AT")
			pending := 0
			for _, s := range statuses {
				appliedAt := ""
				if s.AppliedAt != nil {
					appliedAt = *s.AppliedAt
				}
				tbl.AddRow(s.Revision, s.Name, s.Status.String(), appliedAt)
				if s.Status == engine.StatusPending {
					pending++
				}
			}

			fmt.Fprint(cmd.OutOrStdout(), tbl.String())
			if pending > 0 {
				fmt.Fprint(cmd.OutOrStdout(), "\n"+cli.FormatNote(cli.FormatCount(pending, "pending migration", "pending migrations")))
			}
			return nil
		},
	}
}
