package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chekov-db/chekov/internal/cli"
)

const configTemplate = `# chekov configuration
#
# database_url supports ${VAR} interpolation.
database_url: ${DATABASE_URL}

migrations_dir: ./migrations
snapshot_path: chekov.snapshot
lock_path: chekov.lock
`

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the migrations directory and config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			if err := os.MkdirAll(cfg.MigrationsDir, 0o755); err != nil {
				return fmt.Errorf("failed to create migrations directory: %w", err)
			}

			created := cli.NewList()
			created.AddSuccess(cfg.MigrationsDir + "/")

			if _, err := os.Stat(configFile); os.IsNotExist(err) {
				if err := os.WriteFile(configFile, []byte(configTemplate), 0o644); err != nil {
					return fmt.Errorf("failed to write config file: %w", err)
				}
				created.AddSuccess(configFile)
			} else {
				created.Add(configFile + " (already exists)")
			}

			fmt.Fprint(cmd.OutOrStdout(), cli.FormatSuccess("Initialized"))
			fmt.Fprint(cmd.OutOrStdout(), created.String())
			return nil
		},
	}
}
