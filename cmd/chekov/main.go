// Package main provides the CLI for the Chekov check-constraint migration
// tool. Chekov manages SQL CHECK constraints declaratively: migrations
// declare constraints with a small structured expression language, and the
// tool compiles, applies, reverses, and snapshots them.
//
// Usage:
//
//	chekov init                  # Create migrations/ and chekov.yaml
//	chekov new <name>            # Create a migration file
//	chekov plan                  # Show SQL that migrate would execute
//	chekov migrate               # Apply pending migrations
//	chekov rollback [steps]      # Rollback (default: 1 step)
//	chekov status                # Show applied/pending migrations
//	chekov snapshot              # Render the schema snapshot
//	chekov verify                # Check lock file and snapshot drift
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chekov-db/chekov/internal/cli"

	// Database driver
	_ "github.com/lib/pq"
)

// version is set via ldflags during build: -ldflags="-X main.version=v1.0.0"
var version = "dev"

// Global flags
var (
	databaseURL string
	configFile  string
	jsonOutput  bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "chekov",
		Short:   "Declarative CHECK constraint migrations",
		Long:    `Chekov manages SQL CHECK constraints declaratively: migrations declare constraints with a small structured expression language, and the tool compiles, applies, reverses, and snapshots them.`,
		Version: version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if jsonOutput {
				cli.SetDefault(cli.NewConfigWithMode(cli.ModeJSON))
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&databaseURL, "database-url", "d", "", "Database connection URL")
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "chekov.yaml", "Path to config file")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output machine-readable JSON")

	rootCmd.AddCommand(
		initCmd(),
		newCmd(),
		planCmd(),
		migrateCmd(),
		rollbackCmd(),
		statusCmd(),
		snapshotCmd(),
		verifyCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprint(os.Stderr, cli.FormatError(err))
		os.Exit(1)
	}
}
