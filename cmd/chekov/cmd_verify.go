package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chekov-db/chekov/internal/cli"
	"github.com/chekov-db/chekov/internal/drift"
	"github.com/chekov-db/chekov/internal/lockfile"
	"github.com/chekov-db/chekov/internal/snapshot"
)

func verifyCmd() *cobra.Command {
	var quick bool

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check lock file integrity and snapshot drift",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if quick {
				return verifyQuick(cmd, cfg)
			}

			lockOK, err := verifyLock(cmd, cfg)
			if err != nil {
				return err
			}

			driftOK, err := verifyDrift(cmd, cfg)
			if err != nil {
				return err
			}

			if !lockOK || !driftOK {
				return fmt.Errorf("verification failed")
			}
			fmt.Fprint(out, cli.FormatSuccess("all checks passed"))
			return nil
		},
	}

	cmd.Flags().BoolVar(&quick, "quick", false, "Compare root hashes only, one line of output")
	return cmd
}

// verifyQuick prints a single status line comparing root hashes, for use
// in scripts and CI pipelines.
func verifyQuick(cmd *cobra.Command, cfg *Config) error {
	actual, err := snapshot.Read(cfg.SnapshotPath)
	if err != nil {
		return err
	}
	if actual == nil {
		return fmt.Errorf("no snapshot file at %s", cfg.SnapshotPath)
	}

	expected, err := renderSchema(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	result, err := drift.Detect(expected, actual)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), drift.FormatQuickStatus(result.HasDrift, result.ExpectedHash, result.ActualHash))
	if result.HasDrift {
		return fmt.Errorf("snapshot drift detected")
	}
	return nil
}

// verifyLock checks migration files against the lock file. Returns false
// when the lock is stale or missing.
func verifyLock(cmd *cobra.Command, cfg *Config) (bool, error) {
	out := cmd.OutOrStdout()

	result, err := lockfile.Verify(cfg.MigrationsDir, cfg.LockPath)
	if err != nil {
		return false, err
	}

	if !result.LockFileExists {
		fmt.Fprint(out, cli.FormatWarning("no lock file; run migrate or snapshot to create one"))
		return false, nil
	}

	list := cli.NewList()
	for _, f := range result.VerifiedFiles {
		list.AddSuccess(f)
	}
	for _, f := range result.ModifiedFiles {
		list.AddError(f + " (modified)")
	}
	for _, f := range result.RemovedFiles {
		list.AddError(f + " (removed)")
	}
	for _, f := range result.NewFiles {
		list.AddWarning(f + " (not in lock file)")
	}

	fmt.Fprintln(out, "Lock file:")
	fmt.Fprint(out, list.String())

	if !result.Valid {
		fmt.Fprint(out, cli.FormatError(fmt.Errorf("migration files do not match %s", cfg.LockPath)))
	}
	return result.Valid, nil
}

// verifyDrift compares the snapshot file against the state replayed from
// the migrations. Returns false when the snapshot has drifted.
func verifyDrift(cmd *cobra.Command, cfg *Config) (bool, error) {
	out := cmd.OutOrStdout()

	actual, err := snapshot.Read(cfg.SnapshotPath)
	if err != nil {
		return false, err
	}
	if actual == nil {
		fmt.Fprint(out, cli.FormatWarning("no snapshot file; run chekov snapshot to create one"))
		return false, nil
	}

	expected, err := renderSchema(cmd.Context(), cfg)
	if err != nil {
		return false, err
	}

	result, err := drift.Detect(expected, actual)
	if err != nil {
		return false, err
	}

	fmt.Fprint(out, drift.FormatResult(result))
	return !result.HasDrift, nil
}
