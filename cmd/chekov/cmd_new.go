package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/spf13/cobra"

	"github.com/chekov-db/chekov/internal/cli"
	"github.com/chekov-db/chekov/internal/loader"
)

func newCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "new <name>",
		Short: "Create a new migration file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			name := toSnakeCase(args[0])
			if name == "" {
				return fmt.Errorf("migration name %q contains no usable characters", args[0])
			}

			migrations, err := loader.LoadDir(cfg.MigrationsDir)
			if err != nil {
				return err
			}

			if err := os.MkdirAll(cfg.MigrationsDir, 0o755); err != nil {
				return fmt.Errorf("failed to create migrations directory: %w", err)
			}

			revision := loader.NextRevision(migrations)
			path := filepath.Join(cfg.MigrationsDir, fmt.Sprintf("%s_%s.yaml", revision, name))

			content := fmt.Sprintf(loader.Template, strings.ReplaceAll(name, "_", " "))
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				return fmt.Errorf("failed to write migration file: %w", err)
			}

			fmt.Fprint(cmd.OutOrStdout(), cli.FormatSuccess("created "+path))
			return nil
		},
	}
}

// toSnakeCase normalizes a migration name to lowercase snake_case.
func toSnakeCase(s string) string {
	var b strings.Builder
	lastUnderscore := true
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(unicode.ToLower(r))
			lastUnderscore = false
		default:
			if !lastUnderscore {
				b.WriteRune('_')
				lastUnderscore = true
			}
		}
	}
	return strings.Trim(b.String(), "_")
}
