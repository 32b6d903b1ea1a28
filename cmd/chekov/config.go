package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/chekov-db/chekov/internal/ckerr"
	"github.com/chekov-db/chekov/internal/lockfile"
	"github.com/chekov-db/chekov/internal/snapshot"
)

// Config represents the chekov.yaml configuration file.
type Config struct {
	DatabaseURL   string `yaml:"database_url"`
	MigrationsDir string `yaml:"migrations_dir"`
	SnapshotPath  string `yaml:"snapshot_path"`
	LockPath      string `yaml:"lock_path"`
}

// loadConfig loads configuration from file, env vars, and CLI flags.
// Precedence: CLI flags > env vars > config file > defaults
func loadConfig() (*Config, error) {
	cfg := &Config{
		MigrationsDir: "./migrations",
		SnapshotPath:  snapshot.DefaultPath(),
		LockPath:      lockfile.DefaultPath(),
	}

	// Load config file if it exists
	if data, err := os.ReadFile(configFile); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
		// Handle env var interpolation in database_url
		cfg.DatabaseURL = expandEnvVars(cfg.DatabaseURL)
	}

	// Override with env vars
	if envURL := os.Getenv("DATABASE_URL"); envURL != "" && databaseURL == "" {
		cfg.DatabaseURL = envURL
	}
	if envMigrations := os.Getenv("CHEKOV_MIGRATIONS_DIR"); envMigrations != "" {
		cfg.MigrationsDir = envMigrations
	}

	// Override with CLI flags (highest priority)
	if databaseURL != "" {
		cfg.DatabaseURL = databaseURL
	}

	return cfg, nil
}

// requireDatabaseURL loads the config and rejects commands that need a
// connection when no URL was provided anywhere.
func requireDatabaseURL() (*Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if cfg.DatabaseURL == "" {
		return nil, ckerr.New(ckerr.ErrSQLConnection, "no database URL configured").
			WithHelp("pass --database-url, set DATABASE_URL, or add database_url to chekov.yaml")
	}
	return cfg, nil
}

// expandEnvVars expands ${VAR} patterns in a string.
func expandEnvVars(s string) string {
	return os.Expand(s, os.Getenv)
}
