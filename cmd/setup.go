package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/shelf/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupDatabase initializes the database and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	config := r.setupConfig(cmd.String("config"))

	r.logger.Info("initializing database", "path", config.Database.Path)

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)

	r.logger.Info("running database migrations")
	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	r.logger.Infof("setup complete for database: %v", config.Database.Path)
	return r.writePlain("✓ Database ready at %s\n", config.Database.Path)
}

// SetupRollback reverts the most recently applied migration.
func (r *Runner) SetupRollback(ctx context.Context, cmd *cli.Command) error {
	config := r.setupConfig(cmd.String("config"))

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := shared.RollbackMigration(db); err != nil {
		return fmt.Errorf("rollback failed: %w", err)
	}
	r.logger.Info("rolled back latest migration", "path", config.Database.Path)
	return r.writePlain("✓ Rolled back the latest migration\n")
}

// setupConfig loads the config at path, creating it from the template when missing.
//
// Any failure falls back to defaults with a warning so setup can still proceed.
func (r *Runner) setupConfig(configPath string) *shared.Config {
	var config *shared.Config
	if _, err := os.Stat(configPath); err == nil {
		if config, err = shared.LoadConfig(configPath); err != nil {
			r.logger.Warn("failed to load config, using defaults", "error", err)
			config = shared.DefaultConfig()
		}
	} else {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			r.logger.Warn("failed to create config file, using defaults", "error", err)
			config = shared.DefaultConfig()
		} else {
			r.logger.Info("config file created", "path", configPath)
			if config, err = shared.LoadConfig(configPath); err != nil {
				r.logger.Warn("failed to load created config, using defaults", "error", err)
				config = shared.DefaultConfig()
			}
		}
	}

	if err := config.ApplyEnv(""); err != nil {
		r.logger.Warn("ignoring invalid environment override", "error", err)
	}
	return config
}
