package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/shelf/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("failed to load config.toml, using defaults", "error", err)
		}
	}
	if err := config.ApplyEnv(".env"); err != nil {
		logger.Fatalf("invalid environment: %v", err)
	}

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: "config.toml",
		Logger:     logger,
	})

	app := &cli.Command{
		Name:     "shelf",
		Usage:    "Track a video game collection and share it as a read-only profile",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := app.Run(ctx, os.Args)
	stop()
	runner.Close()

	if err != nil {
		if errors.Is(err, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		}
		logger.Fatalf("application error: %v", err)
	}
}
