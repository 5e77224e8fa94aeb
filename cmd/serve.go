package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/desertthunder/shelf/internal/server"
	"github.com/desertthunder/shelf/internal/shared"
	"github.com/urfave/cli/v3"
)

const shutdownTimeout = 5 * time.Second

// Serve exposes the read-only profile until ctx is cancelled.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	if err := r.open(); err != nil {
		return err
	}

	addr := r.config.Server.Addr()
	if cmd.IsSet("addr") {
		addr = cmd.String("addr")
	}

	router := server.NewProfileRouter(r.items, server.ProfileOpts{
		Name:     r.config.Profile.Name,
		Currency: r.config.Profile.Currency,
		PageSize: r.pageSize(),
	}, shared.WithLogger(r.logger, "component", "server"))
	srv := server.New(addr, router)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	url := fmt.Sprintf("http://%s/profile", addr)
	r.logger.Info("serving profile", "url", url)
	r.writePlain("Serving %s (Ctrl+C to stop)\n", url)

	if cmd.Bool("open") {
		if err := shared.OpenBrowser(url); err != nil {
			r.logger.Warn("could not open browser", "error", err)
		}
	}

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	r.logger.Info("server stopped")
	return nil
}
