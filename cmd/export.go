package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/shelf/internal/formatter"
	"github.com/desertthunder/shelf/internal/services"
	"github.com/desertthunder/shelf/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Export writes a view of the collection to a file, optionally with cover images.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	store, err := r.loadView(viewQuery(cmd))
	if err != nil {
		return err
	}

	view := store.View(r.engine)
	items := view.Items
	if cmd.Bool("all") {
		items = r.engine.Apply(store.Items(), store.State()).Items
	}

	snap := formatter.NewSnapshot(r.config.Profile.Name, r.config.Profile.Currency, items, store.Items())

	opts := tasks.ExportOpts{
		Format: cmd.String("format"),
		Path:   cmd.String("output"),
		Covers: cmd.Bool("covers"),
		Cover: tasks.CoverOpts{
			NumWorkers: r.config.Import.CoverWorkers,
		},
	}
	if cmd.IsSet("workers") {
		opts.Cover.NumWorkers = cmd.Int("workers")
	}

	progress := make(chan tasks.ProgressUpdate, 100)
	done := r.printProgress(progress, true)

	result, err := tasks.Export(ctx, progress, services.NewSnapshotClient("", r.httpClient), snap, opts)
	close(progress)
	<-done

	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	r.logger.Info("export written", "path", result.Path, "items", result.Items)

	if result.Covers != nil {
		r.writePlain("Covers: %d downloaded, %d failed\n", result.Covers.Downloaded, result.Covers.Failed)
	}
	return r.writePlain("✓ Exported %d of %d games to %s\n", result.Items, view.Total, result.Path)
}
