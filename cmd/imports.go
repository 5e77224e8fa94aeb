package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/desertthunder/shelf/internal/models"
	"github.com/desertthunder/shelf/internal/repositories"
	"github.com/desertthunder/shelf/internal/services"
	"github.com/desertthunder/shelf/internal/shared"
	"github.com/desertthunder/shelf/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Import reads a file or snapshot URL and saves each record, matching existing games by title and platform.
func (r *Runner) Import(ctx context.Context, cmd *cli.Command) error {
	source := strings.TrimSpace(cmd.StringArg("source"))
	if source == "" {
		return fmt.Errorf("%w: a file path or URL is required", shared.ErrMissingArgument)
	}

	opts := tasks.ImportOpts{
		RateLimit:       r.config.Import.RateLimit,
		DefaultPlatform: r.config.Import.DefaultPlatform,
		DryRun:          cmd.Bool("dry-run"),
	}
	if cmd.IsSet("rate") {
		opts.RateLimit = cmd.Float("rate")
	}
	if cmd.IsSet("platform") {
		opts.DefaultPlatform = cmd.String("platform")
	}

	if err := r.open(); err != nil {
		return err
	}

	logger := shared.WithLogger(r.logger, "source", source)
	importer := tasks.NewImporter(repositories.NewItemImportAdapter(r.items), r.jobs, logger)

	useJSON := cmd.Bool("json")
	progress := make(chan tasks.ProgressUpdate, 100)
	done := r.printProgress(progress, !useJSON)

	result, err := importer.Run(ctx, r.source(source), progress, opts)
	close(progress)
	<-done

	if result == nil {
		return err
	}

	if useJSON {
		if werr := r.writeJSON(importSummary(result), true); werr != nil {
			return werr
		}
		return err
	}

	title := "Import Complete!"
	if opts.DryRun {
		title = "Dry Run Complete!"
	}
	r.writePlain("\n")
	r.writePlainHeader(title)
	r.writePlain("Created: %d\n", result.Created)
	r.writePlain("Updated: %d\n", result.Updated)
	r.writePlain("Failed:  %d\n", len(result.Failed))
	for _, f := range result.Failed {
		r.writePlain("  - %s\n", f.Error())
	}

	return err
}

// source picks a snapshot client for URLs and a file source otherwise.
func (r *Runner) source(s string) services.Source {
	if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
		return services.NewSnapshotClient(s, r.httpClient)
	}
	return services.NewFileSource(s)
}

// printProgress echoes progress messages until ch is closed. The returned channel closes once it is drained.
func (r *Runner) printProgress(ch <-chan tasks.ProgressUpdate, echo bool) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range ch {
			if !echo {
				continue
			}
			switch update.Phase {
			case tasks.ReadSource:
				r.writePlain("📥 %s\n", update.Message)
			case tasks.CoverPhase:
				r.writePlain("🖼  %s\n", update.Message)
			case tasks.WriteExport:
				r.writePlain("📝 %s\n", update.Message)
			default:
				r.writePlain("   %s\n", update.Message)
			}
		}
	}()
	return done
}

type importReport struct {
	Job     *models.ImportJob `json:"job"`
	Created int               `json:"created"`
	Updated int               `json:"updated"`
	Failed  []string          `json:"failed"`
}

func importSummary(res *tasks.ImportResult) importReport {
	failed := make([]string, len(res.Failed))
	for i, f := range res.Failed {
		failed[i] = f.Error()
	}
	return importReport{Job: res.Job, Created: res.Created, Updated: res.Updated, Failed: failed}
}

// Imports lists recorded import jobs.
func (r *Runner) Imports(ctx context.Context, cmd *cli.Command) error {
	if err := r.open(); err != nil {
		return err
	}

	criteria := map[string]any{"limit": cmd.Int("limit")}
	if status := cmd.String("status"); status != "" {
		criteria["status"] = models.ImportStatus(strings.ToLower(status))
	}

	jobs, err := r.jobs.List(criteria)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(jobs, true)
	}
	if len(jobs) == 0 {
		return r.writePlain("No imports recorded.\n")
	}

	rows := make([][]string, len(jobs))
	for i, j := range jobs {
		rows[i] = []string{
			j.CreatedAt.Format("2006-01-02 15:04"),
			j.Source,
			string(j.Status),
			fmt.Sprintf("%d/%d", j.ItemsImported, j.ItemsTotal),
			fmt.Sprintf("%d", j.ItemsFailed),
			j.ErrorMessage,
		}
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("WHEN", "SOURCE", "STATUS", "IMPORTED", "FAILED", "ERROR").
		Rows(rows...)
	return r.writePlain("%s\n", t.String())
}
