package tasks

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/shelf/internal/models"
	"github.com/desertthunder/shelf/internal/services"
	"github.com/desertthunder/shelf/internal/shared"
	"golang.org/x/time/rate"
)

// ItemSaver persists one imported item and reports whether it was newly created.
type ItemSaver interface {
	SaveItem(item *models.Item) (bool, error)
}

// JobRecorder keeps the import history.
type JobRecorder interface {
	Create(job *models.ImportJob) error
	Update(job *models.ImportJob) error
}

// ImportOpts configures an import run.
type ImportOpts struct {
	RateLimit       float64 // Saves per second; 0 disables pacing
	DefaultPlatform string  // Applied to records without a platform
	DryRun          bool    // Parse and validate only
}

// RowError describes a record that could not be imported.
type RowError struct {
	Line  int
	Title string
	Err   error
}

func (e RowError) Error() string {
	if e.Title != "" {
		return fmt.Sprintf("line %d (%s): %v", e.Line, e.Title, e.Err)
	}
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

// ImportResult contains the outcome of an import run.
type ImportResult struct {
	Job     *models.ImportJob
	Items   []models.Item // Saved (or, for a dry run, validated) items in source order
	Created int
	Updated int
	Failed  []RowError
}

// Importer reads a [services.Source] and saves every valid record, one at a time.
type Importer struct {
	saver  ItemSaver
	jobs   JobRecorder
	logger *log.Logger
}

// NewImporter creates an [Importer]. jobs and logger may be nil.
func NewImporter(saver ItemSaver, jobs JobRecorder, logger *log.Logger) *Importer {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Importer{saver: saver, jobs: jobs, logger: logger}
}

// Run imports src. Bad records are collected in the result and do not stop the run.
//
// An error is returned when the source cannot be read, the context is cancelled, or no record
// could be imported; the result is still returned in the latter two cases.
func (i *Importer) Run(ctx context.Context, src services.Source, progress chan<- ProgressUpdate, opts ImportOpts) (*ImportResult, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: import source not initialized", shared.ErrServiceUnavailable)
	}
	if i.saver == nil && !opts.DryRun {
		return nil, fmt.Errorf("%w: item store not initialized", shared.ErrServiceUnavailable)
	}

	job := models.NewImportJob(src.Name())
	result := &ImportResult{Job: job}

	if !opts.DryRun && i.jobs != nil {
		if err := i.jobs.Create(job); err != nil {
			return nil, fmt.Errorf("%w: failed to record import: %v", shared.ErrDatabase, err)
		}
	}

	sendProgress(progress, readingSourceUpdate(src.Name()))

	rows, err := src.Fetch(ctx)
	if err != nil {
		i.finish(job, err, opts)
		return nil, err
	}

	total := len(rows)
	job.Start(total)
	i.record(job, opts)
	sendProgress(progress, foundRowsUpdate(total))

	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}
	limiter := rate.NewLimiter(limit, 1)

	for n, row := range rows {
		step := n + 1

		if row.Err != nil {
			i.fail(result, row.Line, row.Item.Title, row.Err)
			sendProgress(progress, itemFailedUpdate(step, total, result.Failed[len(result.Failed)-1]))
			continue
		}

		if err := limiter.Wait(ctx); err != nil {
			i.finish(job, err, opts)
			return result, err
		}

		it := row.Item
		if it.Platform == "" {
			it.Platform = opts.DefaultPlatform
		}

		created := true
		if !opts.DryRun {
			created, err = i.saver.SaveItem(&it)
			if err != nil {
				i.fail(result, row.Line, it.Title, err)
				sendProgress(progress, itemFailedUpdate(step, total, result.Failed[len(result.Failed)-1]))
				continue
			}
		}

		if created {
			result.Created++
		} else {
			result.Updated++
		}
		job.ItemsImported++
		result.Items = append(result.Items, it)
		sendProgress(progress, itemSavedUpdate(step, total, &it, created))
	}

	var runErr error
	if total > 0 && job.ItemsImported == 0 {
		runErr = fmt.Errorf("%w: none of the %d records could be imported", shared.ErrInvalidInput, total)
	}
	i.finish(job, runErr, opts)

	i.logger.Info("import finished", "source", src.Name(), "created", result.Created, "updated", result.Updated, "failed", len(result.Failed))
	return result, runErr
}

func (i *Importer) fail(result *ImportResult, line int, title string, err error) {
	result.Failed = append(result.Failed, RowError{Line: line, Title: title, Err: err})
	result.Job.ItemsFailed++
	i.logger.Warn("skipping record", "line", line, "err", err)
}

func (i *Importer) finish(job *models.ImportJob, err error, opts ImportOpts) {
	job.Finish(err)
	i.record(job, opts)
}

// record persists job progress. Failures are logged; the import itself goes on.
func (i *Importer) record(job *models.ImportJob, opts ImportOpts) {
	if opts.DryRun || i.jobs == nil || job.ID == "" {
		return
	}
	if err := i.jobs.Update(job); err != nil {
		i.logger.Warn("failed to update import job", "id", job.ID, "err", err)
	}
}
