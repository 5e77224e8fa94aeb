package models

import (
	"fmt"
	"time"

	"github.com/desertthunder/shelf/internal/shared"
)

// ImportStatus is the lifecycle of an [ImportJob].
type ImportStatus string

const (
	ImportPending   ImportStatus = "pending"
	ImportRunning   ImportStatus = "running"
	ImportCompleted ImportStatus = "completed"
	ImportFailed    ImportStatus = "failed"
)

// ImportJob records one library import and its outcome.
type ImportJob struct {
	ID            string       `json:"id"`
	Sequence      int          `json:"-"`
	Source        string       `json:"source"` // File path or URL
	Status        ImportStatus `json:"status"`
	ItemsTotal    int          `json:"items_total"`
	ItemsImported int          `json:"items_imported"`
	ItemsFailed   int          `json:"items_failed"`
	ErrorMessage  string       `json:"error_message,omitempty"`
	StartedAt     *time.Time   `json:"started_at,omitempty"`
	CompletedAt   *time.Time   `json:"completed_at,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// NewImportJob creates a pending job for source.
func NewImportJob(source string) *ImportJob {
	now := time.Now()
	return &ImportJob{
		Source:    source,
		Status:    ImportPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Start marks the job running with the number of rows found.
func (j *ImportJob) Start(total int) {
	now := time.Now()
	j.Status = ImportRunning
	j.ItemsTotal = total
	j.StartedAt = &now
}

// Finish marks the job completed, or failed when err is non-nil.
func (j *ImportJob) Finish(err error) {
	now := time.Now()
	j.CompletedAt = &now
	if err != nil {
		j.Status = ImportFailed
		j.ErrorMessage = err.Error()
		return
	}
	j.Status = ImportCompleted
}

// Validate checks the job's invariants.
func (j *ImportJob) Validate() error {
	if j.Source == "" {
		return fmt.Errorf("%w: import source is required", shared.ErrInvalidInput)
	}
	switch j.Status {
	case ImportPending, ImportRunning, ImportCompleted, ImportFailed:
	default:
		return fmt.Errorf("%w: unknown import status %q", shared.ErrInvalidInput, j.Status)
	}
	if j.ItemsImported+j.ItemsFailed > j.ItemsTotal {
		return fmt.Errorf("%w: processed more items than total", shared.ErrInvalidInput)
	}
	return nil
}
