package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/shelf/internal/models"
	"github.com/desertthunder/shelf/internal/shared"
)

const importJobColumns = `
	id, sequence, source, status, items_total, items_imported, items_failed,
	error_message, started_at, completed_at, created_at, updated_at
`

// ImportJobRepository implements models.Repository[*models.ImportJob] for import history.
type ImportJobRepository struct {
	db *sql.DB
}

// NewImportJobRepository creates a new ImportJobRepository with the given database connection
func NewImportJobRepository(db *sql.DB) *ImportJobRepository {
	return &ImportJobRepository{db: db}
}

// Create inserts a new import job with generated ID and sequence
func (r *ImportJobRepository) Create(job *models.ImportJob) error {
	if err := job.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(r.db, "import_jobs")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	job.ID = shared.GenerateID()
	job.Sequence = sequence

	query := `
		INSERT INTO import_jobs (` + importJobColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		job.ID,
		sequence,
		job.Source,
		string(job.Status),
		job.ItemsTotal,
		job.ItemsImported,
		job.ItemsFailed,
		nullableString(job.ErrorMessage),
		job.StartedAt,
		job.CompletedAt,
		job.CreatedAt,
		job.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert import job: %w", err)
	}

	return nil
}

// Get retrieves an import job by ID, excluding soft-deleted jobs
func (r *ImportJobRepository) Get(id string) (*models.ImportJob, error) {
	query := `SELECT ` + importJobColumns + ` FROM import_jobs WHERE id = ? AND deleted_at IS NULL`

	job, err := scanImportJob(r.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", shared.ErrImportNotFound, id)
	}
	return job, err
}

// Update persists progress and outcome of an import job
func (r *ImportJobRepository) Update(job *models.ImportJob) error {
	if err := job.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	job.UpdatedAt = time.Now()

	query := `
		UPDATE import_jobs
		SET status = ?, items_total = ?, items_imported = ?, items_failed = ?,
			error_message = ?, started_at = ?, completed_at = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		string(job.Status),
		job.ItemsTotal,
		job.ItemsImported,
		job.ItemsFailed,
		nullableString(job.ErrorMessage),
		job.StartedAt,
		job.CompletedAt,
		job.UpdatedAt,
		job.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update import job: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrImportNotFound, job.ID)
	}

	return nil
}

// Delete soft-deletes an import job by ID
func (r *ImportJobRepository) Delete(id string) error {
	query := `
		UPDATE import_jobs
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete import job: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrImportNotFound, id)
	}

	return nil
}

// List retrieves import jobs newest first. Supported criteria: "status" and "limit".
func (r *ImportJobRepository) List(criteria map[string]any) ([]*models.ImportJob, error) {
	query := `SELECT ` + importJobColumns + ` FROM import_jobs WHERE deleted_at IS NULL`
	args := []any{}

	switch status := criteria["status"].(type) {
	case models.ImportStatus:
		if status != "" {
			query += " AND status = ?"
			args = append(args, string(status))
		}
	case string:
		if status != "" {
			query += " AND status = ?"
			args = append(args, status)
		}
	}

	query += " ORDER BY sequence DESC"

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query import jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*models.ImportJob
	for rows.Next() {
		job, err := scanImportJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return jobs, nil
}

func scanImportJob(row scanner) (*models.ImportJob, error) {
	var (
		job          models.ImportJob
		status       string
		errorMessage sql.NullString
		startedAt    sql.NullTime
		completedAt  sql.NullTime
	)

	err := row.Scan(
		&job.ID, &job.Sequence, &job.Source, &status, &job.ItemsTotal,
		&job.ItemsImported, &job.ItemsFailed, &errorMessage, &startedAt,
		&completedAt, &job.CreatedAt, &job.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan import job: %w", err)
	}

	job.Status = models.ImportStatus(status)
	if errorMessage.Valid {
		job.ErrorMessage = errorMessage.String
	}
	if startedAt.Valid {
		job.StartedAt = &startedAt.Time
	}
	if completedAt.Valid {
		job.CompletedAt = &completedAt.Time
	}

	return &job, nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
