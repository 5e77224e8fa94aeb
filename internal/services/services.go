package services

import (
	"context"

	"github.com/desertthunder/shelf/internal/models"
)

// Source produces import rows from a file or a remote snapshot.
type Source interface {
	// Fetch reads and parses every record. A malformed record becomes a [Row] with Err set;
	// only failures that prevent reading the source at all are returned as an error.
	Fetch(ctx context.Context) ([]Row, error)

	// Name identifies the source in import history (a path or URL).
	Name() string
}

// Row is one parsed import record.
type Row struct {
	Line int         // 1-based record number; for CSV the header is line 1
	Item models.Item // Zero when Err is set
	Err  error
}
