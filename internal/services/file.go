package services

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/shelf/internal/shared"
)

// FileSource imports from a local JSON or CSV export.
type FileSource struct {
	path string
}

// NewFileSource creates a [FileSource] for path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Name returns the file path.
func (f *FileSource) Name() string {
	return f.path
}

// Fetch reads the whole file and parses it according to its extension.
func (f *FileSource) Fetch(ctx context.Context) ([]Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", f.path, err)
	}

	switch detectFormat(f.path, data) {
	case "json":
		return ParseJSON(bytes.NewReader(data))
	case "csv":
		return ParseCSV(bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("%w: %s (expected .json or .csv)", shared.ErrUnsupportedFormat, f.path)
	}
}
