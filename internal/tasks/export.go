package tasks

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/desertthunder/shelf/internal/formatter"
	"github.com/desertthunder/shelf/internal/shared"
)

// ExportOpts configures an export.
type ExportOpts struct {
	Format string    // csv, markdown, txt or json
	Path   string    // Output file; defaults to shelf.{ext}
	Covers bool      // Download cover images next to the export
	Cover  CoverOpts // Cover download settings; OutputDir defaults to a covers/ directory beside Path
}

// ExportResult describes the files an export produced.
type ExportResult struct {
	Format       string        `json:"format"`
	Path         string        `json:"path"`
	Items        int           `json:"items"`
	Covers       *CoversResult `json:"covers,omitempty"`
	ManifestPath string        `json:"-"`
	GeneratedAt  time.Time     `json:"generated_at"`
}

// Export writes snap in opts.Format and, when asked, downloads covers first so the Markdown page can
// link them. A manifest is written next to the export whenever covers were requested.
func Export(ctx context.Context, prog chan<- ProgressUpdate, dl Downloader, snap *formatter.Snapshot, opts ExportOpts) (*ExportResult, error) {
	if snap == nil {
		return nil, fmt.Errorf("%w: nothing to export", shared.ErrInvalidInput)
	}
	if _, err := formatter.Render(snap, opts.Format, nil); err != nil {
		return nil, err
	}

	if opts.Path == "" {
		opts.Path = "shelf" + formatter.Extension(opts.Format)
	}
	dir := filepath.Dir(opts.Path)

	result := &ExportResult{
		Format:      opts.Format,
		Items:       len(snap.Items),
		GeneratedAt: snap.GeneratedAt,
	}

	var links map[string]string
	if opts.Covers {
		if opts.Cover.OutputDir == "" {
			opts.Cover.OutputDir = filepath.Join(dir, "covers")
		}

		covers, err := FetchCovers(ctx, prog, dl, snap.Items, opts.Cover)
		if err != nil {
			return nil, fmt.Errorf("cover download failed: %w", err)
		}
		result.Covers = covers

		links = make(map[string]string, len(covers.Paths))
		for id, p := range covers.Paths {
			if rel, err := filepath.Rel(dir, p); err == nil {
				links[id] = filepath.ToSlash(rel)
			}
		}
	}

	path, err := formatter.WriteExport(snap, opts.Format, opts.Path, links)
	if err != nil {
		return nil, err
	}
	result.Path = path
	sendProgress(prog, exportWrittenUpdate(path, len(snap.Items)))

	if opts.Covers {
		manifest := filepath.Join(dir, "export_manifest.json")
		if err := formatter.WriteManifest(result, manifest); err != nil {
			return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
		}
		result.ManifestPath = manifest
	}

	return result, nil
}
