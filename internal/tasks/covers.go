package tasks

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"unicode"

	"github.com/desertthunder/shelf/internal/models"
	"github.com/desertthunder/shelf/internal/shared"
	"golang.org/x/time/rate"
)

// Downloader fetches raw bytes for a URL.
type Downloader interface {
	Download(ctx context.Context, url string) ([]byte, error)
}

// CoverOpts contains configuration for cover downloads.
type CoverOpts struct {
	OutputDir  string  // Directory receiving the images
	NumWorkers int     // Concurrent workers (default: 4, max: 10)
	RateLimit  float64 // Downloads started per second (default: 5)
}

// CoverResult is the outcome for one item.
type CoverResult struct {
	ItemID string `json:"item_id"`
	Title  string `json:"title"`
	URL    string `json:"url"`
	Path   string `json:"path,omitempty"`
	Error  error  `json:"-"`
}

// CoversResult summarizes a cover download run.
type CoversResult struct {
	Total      int               `json:"total"`
	Downloaded int               `json:"downloaded"`
	Failed     int               `json:"failed"`
	Results    []CoverResult     `json:"results"`
	Paths      map[string]string `json:"-"` // Item ID to written file
}

type coverJob struct {
	item models.Item
	name string
}

// FetchCovers downloads the cover image of every item that has one, using a rate limited worker pool.
//
// Partial failures are reported per item; an error is returned only when the output directory
// cannot be created or dl is missing.
func FetchCovers(ctx context.Context, prog chan<- ProgressUpdate, dl Downloader, items []models.Item, opts CoverOpts) (*CoversResult, error) {
	if dl == nil {
		return nil, fmt.Errorf("%w: downloader not initialized", shared.ErrServiceUnavailable)
	}

	if opts.OutputDir == "" {
		opts.OutputDir = "covers"
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 4
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	var queue []coverJob
	for _, it := range items {
		if it.ImageURL != "" {
			queue = append(queue, coverJob{item: it, name: coverName(it)})
		}
	}

	result := &CoversResult{
		Total:   len(queue),
		Results: make([]CoverResult, 0, len(queue)),
		Paths:   make(map[string]string, len(queue)),
	}
	if len(queue) == 0 {
		return result, nil
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan coverJob, len(queue))
	results := make(chan CoverResult, len(queue))

	var wg sync.WaitGroup
	for range opts.NumWorkers {
		wg.Add(1)
		go coverWorker(ctx, &wg, dl, jobs, results, opts.OutputDir)
	}

	go func() {
		defer close(jobs)
		for _, job := range queue {
			if err := limiter.Wait(ctx); err != nil {
				return
			}
			jobs <- job
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)
		if res.Error != nil {
			result.Failed++
		} else {
			result.Downloaded++
			result.Paths[res.ItemID] = res.Path
		}
		sendProgress(prog, coverUpdate(completed, result.Total, res))
	}

	// jobs never handed out before cancellation
	result.Failed += result.Total - completed

	return result, ctx.Err()
}

func coverWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	dl Downloader,
	jobs <-chan coverJob,
	results chan<- CoverResult,
	dir string,
) {
	defer wg.Done()

	for job := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		results <- downloadCover(ctx, dl, job, dir)
	}
}

func downloadCover(ctx context.Context, dl Downloader, job coverJob, dir string) CoverResult {
	res := CoverResult{
		ItemID: job.item.ID,
		Title:  job.item.Title,
		URL:    job.item.ImageURL,
	}

	data, err := dl.Download(ctx, job.item.ImageURL)
	if err != nil {
		res.Error = fmt.Errorf("download failed: %w", err)
		return res
	}

	p := filepath.Join(dir, job.name)
	if err := os.WriteFile(p, data, 0644); err != nil {
		res.Error = fmt.Errorf("write failed: %w", err)
		return res
	}

	res.Path = p
	return res
}

// coverName derives a file name from the item ID and the URL's extension, defaulting to .jpg.
func coverName(it models.Item) string {
	ext := ".jpg"
	if u, err := url.Parse(it.ImageURL); err == nil {
		switch e := strings.ToLower(path.Ext(u.Path)); e {
		case ".jpg", ".jpeg", ".png", ".gif", ".webp":
			ext = e
		}
	}

	id := it.ID
	if id == "" {
		id = it.Title
	}
	return safeName(id) + ext
}

func safeName(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' {
			return unicode.ToLower(r)
		}
		return '-'
	}, strings.TrimSpace(s))
	if s == "" {
		return "cover"
	}
	return s
}
