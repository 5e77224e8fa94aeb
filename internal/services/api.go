package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/desertthunder/shelf/internal/shared"
)

// SnapshotClient fetches a JSON library snapshot from a remote URL and downloads cover images.
type SnapshotClient struct {
	url        string
	httpClient *http.Client
}

// NewSnapshotClient creates a client for the snapshot at url.
func NewSnapshotClient(url string, client *http.Client) *SnapshotClient {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	return &SnapshotClient{
		url:        url,
		httpClient: client,
	}
}

// APIResponse represents a raw API response with status and body.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	IsJSON     bool
}

// OK reports a 2xx status.
func (r *APIResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Name returns the snapshot URL.
func (c *SnapshotClient) Name() string {
	return c.url
}

// Get performs a GET request to url and returns the raw response.
func (c *SnapshotClient) Get(ctx context.Context, url string) (*APIResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: request failed: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", shared.ErrAPIRequest, err)
	}

	return &APIResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       body,
		IsJSON:     json.Valid(body),
	}, nil
}

// Fetch downloads the snapshot and parses it with [ParseJSON].
func (c *SnapshotClient) Fetch(ctx context.Context) ([]Row, error) {
	resp, err := c.Get(ctx, c.url)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, fmt.Errorf("%w: %s returned status %d", shared.ErrAPIRequest, c.url, resp.StatusCode)
	}
	if !resp.IsJSON {
		return nil, fmt.Errorf("%w: %s did not return JSON", shared.ErrUnsupportedFormat, c.url)
	}

	return ParseJSON(bytes.NewReader(resp.Body))
}

// Download fetches raw bytes from url, for cover images.
func (c *SnapshotClient) Download(ctx context.Context, url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("%w: empty URL provided", shared.ErrInvalidInput)
	}

	resp, err := c.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: download returned status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	return resp.Body, nil
}
