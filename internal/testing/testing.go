// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/shelf/internal/models"
)

// MockSaver is a test double for tasks.ItemSaver that keeps items in memory keyed by title.
type MockSaver struct {
	mu    sync.Mutex
	Items map[string]models.Item
	Fail  map[string]error // Title -> error returned by SaveItem
	Calls int
}

func NewMockSaver() *MockSaver {
	return &MockSaver{Items: map[string]models.Item{}, Fail: map[string]error{}}
}

func (m *MockSaver) SaveItem(item *models.Item) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls++
	if err := m.Fail[item.Title]; err != nil {
		return false, err
	}

	_, exists := m.Items[item.Title]
	if item.ID == "" {
		item.ID = fmt.Sprintf("mock-%d", m.Calls)
	}
	m.Items[item.Title] = *item
	return !exists, nil
}

// MockJobRecorder is a test double for tasks.JobRecorder
type MockJobRecorder struct {
	Created   []models.ImportJob
	Updates   []models.ImportJob
	CreateErr error
	UpdateErr error
}

func (m *MockJobRecorder) Create(job *models.ImportJob) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	job.ID = fmt.Sprintf("job-%d", len(m.Created)+1)
	m.Created = append(m.Created, *job)
	return nil
}

func (m *MockJobRecorder) Update(job *models.ImportJob) error {
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	m.Updates = append(m.Updates, *job)
	return nil
}

// Last returns the most recent state written for a job.
func (m *MockJobRecorder) Last() models.ImportJob {
	if len(m.Updates) > 0 {
		return m.Updates[len(m.Updates)-1]
	}
	return m.Created[len(m.Created)-1]
}

// MockDownloader serves canned bytes per URL
type MockDownloader struct {
	mu    sync.Mutex
	Files map[string][]byte
	Calls []string
}

func (m *MockDownloader) Download(ctx context.Context, url string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, url)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, ok := m.Files[url]
	if !ok {
		return nil, fmt.Errorf("not found: %s", url)
	}
	return data, nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
