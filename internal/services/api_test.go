package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/desertthunder/shelf/internal/shared"
	tu "github.com/desertthunder/shelf/internal/testing"
)

func TestSnapshotClient(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		t.Run("With Custom Client", func(t *testing.T) {
			customClient := &http.Client{}
			c := NewSnapshotClient("http://example.com/items.json", customClient)

			if c.httpClient != customClient {
				t.Error("expected custom client to be used")
			}
			if c.Name() != "http://example.com/items.json" {
				t.Errorf("expected name to be the URL, got %s", c.Name())
			}
		})

		t.Run("With Nil Client", func(t *testing.T) {
			c := NewSnapshotClient("http://example.com", nil)

			if c.httpClient == nil || c.httpClient.Timeout == 0 {
				t.Error("expected a default client with a timeout")
			}
		})
	})

	t.Run("Fetch", func(t *testing.T) {
		t.Run("Bare Array", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodGet {
					t.Errorf("expected GET method, got %s", r.Method)
				}
				w.Header().Set("Content-Type", "application/json")
				json.NewEncoder(w).Encode([]map[string]any{
					{"title": "Hades", "platform": "PC", "status": "platinum", "price_paid": 25},
					{"title": "Halo", "platform": "Xbox One", "status": "sold", "price_sold": 12.5},
				})
			}))
			defer server.Close()

			rows, err := NewSnapshotClient(server.URL, nil).Fetch(context.Background())
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(rows) != 2 {
				t.Fatalf("expected 2 rows, got %d", len(rows))
			}
			if rows[0].Err != nil || rows[0].Item.Status != "PLATINUM" {
				t.Errorf("unexpected first row: %+v", rows[0])
			}
			if rows[1].Item.PriceSold != 12.5 {
				t.Errorf("expected price 12.5, got %v", rows[1].Item.PriceSold)
			}
		})

		t.Run("Profile Envelope", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"name":"Shelf","items":[{"title":"Celeste","status":"COMPLETED"}]}`))
			}))
			defer server.Close()

			rows, err := NewSnapshotClient(server.URL, nil).Fetch(context.Background())
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(rows) != 1 || rows[0].Item.Title != "Celeste" {
				t.Errorf("unexpected rows: %+v", rows)
			}
		})

		t.Run("Non-2xx Status", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", http.StatusInternalServerError)
			}))
			defer server.Close()

			_, err := NewSnapshotClient(server.URL, nil).Fetch(context.Background())
			if !errors.Is(err, shared.ErrAPIRequest) {
				t.Errorf("expected ErrAPIRequest, got %v", err)
			}
		})

		t.Run("Non-JSON Body", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("<html>hello</html>"))
			}))
			defer server.Close()

			_, err := NewSnapshotClient(server.URL, nil).Fetch(context.Background())
			if !errors.Is(err, shared.ErrUnsupportedFormat) {
				t.Errorf("expected ErrUnsupportedFormat, got %v", err)
			}
		})
	})

	t.Run("Get", func(t *testing.T) {
		t.Run("Failed Request Creation", func(t *testing.T) {
			_, err := NewSnapshotClient("", nil).Get(context.Background(), "http://example.com/\x00invalid")

			if err == nil {
				t.Fatal("expected error for invalid URL")
			}
			if !strings.Contains(err.Error(), "failed to create request") {
				t.Errorf("expected 'failed to create request' error, got %v", err)
			}
		})

		t.Run("Failed HTTP Request", func(t *testing.T) {
			client := &http.Client{
				Transport: tu.NewMockRoundTripper(nil, errors.New("connection failed")),
			}

			_, err := NewSnapshotClient("http://example.com", client).Get(context.Background(), "http://example.com")
			if !errors.Is(err, shared.ErrAPIRequest) {
				t.Errorf("expected ErrAPIRequest, got %v", err)
			}
		})

		t.Run("Failed Response Body Read", func(t *testing.T) {
			client := &http.Client{
				Transport: tu.NewMockRoundTripper(&http.Response{
					StatusCode: http.StatusOK,
					Body:       &tu.FCloser{},
					Header:     http.Header{},
				}, nil),
			}

			_, err := NewSnapshotClient("http://example.com", client).Get(context.Background(), "http://example.com")
			if err == nil || !strings.Contains(err.Error(), "failed to read response") {
				t.Errorf("expected 'failed to read response' error, got %v", err)
			}
		})

		t.Run("Cancelled Context", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("[]"))
			}))
			defer server.Close()

			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			if _, err := NewSnapshotClient(server.URL, nil).Get(ctx, server.URL); err == nil {
				t.Error("expected error for cancelled context")
			}
		})
	})

	t.Run("Download", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/missing.jpg" {
				http.NotFound(w, r)
				return
			}
			w.Header().Set("Content-Type", "image/jpeg")
			w.Write([]byte("jpegdata"))
		}))
		defer server.Close()

		c := NewSnapshotClient(server.URL, nil)

		data, err := c.Download(context.Background(), server.URL+"/cover.jpg")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if string(data) != "jpegdata" {
			t.Errorf("expected image bytes, got %q", data)
		}

		if _, err := c.Download(context.Background(), server.URL+"/missing.jpg"); !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
		if _, err := c.Download(context.Background(), ""); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})
}
