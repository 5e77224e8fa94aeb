package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/shelf/internal/models"
	"github.com/desertthunder/shelf/internal/shared"
	"github.com/google/go-cmp/cmp"
)

func TestParseJSON(t *testing.T) {
	t.Run("Valid And Invalid Rows", func(t *testing.T) {
		input := `[
			{"id": "ignored", "title": " Elden Ring ", "platform": "PS5", "status": "playing", "price_paid": 69.99, "tags": ["souls", "souls", ""], "metacritic": 96},
			{"title": "", "status": "OWNED"},
			{"title": "Starfield", "status": "abandoned"},
			{"title": 42}
		]`

		rows, err := ParseJSON(strings.NewReader(input))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(rows) != 4 {
			t.Fatalf("expected 4 rows, got %d", len(rows))
		}

		want := models.Item{
			Title:      "Elden Ring",
			Platform:   "PS5",
			Status:     models.StatusPlaying,
			PricePaid:  69.99,
			Tags:       []string{"souls"},
			Metacritic: models.Metascore(96),
		}
		if diff := cmp.Diff(want, rows[0].Item); diff != "" {
			t.Errorf("item mismatch (-want +got):\n%s", diff)
		}

		if !errors.Is(rows[1].Err, shared.ErrInvalidInput) {
			t.Errorf("expected missing title error, got %v", rows[1].Err)
		}
		if !errors.Is(rows[2].Err, shared.ErrInvalidStatus) {
			t.Errorf("expected invalid status error, got %v", rows[2].Err)
		}
		if !errors.Is(rows[3].Err, shared.ErrInvalidInput) {
			t.Errorf("expected decode error, got %v", rows[3].Err)
		}
		for i, row := range rows {
			if row.Line != i+1 {
				t.Errorf("row %d has line %d", i, row.Line)
			}
		}
	})

	t.Run("Not An Array", func(t *testing.T) {
		for _, input := range []string{`{"title": "x"}`, `nonsense`, ``} {
			if _, err := ParseJSON(strings.NewReader(input)); !errors.Is(err, shared.ErrInvalidInput) {
				t.Errorf("%q: expected ErrInvalidInput, got %v", input, err)
			}
		}
	})

	t.Run("Empty Array", func(t *testing.T) {
		rows, err := ParseJSON(strings.NewReader(`[]`))
		if err != nil || len(rows) != 0 {
			t.Errorf("expected no rows, got %v, %v", rows, err)
		}
	})
}

func TestParseCSV(t *testing.T) {
	t.Run("Round Trip Header", func(t *testing.T) {
		input := strings.Join([]string{
			strings.Join(models.CSVColumns, ","),
			`The Witcher 3,PC,COMPLETED,"$1,039.99",0,rpg;open world,93,https://example.com/w3.jpg`,
			`Gran Turismo,PS5,for sale,40,35,,,`,
		}, "\n")

		rows, err := ParseCSV(strings.NewReader(input))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := []models.Item{
			{
				Title:      "The Witcher 3",
				Platform:   "PC",
				Status:     models.StatusCompleted,
				PricePaid:  1039.99,
				Tags:       []string{"rpg", "open world"},
				Metacritic: models.Metascore(93),
				ImageURL:   "https://example.com/w3.jpg",
			},
			{
				Title:     "Gran Turismo",
				Platform:  "PS5",
				Status:    models.StatusForSale,
				PricePaid: 40,
				PriceSold: 35,
			},
		}

		var got []models.Item
		for _, row := range rows {
			if row.Err != nil {
				t.Fatalf("line %d: unexpected error: %v", row.Line, row.Err)
			}
			got = append(got, row.Item)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("items mismatch (-want +got):\n%s", diff)
		}
		if rows[0].Line != 2 || rows[1].Line != 3 {
			t.Errorf("expected lines 2 and 3, got %d and %d", rows[0].Line, rows[1].Line)
		}
	})

	t.Run("Reordered Columns", func(t *testing.T) {
		input := "Status,Title,Notes\nwishlisted,Hollow Knight Silksong,soon\n"

		rows, err := ParseCSV(strings.NewReader(input))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(rows) != 1 || rows[0].Err != nil {
			t.Fatalf("unexpected rows: %+v", rows)
		}
		if rows[0].Item.Status != models.StatusWishlisted || rows[0].Item.Title != "Hollow Knight Silksong" {
			t.Errorf("unexpected item: %+v", rows[0].Item)
		}
	})

	t.Run("Bad Rows", func(t *testing.T) {
		input := strings.Join([]string{
			"title,status,price_paid,metacritic",
			"A,OWNED,abc,",
			"B,OWNED,1,ninety",
			"C,OWNED,1,150",
			"D,LOST,1,",
			"E,OWNED,-3,",
			"F,OWNED,3,80",
		}, "\n")

		rows, err := ParseCSV(strings.NewReader(input))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(rows) != 6 {
			t.Fatalf("expected 6 rows, got %d", len(rows))
		}
		for _, row := range rows[:5] {
			if row.Err == nil {
				t.Errorf("line %d: expected error", row.Line)
			}
		}
		if rows[5].Err != nil || rows[5].Item.Score() != 80 {
			t.Errorf("expected last row to parse, got %+v", rows[5])
		}
		if !strings.Contains(rows[0].Err.Error(), "line 2") {
			t.Errorf("expected line number in error, got %v", rows[0].Err)
		}
	})

	t.Run("Header Errors", func(t *testing.T) {
		for _, input := range []string{"", "title,platform\nA,PC\n", "platform,status\nPC,OWNED\n"} {
			if _, err := ParseCSV(strings.NewReader(input)); !errors.Is(err, shared.ErrInvalidInput) {
				t.Errorf("%q: expected ErrInvalidInput, got %v", input, err)
			}
		}
	})
}

func TestFileSource(t *testing.T) {
	dir := t.TempDir()

	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
		return path
	}

	tc := []struct {
		name    string
		path    string
		want    int
		wantErr error
	}{
		{"json", write("library.json", `[{"title":"Doom","status":"OWNED"}]`), 1, nil},
		{"csv", write("library.CSV", "title,status\nDoom,OWNED\nQuake,OWNED\n"), 2, nil},
		{"sniffed json", write("library.txt", `  [{"title":"Doom","status":"OWNED"}]`), 1, nil},
		{"unknown", write("library.xml", `<items/>`), 0, shared.ErrUnsupportedFormat},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			src := NewFileSource(tt.path)
			if src.Name() != tt.path {
				t.Errorf("expected name %s, got %s", tt.path, src.Name())
			}

			rows, err := src.Fetch(context.Background())
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(rows) != tt.want {
				t.Errorf("expected %d rows, got %d", tt.want, len(rows))
			}
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := NewFileSource(filepath.Join(dir, "nope.json")).Fetch(context.Background())
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("expected not-exist error, got %v", err)
		}
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := NewFileSource(tc[0].path).Fetch(ctx); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}
