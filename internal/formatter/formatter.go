// package formatter renders catalog snapshots to CSV, Markdown, plain text and JSON
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/shelf/internal/collection"
	"github.com/desertthunder/shelf/internal/models"
	"github.com/desertthunder/shelf/internal/shared"
)

// Formats lists the supported export formats.
var Formats = []string{"csv", "markdown", "txt", "json"}

// Snapshot is one rendered view of the catalog: the items to list and KPIs over the whole collection.
type Snapshot struct {
	Name        string           `json:"name"`
	Currency    string           `json:"currency"`
	GeneratedAt time.Time        `json:"generated_at"`
	Items       []models.Item    `json:"items"`
	Stats       collection.Stats `json:"stats"`
}

// NewSnapshot builds a snapshot of items with stats computed over all.
func NewSnapshot(name, currency string, items, all []models.Item) *Snapshot {
	return &Snapshot{
		Name:        name,
		Currency:    currency,
		GeneratedAt: time.Now(),
		Items:       items,
		Stats:       collection.Summarize(all),
	}
}

// ExportToCSV writes items with the [models.CSVColumns] header so the file can be imported again.
func ExportToCSV(items []models.Item) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(models.CSVColumns); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, it := range items {
		metacritic := ""
		if it.Metacritic != nil {
			metacritic = strconv.Itoa(*it.Metacritic)
		}

		record := []string{
			it.Title,
			it.Platform,
			string(it.Status),
			strconv.FormatFloat(it.PricePaid, 'f', 2, 64),
			strconv.FormatFloat(it.PriceSold, 'f', 2, 64),
			strings.Join(it.Tags, ";"),
			metacritic,
			it.ImageURL,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown renders a profile page. covers maps item IDs to image paths relative to the page.
func ExportToMarkdown(s *Snapshot, covers map[string]string) ([]byte, error) {
	var buf bytes.Buffer
	money := func(v float64) string { return shared.FormatMoney(v, s.Currency) }

	fmt.Fprintf(&buf, "# %s\n\n", s.Name)
	fmt.Fprintf(&buf, "**Games**: %d\n", s.Stats.TotalCount)
	fmt.Fprintf(&buf, "**Invested**: %s\n", money(s.Stats.InvestedTotal))
	fmt.Fprintf(&buf, "**Recovered**: %s\n", money(s.Stats.RecoveredTotal))
	fmt.Fprintf(&buf, "**Completion**: %d%%\n", s.Stats.CompletionRate)
	if s.Stats.WishlistEstimate > 0 {
		fmt.Fprintf(&buf, "**Wishlist**: %s\n", money(s.Stats.WishlistEstimate))
	}
	if s.Stats.StorefrontPotential > 0 {
		fmt.Fprintf(&buf, "**For sale**: %s\n", money(s.Stats.StorefrontPotential))
	}
	buf.WriteString("\n")

	if len(s.Stats.ByPlatform) > 0 {
		buf.WriteString("## Platforms\n\n| Platform | Games |\n| --- | ---: |\n")
		for _, p := range s.Stats.ByPlatform {
			fmt.Fprintf(&buf, "| %s | %d |\n", escapeCell(p.Platform), p.Count)
		}
		buf.WriteString("\n")
	}

	fmt.Fprintf(&buf, "## Games (%d)\n\n", len(s.Items))
	if len(s.Items) == 0 {
		buf.WriteString("_No games match._\n")
		return buf.Bytes(), nil
	}

	buf.WriteString("| | Title | Platform | Status | Price | Metacritic |\n")
	buf.WriteString("| --- | --- | --- | --- | ---: | ---: |\n")
	for _, it := range s.Items {
		cover := ""
		if path, ok := covers[it.ID]; ok {
			cover = fmt.Sprintf("![](%s)", path)
		}
		score := "-"
		if it.Metacritic != nil {
			score = strconv.Itoa(*it.Metacritic)
		}
		fmt.Fprintf(&buf, "| %s | %s | %s | %s | %s | %s |\n",
			cover, escapeCell(it.Title), escapeCell(it.Platform), it.Status.Label(), money(it.ActivePrice()), score)
	}

	return buf.Bytes(), nil
}

// ExportToText renders a plain numbered list with a KPI header.
func ExportToText(s *Snapshot) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "%s\n", s.Name)
	fmt.Fprintf(&buf, "Games: %d  Invested: %s  Recovered: %s  Completion: %d%%\n\n",
		s.Stats.TotalCount,
		shared.FormatMoney(s.Stats.InvestedTotal, s.Currency),
		shared.FormatMoney(s.Stats.RecoveredTotal, s.Currency),
		s.Stats.CompletionRate,
	)

	for i, it := range s.Items {
		platform := it.Platform
		if platform == "" {
			platform = "Unknown"
		}
		fmt.Fprintf(&buf, "%d. %s (%s) - %s - %s\n", i+1, it.Title, platform, it.Status.Label(), shared.FormatMoney(it.ActivePrice(), s.Currency))
	}

	return buf.Bytes(), nil
}

// ExportToJSON renders the snapshot as indented JSON.
func ExportToJSON(s *Snapshot) ([]byte, error) {
	return shared.MarshalJSON(s, true)
}

// Render dispatches on format.
func Render(s *Snapshot, format string, covers map[string]string) ([]byte, error) {
	switch format {
	case "csv":
		return ExportToCSV(s.Items)
	case "markdown", "md":
		return ExportToMarkdown(s, covers)
	case "txt", "text":
		return ExportToText(s)
	case "json":
		return ExportToJSON(s)
	default:
		return nil, fmt.Errorf("%w: %q (expected one of %s)", shared.ErrUnsupportedFormat, format, strings.Join(Formats, ", "))
	}
}

// Extension returns the file extension for format, including the dot.
func Extension(format string) string {
	switch format {
	case "markdown", "md":
		return ".md"
	case "txt", "text":
		return ".txt"
	case "csv":
		return ".csv"
	default:
		return ".json"
	}
}

// WriteExport renders s and writes it to path, creating parent directories.
//
// Defaults to shelf{ext} in the working directory when path is empty.
func WriteExport(s *Snapshot, format, path string, covers map[string]string) (string, error) {
	data, err := Render(s, format, covers)
	if err != nil {
		return "", err
	}

	if path == "" {
		path = "shelf" + Extension(format)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	return path, nil
}

// WriteManifest writes v as indented JSON to path.
func WriteManifest(v any, path string) error {
	data, err := shared.MarshalJSON(v, true)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
