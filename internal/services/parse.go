package services

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/desertthunder/shelf/internal/models"
	"github.com/desertthunder/shelf/internal/shared"
)

// ParseJSON reads a JSON array of items, or an object wrapping one under "items".
//
// Each element is decoded on its own so a bad element only fails its row.
func ParseJSON(r io.Reader) ([]Row, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read JSON: %w", err)
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		var wrapped struct {
			Items []json.RawMessage `json:"items"`
		}
		if werr := json.Unmarshal(data, &wrapped); werr != nil || wrapped.Items == nil {
			return nil, fmt.Errorf("%w: expected a JSON array of items: %v", shared.ErrInvalidInput, err)
		}
		raw = wrapped.Items
	}

	rows := make([]Row, 0, len(raw))
	for i, msg := range raw {
		row := Row{Line: i + 1}

		var it models.Item
		if err := json.Unmarshal(msg, &it); err != nil {
			row.Err = fmt.Errorf("%w: item %d: %v", shared.ErrInvalidInput, i+1, err)
			rows = append(rows, row)
			continue
		}

		row.Item, row.Err = normalize(it)
		rows = append(rows, row)
	}

	return rows, nil
}

// ParseCSV reads a CSV file whose first record is a header naming columns from [models.CSVColumns].
//
// Column order is free and unknown columns are ignored; title and status are required.
func ParseCSV(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: empty CSV", shared.ErrInvalidInput)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read CSV header: %v", shared.ErrInvalidInput, err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		cols[name] = i
	}
	for _, required := range []string{"title", "status"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("%w: CSV header is missing %q", shared.ErrInvalidInput, required)
		}
	}

	var rows []Row
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			rows = append(rows, Row{Line: line, Err: fmt.Errorf("%w: line %d: %v", shared.ErrInvalidInput, line, err)})
			continue
		}

		field := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		it, err := csvItem(field)
		if err != nil {
			rows = append(rows, Row{Line: line, Err: fmt.Errorf("line %d: %w", line, err)})
			continue
		}

		row := Row{Line: line}
		row.Item, row.Err = normalize(it)
		if row.Err != nil {
			row.Err = fmt.Errorf("line %d: %w", line, row.Err)
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func csvItem(field func(string) string) (models.Item, error) {
	it := models.Item{
		Title:    field("title"),
		Platform: field("platform"),
		Status:   models.Status(field("status")),
		ImageURL: field("image_url"),
		Tags:     strings.Split(field("tags"), ";"),
	}

	var err error
	if it.PricePaid, err = parsePrice(field("price_paid")); err != nil {
		return it, err
	}
	if it.PriceSold, err = parsePrice(field("price_sold")); err != nil {
		return it, err
	}

	if s := field("metacritic"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return it, fmt.Errorf("%w: metacritic %q is not a number", shared.ErrInvalidInput, s)
		}
		it.Metacritic = models.Metascore(v)
	}

	return it, nil
}

// parsePrice accepts plain numbers with an optional leading currency symbol and thousands separators.
func parsePrice(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	clean := strings.TrimLeft(s, "$€£¥ ")
	clean = strings.ReplaceAll(clean, ",", "")

	v, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: price %q is not a number", shared.ErrInvalidInput, s)
	}
	return v, nil
}

// normalize turns a decoded record into a valid item, leaving ID assignment to the repository.
func normalize(it models.Item) (models.Item, error) {
	st, err := models.ParseStatus(string(it.Status))
	if err != nil {
		return models.Item{}, err
	}

	it.ID = ""
	it.Status = st
	it.Title = strings.TrimSpace(it.Title)
	it.Platform = strings.TrimSpace(it.Platform)
	it.Tags = models.NormalizeTags(it.Tags)
	if len(it.Tags) == 0 {
		it.Tags = nil
	}

	if err := it.Validate(); err != nil {
		return models.Item{}, err
	}
	return it, nil
}

func detectFormat(name string, data []byte) string {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".json"):
		return "json"
	case strings.HasSuffix(lower, ".csv"):
		return "csv"
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && (trimmed[0] == '[' || trimmed[0] == '{') {
		return "json"
	}
	return ""
}
