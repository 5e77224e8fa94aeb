package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/shelf/internal/models"
	"github.com/desertthunder/shelf/internal/shared"
)

const itemColumns = `id, sequence, title, platform, status, price_paid, price_sold, metacritic, image_url, created_at, updated_at`

// ItemRepository implements models.Repository[*models.Item] for the catalog.
//
// Tags live in item_tags and are loaded with a second query once the item rows are closed,
// so the repository works on a single-connection pool.
type ItemRepository struct {
	db *sql.DB
}

// NewItemRepository creates a new ItemRepository with the given database connection
func NewItemRepository(db *sql.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

// Create inserts a new [models.Item] with a generated ID and sequence
func (r *ItemRepository) Create(item *models.Item) error {
	if err := item.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(r.db, "items")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	now := time.Now()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	if item.UpdatedAt.IsZero() {
		item.UpdatedAt = item.CreatedAt
	}
	item.ID = shared.GenerateID()
	item.Tags = models.NormalizeTags(item.Tags)

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("%w: failed to begin transaction: %v", shared.ErrDatabase, err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO items (id, sequence, title, platform, status, price_paid, price_sold, metacritic, image_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = tx.Exec(query,
		item.ID,
		sequence,
		item.Title,
		item.Platform,
		string(item.Status),
		item.PricePaid,
		item.PriceSold,
		nullableScore(item.Metacritic),
		item.ImageURL,
		item.CreatedAt,
		item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert item: %w", err)
	}

	if err := writeTags(tx, item.ID, item.Tags); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit item: %w", err)
	}

	return nil
}

// Get retrieves an item by ID, excluding soft-deleted items
func (r *ItemRepository) Get(id string) (*models.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = ? AND deleted_at IS NULL`

	item, err := scanItem(r.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", shared.ErrItemNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	tags, err := r.tagsFor(id)
	if err != nil {
		return nil, err
	}
	item.Tags = tags[id]

	return item, nil
}

// FindByTitle returns the live item with the given title and platform, compared case-insensitively.
func (r *ItemRepository) FindByTitle(title, platform string) (*models.Item, error) {
	query := `SELECT id FROM items WHERE lower(title) = lower(?) AND platform = ? AND deleted_at IS NULL ORDER BY sequence LIMIT 1`

	var id string
	err := r.db.QueryRow(query, strings.TrimSpace(title), platform).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s (%s)", shared.ErrItemNotFound, title, platform)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up item: %w", err)
	}

	return r.Get(id)
}

// Update modifies an existing item and replaces its tags
func (r *ItemRepository) Update(item *models.Item) error {
	if err := item.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	item.UpdatedAt = time.Now()
	item.Tags = models.NormalizeTags(item.Tags)

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("%w: failed to begin transaction: %v", shared.ErrDatabase, err)
	}
	defer tx.Rollback()

	query := `
		UPDATE items
		SET title = ?, platform = ?, status = ?, price_paid = ?, price_sold = ?, metacritic = ?, image_url = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := tx.Exec(query,
		item.Title,
		item.Platform,
		string(item.Status),
		item.PricePaid,
		item.PriceSold,
		nullableScore(item.Metacritic),
		item.ImageURL,
		item.UpdatedAt,
		item.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrItemNotFound, item.ID)
	}

	if _, err := tx.Exec(`DELETE FROM item_tags WHERE item_id = ?`, item.ID); err != nil {
		return fmt.Errorf("failed to clear tags: %w", err)
	}
	if err := writeTags(tx, item.ID, item.Tags); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit item: %w", err)
	}

	return nil
}

// Delete soft-deletes an item by ID
func (r *ItemRepository) Delete(id string) error {
	query := `
		UPDATE items
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrItemNotFound, id)
	}

	return nil
}

// List retrieves all live items matching the given criteria in insertion order.
//
// Supported criteria: "status" ([models.Status] or string) and "platform" (string).
// Anything richer belongs to the collection engine.
func (r *ItemRepository) List(criteria map[string]any) ([]*models.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE deleted_at IS NULL`
	args := []any{}

	switch status := criteria["status"].(type) {
	case models.Status:
		if status != "" {
			query += " AND status = ?"
			args = append(args, string(status))
		}
	case string:
		if status != "" {
			query += " AND status = ?"
			args = append(args, status)
		}
	}

	if platform, ok := criteria["platform"].(string); ok && platform != "" {
		query += " AND platform = ?"
		args = append(args, platform)
	}

	query += " ORDER BY sequence ASC"

	items, err := r.query(query, args...)
	if err != nil {
		return nil, err
	}

	tags, err := r.tagsFor("")
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		it.Tags = tags[it.ID]
	}

	return items, nil
}

// All returns every live item by value, ready for the collection engine.
func (r *ItemRepository) All() ([]models.Item, error) {
	items, err := r.List(nil)
	if err != nil {
		return nil, err
	}

	out := make([]models.Item, len(items))
	for i, it := range items {
		out[i] = *it
	}
	return out, nil
}

func (r *ItemRepository) query(query string, args ...any) ([]*models.Item, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	var items []*models.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return items, nil
}

// tagsFor loads tags keyed by item ID, for one item or (with an empty id) every live item.
func (r *ItemRepository) tagsFor(id string) (map[string][]string, error) {
	query := `
		SELECT t.item_id, t.tag
		FROM item_tags t
		JOIN items i ON i.id = t.item_id
		WHERE i.deleted_at IS NULL
	`
	args := []any{}
	if id != "" {
		query += " AND t.item_id = ?"
		args = append(args, id)
	}
	query += " ORDER BY t.item_id, t.position"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tags: %w", err)
	}
	defer rows.Close()

	tags := make(map[string][]string)
	for rows.Next() {
		var itemID, tag string
		if err := rows.Scan(&itemID, &tag); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags[itemID] = append(tags[itemID], tag)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return tags, nil
}

func writeTags(tx *sql.Tx, itemID string, tags []string) error {
	for i, tag := range tags {
		if _, err := tx.Exec(`INSERT INTO item_tags (item_id, position, tag) VALUES (?, ?, ?)`, itemID, i, tag); err != nil {
			return fmt.Errorf("failed to insert tag %q: %w", tag, err)
		}
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

// scanItem reads one row selected with itemColumns. sql.ErrNoRows is returned unwrapped.
func scanItem(row scanner) (*models.Item, error) {
	var (
		item       models.Item
		sequence   int
		status     string
		metacritic sql.NullInt64
	)

	err := row.Scan(
		&item.ID, &sequence, &item.Title, &item.Platform, &status,
		&item.PricePaid, &item.PriceSold, &metacritic, &item.ImageURL,
		&item.CreatedAt, &item.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan item: %w", err)
	}

	item.Status = models.Status(status)
	if metacritic.Valid {
		item.Metacritic = models.Metascore(int(metacritic.Int64))
	}

	return &item, nil
}

func nullableScore(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}
