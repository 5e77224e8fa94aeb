package repositories

import (
	"errors"
	"fmt"

	"github.com/desertthunder/shelf/internal/models"
	"github.com/desertthunder/shelf/internal/shared"
)

// ItemImportAdapter implements tasks.ItemSaver using ItemRepository.
//
// Imported rows are matched to existing items by title and platform so re-running an import
// updates the catalog instead of duplicating it.
type ItemImportAdapter struct {
	repo *ItemRepository
}

// NewItemImportAdapter creates a new ItemImportAdapter with the given repository
func NewItemImportAdapter(repo *ItemRepository) *ItemImportAdapter {
	return &ItemImportAdapter{repo: repo}
}

// SaveItem creates item, or overwrites the existing item with the same title and platform.
// It reports whether a new row was created.
func (a *ItemImportAdapter) SaveItem(item *models.Item) (bool, error) {
	existing, err := a.repo.FindByTitle(item.Title, item.Platform)
	switch {
	case errors.Is(err, shared.ErrItemNotFound):
		if err := a.repo.Create(item); err != nil {
			return false, fmt.Errorf("failed to import item: %w", err)
		}
		return true, nil
	case err != nil:
		return false, err
	}

	item.ID = existing.ID
	item.CreatedAt = existing.CreatedAt
	if item.ImageURL == "" {
		item.ImageURL = existing.ImageURL
	}

	if err := a.repo.Update(item); err != nil {
		return false, fmt.Errorf("failed to update imported item: %w", err)
	}
	return false, nil
}
