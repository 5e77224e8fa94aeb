package models

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/desertthunder/shelf/internal/shared"
)

// Status is the lifecycle state of an [Item]. Exactly one applies at any time.
type Status string

const (
	StatusOwned      Status = "OWNED"
	StatusPlaying    Status = "PLAYING"
	StatusCompleted  Status = "COMPLETED"
	StatusPlatinum   Status = "PLATINUM"
	StatusBacklog    Status = "BACKLOG"
	StatusForSale    Status = "FOR_SALE"
	StatusSold       Status = "SOLD"
	StatusWishlisted Status = "WISHLISTED"
)

// Statuses lists every status in display order.
var Statuses = []Status{
	StatusOwned,
	StatusPlaying,
	StatusCompleted,
	StatusPlatinum,
	StatusBacklog,
	StatusForSale,
	StatusSold,
	StatusWishlisted,
}

// KnownPlatforms seeds platform filter choices before any items are loaded.
var KnownPlatforms = []string{
	"PC",
	"PS5",
	"PS4",
	"PS3",
	"Xbox Series",
	"Xbox One",
	"Switch",
	"Wii U",
	"3DS",
	"Retro",
}

// CSVColumns is the header shared by CSV import and export.
var CSVColumns = []string{"title", "platform", "status", "price_paid", "price_sold", "tags", "metacritic", "image_url"}

// ParseStatus converts user input such as "for sale" or "for-sale" into a [Status].
func ParseStatus(s string) (Status, error) {
	norm := strings.ToUpper(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", "_", " ", "_").Replace(norm)

	st := Status(norm)
	if !st.Valid() {
		return "", fmt.Errorf("%w: %q", shared.ErrInvalidStatus, s)
	}
	return st, nil
}

// Valid reports whether s is one of [Statuses].
func (s Status) Valid() bool {
	return slices.Contains(Statuses, s)
}

// Label is the human-readable form, e.g. "For Sale".
func (s Status) Label() string {
	words := strings.Split(strings.ToLower(string(s)), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// Item is one catalog entry.
type Item struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Platform   string    `json:"platform"`
	Status     Status    `json:"status"`
	PricePaid  float64   `json:"price_paid"`           // Paid price, or target price for wishlisted items
	PriceSold  float64   `json:"price_sold"`           // Sale price, or asking price for items for sale
	Tags       []string  `json:"tags,omitempty"`       // Display order is preserved
	Metacritic *int      `json:"metacritic,omitempty"` // nil when unknown
	ImageURL   string    `json:"image_url,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewItem creates an [Item] with creation timestamps set. The ID is assigned by the repository.
func NewItem(title, platform string, status Status) *Item {
	now := time.Now()
	return &Item{
		Title:     title,
		Platform:  platform,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ActivePrice is the price that matters for the item's status: the sale price for items for sale or
// sold, the paid (or target) price otherwise.
func (i Item) ActivePrice() float64 {
	switch i.Status {
	case StatusForSale, StatusSold:
		return i.PriceSold
	default:
		return i.PricePaid
	}
}

// Score returns the metacritic score, 0 when unknown.
func (i Item) Score() int {
	if i.Metacritic == nil {
		return 0
	}
	return *i.Metacritic
}

// Validate enforces the write-boundary invariants.
func (i *Item) Validate() error {
	if strings.TrimSpace(i.Title) == "" {
		return fmt.Errorf("%w: title is required", shared.ErrInvalidInput)
	}
	if !i.Status.Valid() {
		return fmt.Errorf("%w: %q", shared.ErrInvalidStatus, i.Status)
	}
	if i.PricePaid < 0 || i.PriceSold < 0 {
		return fmt.Errorf("%w: prices cannot be negative", shared.ErrInvalidInput)
	}
	if i.Metacritic != nil && (*i.Metacritic < 0 || *i.Metacritic > 100) {
		return fmt.Errorf("%w: metacritic score must be within 0-100, got %d", shared.ErrInvalidInput, *i.Metacritic)
	}
	return nil
}

// NormalizeTags trims tags and drops blanks and duplicates, keeping first-seen order.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// Metascore returns a pointer to v for building items with a known metacritic value.
func Metascore(v int) *int {
	return &v
}
