package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/shelf/internal/models"
	"github.com/desertthunder/shelf/internal/shared"
)

var _ list.Item = gameItem{}

// gameItem wraps [models.Item] to implement [list.Item].
type gameItem struct {
	item     models.Item
	currency string
}

func (i gameItem) FilterValue() string { return i.item.Title }
func (i gameItem) Title() string       { return i.item.Title }
func (i gameItem) Description() string {
	parts := []string{i.item.Status.Label()}
	if i.item.Platform != "" {
		parts = append([]string{i.item.Platform}, parts...)
	}
	if price := i.item.ActivePrice(); price > 0 {
		parts = append(parts, shared.FormatMoney(price, i.currency))
	}
	if i.item.Metacritic != nil {
		parts = append(parts, fmt.Sprintf("MC %d", *i.item.Metacritic))
	}
	if len(i.item.Tags) > 0 {
		parts = append(parts, strings.Join(i.item.Tags, ", "))
	}
	return strings.Join(parts, " • ")
}

func toListItems(items []models.Item, currency string) []list.Item {
	out := make([]list.Item, len(items))
	for i, it := range items {
		out[i] = gameItem{item: it, currency: currency}
	}
	return out
}
