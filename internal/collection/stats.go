package collection

import (
	"math"
	"slices"
	"strings"

	"github.com/desertthunder/shelf/internal/models"
)

// Stats are the derived KPIs for a set of items.
type Stats struct {
	TotalCount          int                   `json:"total_count"`
	InvestedTotal       float64               `json:"invested_total"`       // PricePaid of owned inventory
	RecoveredTotal      float64               `json:"recovered_total"`      // PriceSold of sold items
	CompletionRate      int                   `json:"completion_rate"`      // Percent, rounded
	WishlistEstimate    float64               `json:"wishlist_estimate"`    // Target prices of wishlisted items
	StorefrontPotential float64               `json:"storefront_potential"` // Asking prices of items for sale
	ByStatus            map[models.Status]int `json:"by_status"`
	ByPlatform          []PlatformCount       `json:"by_platform"`
}

// PlatformCount is one bar of the platform chart.
type PlatformCount struct {
	Platform string `json:"platform"`
	Count    int    `json:"count"`
}

// Summarize computes [Stats] over items without modifying them.
func Summarize(items []models.Item) Stats {
	stats := Stats{
		TotalCount: len(items),
		ByStatus:   make(map[models.Status]int),
	}

	var completed, base int
	for _, it := range items {
		stats.ByStatus[it.Status]++

		switch it.Status {
		case models.StatusWishlisted:
			stats.WishlistEstimate += it.PricePaid
			continue
		case models.StatusSold:
			stats.RecoveredTotal += it.PriceSold
			continue
		case models.StatusForSale:
			stats.StorefrontPotential += it.PriceSold
		case models.StatusCompleted, models.StatusPlatinum:
			completed++
		}

		// everything still on the shelf
		stats.InvestedTotal += it.PricePaid
		base++
	}

	stats.CompletionRate = CompletionRate(completed, base)
	stats.ByPlatform = Breakdown(items)

	return stats
}

// CompletionRate is round(100 * completed / base), or 0 when base is 0.
func CompletionRate(completed, base int) int {
	if base <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(completed) / float64(base)))
}

// Breakdown counts items per platform, most common first and ties by name.
// Items without a platform are grouped under "Unknown".
func Breakdown(items []models.Item) []PlatformCount {
	counts := make(map[string]int)
	for _, it := range items {
		p := it.Platform
		if p == "" {
			p = "Unknown"
		}
		counts[p]++
	}

	out := make([]PlatformCount, 0, len(counts))
	for p, n := range counts {
		out = append(out, PlatformCount{Platform: p, Count: n})
	}

	slices.SortFunc(out, func(a, b PlatformCount) int {
		if a.Count != b.Count {
			return b.Count - a.Count
		}
		return strings.Compare(a.Platform, b.Platform)
	})

	return out
}
