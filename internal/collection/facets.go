package collection

import (
	"slices"

	"github.com/desertthunder/shelf/internal/models"
)

// Facets are the choices offered by the advanced filter controls.
type Facets struct {
	Platforms []string        `json:"platforms"`
	Statuses  []models.Status `json:"statuses"`
	Tags      []string        `json:"tags"`
}

// CollectFacets merges the known platform list with the platforms and tags present in items.
//
// Known platforms keep their order; unknown ones follow alphabetically. Tags are sorted.
func CollectFacets(items []models.Item) Facets {
	platforms := slices.Clone(models.KnownPlatforms)
	known := toSet(platforms)

	var extra, tags []string
	seenTags := make(map[string]bool)
	for _, it := range items {
		if it.Platform != "" && !known[it.Platform] {
			known[it.Platform] = true
			extra = append(extra, it.Platform)
		}
		for _, t := range it.Tags {
			if !seenTags[t] {
				seenTags[t] = true
				tags = append(tags, t)
			}
		}
	}

	slices.Sort(extra)
	slices.Sort(tags)

	return Facets{
		Platforms: append(platforms, extra...),
		Statuses:  slices.Clone(models.Statuses),
		Tags:      tags,
	}
}
