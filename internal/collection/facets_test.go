package collection

import (
	"testing"

	"github.com/desertthunder/shelf/internal/models"
	"github.com/google/go-cmp/cmp"
)

func TestCollectFacets(t *testing.T) {
	f := CollectFacets([]models.Item{
		{Platform: "Switch", Tags: []string{"party", "nintendo"}},
		{Platform: "Game Boy", Tags: []string{"nintendo"}},
		{Platform: "Dreamcast"},
		{Platform: ""},
	})

	want := append(append([]string{}, models.KnownPlatforms...), "Dreamcast", "Game Boy")
	if diff := cmp.Diff(want, f.Platforms); diff != "" {
		t.Errorf("platforms mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"nintendo", "party"}, f.Tags); diff != "" {
		t.Errorf("tags mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(models.Statuses, f.Statuses); diff != "" {
		t.Errorf("statuses mismatch (-want +got):\n%s", diff)
	}
}

func TestCollectFacetsDoesNotAliasKnownPlatforms(t *testing.T) {
	before := append([]string{}, models.KnownPlatforms...)
	f := CollectFacets([]models.Item{{Platform: "Amiga"}})
	f.Platforms[0] = "changed"

	if diff := cmp.Diff(before, models.KnownPlatforms); diff != "" {
		t.Errorf("KnownPlatforms mutated (-before +after):\n%s", diff)
	}
}
