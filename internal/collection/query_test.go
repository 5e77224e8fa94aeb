package collection

import (
	"errors"
	"testing"

	"github.com/desertthunder/shelf/internal/models"
	"github.com/desertthunder/shelf/internal/shared"
	"github.com/google/go-cmp/cmp"
)

func TestQueryPatch(t *testing.T) {
	e := NewEngine()

	t.Run("Empty", func(t *testing.T) {
		p, err := Query{}.Patch(e)
		if err != nil {
			t.Fatalf("Patch failed: %v", err)
		}
		if diff := cmp.Diff(Patch{}, p); diff != "" {
			t.Errorf("expected empty patch (-want +got):\n%s", diff)
		}
	})

	t.Run("Full", func(t *testing.T) {
		p, err := Query{
			Tab:        "Backlog",
			Search:     "zelda",
			Platform:   "Switch",
			Sort:       "Price",
			Limit:      40,
			Platforms:  []string{"Switch", "PC"},
			Statuses:   []string{"playing", "for sale"},
			Tags:       []string{"rpg"},
			Price:      "60-10",
			Metacritic: "80-100",
		}.Patch(e)
		if err != nil {
			t.Fatalf("Patch failed: %v", err)
		}

		want := Patch{
			Tab:         Ptr(TabBacklog),
			Search:      Ptr("zelda"),
			Platform:    Ptr("Switch"),
			Sort:        Ptr(SortPrice),
			RevealLimit: Ptr(40),
			Advanced: &Advanced{
				Platforms:  []string{"Switch", "PC"},
				Statuses:   []models.Status{models.StatusPlaying, models.StatusForSale},
				Tags:       []string{"rpg"},
				Price:      &Range{Min: 10, Max: 60},
				Metacritic: &Range{Min: 80, Max: 100},
			},
		}
		if diff := cmp.Diff(want, p); diff != "" {
			t.Errorf("patch mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("Limit Survives Predicate Change", func(t *testing.T) {
		p, err := Query{Tab: "sold", Limit: 48}.Patch(e)
		if err != nil {
			t.Fatalf("Patch failed: %v", err)
		}
		st, _ := DefaultState(16).Apply(p)
		if st.RevealLimit != 48 {
			t.Errorf("expected limit 48, got %d", st.RevealLimit)
		}
	})

	tc := []struct {
		name  string
		query Query
		want  error
	}{
		{"bad tab", Query{Tab: "attic"}, shared.ErrInvalidArgument},
		{"bad sort", Query{Sort: "rating"}, shared.ErrInvalidArgument},
		{"negative limit", Query{Limit: -1}, shared.ErrInvalidArgument},
		{"bad status", Query{Statuses: []string{"lost"}}, shared.ErrInvalidStatus},
		{"bad range", Query{Price: "cheap"}, shared.ErrInvalidArgument},
	}
	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.query.Patch(e); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestParseRange(t *testing.T) {
	tc := []struct {
		in      string
		want    *Range
		wantErr bool
	}{
		{"", nil, false},
		{"10-60", &Range{Min: 10, Max: 60}, false},
		{" 60 - 10 ", &Range{Min: 10, Max: 60}, false},
		{"19.99-20", &Range{Min: 19.99, Max: 20}, false},
		{"-5-10", &Range{Min: -5, Max: 10}, false},
		{"-10--5", &Range{Min: -10, Max: -5}, false},
		{"1e-3-2", &Range{Min: 0.001, Max: 2}, false},
		{"5.-6", &Range{Min: 5, Max: 6}, false},
		{"-5", nil, true},
		{"10", nil, true},
		{"a-10", nil, true},
		{"10-b", nil, true},
	}

	for _, tt := range tc {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRange(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRange(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseRange(%q) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}
