package collection

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/desertthunder/shelf/internal/models"
	"github.com/desertthunder/shelf/internal/shared"
)

// DefaultPageSize is the reveal-limit increment used when none is configured.
const DefaultPageSize = 16

// Tab is the coarse, mutually exclusive status bucket selected by primary navigation.
type Tab string

const (
	TabCollection Tab = "collection"
	TabBacklog    Tab = "backlog"
	TabWishlist   Tab = "wishlist"
	TabStorefront Tab = "storefront"
	TabSold       Tab = "sold"
)

// Tabs lists every tab in navigation order.
var Tabs = []Tab{TabCollection, TabBacklog, TabWishlist, TabStorefront, TabSold}

// ParseTab converts user input into a [Tab].
func ParseTab(s string) (Tab, error) {
	t := Tab(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(Tabs, t) {
		return "", fmt.Errorf("%w: unknown tab %q", shared.ErrInvalidArgument, s)
	}
	return t, nil
}

// Includes reports whether an item with status st belongs in the tab's bucket.
//
// An unset or unknown tab behaves like [TabCollection].
func (t Tab) Includes(st models.Status) bool {
	switch t {
	case TabBacklog:
		return st == models.StatusBacklog || st == models.StatusPlaying
	case TabWishlist:
		return st == models.StatusWishlisted
	case TabStorefront:
		return st == models.StatusForSale
	case TabSold:
		return st == models.StatusSold
	default:
		return st != models.StatusSold && st != models.StatusBacklog && st != models.StatusWishlisted
	}
}

// SortKey names a registered ordering. See [Engine.Register].
type SortKey string

const (
	SortRecent     SortKey = "recent"
	SortTitle      SortKey = "title"
	SortPrice      SortKey = "price"
	SortMetacritic SortKey = "metacritic"
)

// Range is an inclusive [Min, Max] interval.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Normalize swaps the bounds when Min > Max.
func (r Range) Normalize() Range {
	if r.Min > r.Max {
		return Range{Min: r.Max, Max: r.Min}
	}
	return r
}

// Contains reports whether v falls within the normalized range.
func (r Range) Contains(v float64) bool {
	n := r.Normalize()
	return v >= n.Min && v <= n.Max
}

// Advanced is the secondary, composable predicate set. Empty fields do not filter.
type Advanced struct {
	Platforms  []string        `json:"platforms,omitempty"`
	Statuses   []models.Status `json:"statuses,omitempty"`
	Tags       []string        `json:"tags,omitempty"`
	Price      *Range          `json:"price,omitempty"`
	Metacritic *Range          `json:"metacritic,omitempty"`
}

// IsZero reports whether no advanced predicate is set.
func (a Advanced) IsZero() bool {
	return len(a.Platforms) == 0 && len(a.Statuses) == 0 && len(a.Tags) == 0 && a.Price == nil && a.Metacritic == nil
}

// Equal compares two predicate sets field by field. List order and duplicates are ignored.
func (a Advanced) Equal(b Advanced) bool {
	return sameSet(a.Platforms, b.Platforms) &&
		sameSet(a.Statuses, b.Statuses) &&
		sameSet(a.Tags, b.Tags) &&
		rangeEqual(a.Price, b.Price) &&
		rangeEqual(a.Metacritic, b.Metacritic)
}

// Clone returns a deep copy so snapshots never share backing arrays.
func (a Advanced) Clone() Advanced {
	c := Advanced{
		Platforms: slices.Clone(a.Platforms),
		Statuses:  slices.Clone(a.Statuses),
		Tags:      slices.Clone(a.Tags),
	}
	if a.Price != nil {
		p := a.Price.Normalize()
		c.Price = &p
	}
	if a.Metacritic != nil {
		m := a.Metacritic.Normalize()
		c.Metacritic = &m
	}
	return c
}

func sameSet[T cmp.Ordered](a, b []T) bool {
	x, y := slices.Clone(a), slices.Clone(b)
	slices.Sort(x)
	slices.Sort(y)
	return slices.Equal(slices.Compact(x), slices.Compact(y))
}

func rangeEqual(a, b *Range) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Normalize() == b.Normalize()
}

// State is an immutable snapshot of the user-controlled view state.
//
// Change it only through [State.Apply]; the zero value is not a usable state, use [DefaultState].
type State struct {
	Tab         Tab      `json:"tab"`
	Search      string   `json:"search,omitempty"`
	Platform    string   `json:"platform,omitempty"` // chart-selected platform, distinct from Advanced.Platforms
	Advanced    Advanced `json:"advanced"`
	Sort        SortKey  `json:"sort"`
	RevealLimit int      `json:"reveal_limit"`
	PageSize    int      `json:"page_size"`
}

// DefaultState returns the initial state for the given page size.
func DefaultState(pageSize int) State {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return State{
		Tab:         TabCollection,
		Sort:        SortRecent,
		RevealLimit: pageSize,
		PageSize:    pageSize,
	}
}

// Filtering reports whether the user has narrowed the collection beyond the default shelf.
//
// The chart platform filter does not count: charts are where it is chosen.
func (s State) Filtering() bool {
	return (s.Tab != TabCollection && s.Tab != "") || s.Search != "" || !s.Advanced.IsZero()
}

// Patch is a partial state update. Nil fields are left untouched.
type Patch struct {
	Tab         *Tab
	Search      *string
	Platform    *string
	Advanced    *Advanced
	Sort        *SortKey
	RevealLimit *int
}

// Ptr returns a pointer to v, for building a [Patch].
func Ptr[T any](v T) *T {
	return &v
}

// Apply shallow-merges p into s and returns the new state along with whether the filter predicate changed.
//
// A predicate change (tab, search, chart platform or advanced set) resets RevealLimit to one page unless
// p sets RevealLimit itself. Sort-only changes keep the limit.
func (s State) Apply(p Patch) (State, bool) {
	next := s
	next.Advanced = s.Advanced.Clone()
	changed := false

	if p.Tab != nil && *p.Tab != s.Tab {
		next.Tab = *p.Tab
		changed = true
	}
	if p.Search != nil && *p.Search != s.Search {
		next.Search = *p.Search
		changed = true
	}
	if p.Platform != nil && *p.Platform != s.Platform {
		next.Platform = *p.Platform
		changed = true
	}
	if p.Advanced != nil && !p.Advanced.Equal(s.Advanced) {
		next.Advanced = p.Advanced.Clone()
		changed = true
	}
	if p.Sort != nil {
		next.Sort = *p.Sort
	}

	if next.PageSize <= 0 {
		next.PageSize = DefaultPageSize
	}

	switch {
	case p.RevealLimit != nil:
		next.RevealLimit = *p.RevealLimit
	case changed:
		next.RevealLimit = next.PageSize
	}

	return next, changed
}
