package collection

import (
	"cmp"
	"slices"
	"strings"

	"github.com/desertthunder/shelf/internal/models"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Comparator orders two items; it returns a negative number when a sorts first.
type Comparator func(a, b models.Item) int

// Result is the engine output: the ordered matches and their count before pagination.
type Result struct {
	Items      []models.Item `json:"items"`
	MatchCount int           `json:"match_count"`
}

// Empty reports the explicit zero-results state.
func (r Result) Empty() bool {
	return r.MatchCount == 0
}

// Engine filters and sorts a collection against a [State].
//
// Apply is pure and safe to call from several goroutines once registration is done.
type Engine struct {
	sorters map[SortKey]func() Comparator
	keys    []SortKey
}

// NewEngine creates an [Engine] with the built-in sort keys registered.
func NewEngine() *Engine {
	e := &Engine{sorters: make(map[SortKey]func() Comparator)}
	e.register(SortRecent, func() Comparator { return byRecent })
	e.register(SortTitle, newTitleComparator)
	e.register(SortPrice, func() Comparator { return byPrice })
	e.register(SortMetacritic, func() Comparator { return byMetacritic })
	return e
}

var defaultEngine = NewEngine()

// Apply runs the default engine. See [Engine.Apply].
func Apply(items []models.Item, st State) Result {
	return defaultEngine.Apply(items, st)
}

// Register adds or replaces the ordering used for key. Call it before the engine is shared.
func (e *Engine) Register(key SortKey, fn Comparator) {
	e.register(key, func() Comparator { return fn })
}

func (e *Engine) register(key SortKey, factory func() Comparator) {
	if _, ok := e.sorters[key]; !ok {
		e.keys = append(e.keys, key)
	}
	e.sorters[key] = factory
}

// SortKeys lists registered keys in registration order.
func (e *Engine) SortKeys() []SortKey {
	return slices.Clone(e.keys)
}

// HasSort reports whether key is registered.
func (e *Engine) HasSort(key SortKey) bool {
	_, ok := e.sorters[key]
	return ok
}

// Apply returns the items matching every active predicate of st, stably sorted by st.Sort.
//
// The input slice is never modified. An unknown sort key keeps input order.
func (e *Engine) Apply(items []models.Item, st State) Result {
	matched := e.Filter(items, st)

	if factory, ok := e.sorters[st.Sort]; ok {
		slices.SortStableFunc(matched, factory())
	}

	return Result{Items: matched, MatchCount: len(matched)}
}

// Filter runs the predicate stages in order: tab bucket, search, chart platform, advanced set.
func (e *Engine) Filter(items []models.Item, st State) []models.Item {
	out := keep(items, func(it models.Item) bool { return st.Tab.Includes(it.Status) })

	if st.Search != "" {
		term := strings.ToLower(st.Search)
		out = keep(out, func(it models.Item) bool {
			return strings.Contains(strings.ToLower(it.Title), term)
		})
	}

	if st.Platform != "" {
		out = keep(out, func(it models.Item) bool { return it.Platform == st.Platform })
	}

	if !st.Advanced.IsZero() {
		out = keep(out, advancedPredicate(st.Advanced))
	}

	return out
}

// keep returns a new slice holding the items for which pred is true.
func keep(items []models.Item, pred func(models.Item) bool) []models.Item {
	out := make([]models.Item, 0, len(items))
	for _, it := range items {
		if pred(it) {
			out = append(out, it)
		}
	}
	return out
}

func advancedPredicate(a Advanced) func(models.Item) bool {
	platforms := toSet(a.Platforms)
	tags := toSet(a.Tags)
	statuses := make(map[models.Status]bool, len(a.Statuses))
	for _, st := range a.Statuses {
		statuses[st] = true
	}

	return func(it models.Item) bool {
		if len(platforms) > 0 && !platforms[it.Platform] {
			return false
		}
		if len(statuses) > 0 && !statuses[it.Status] {
			return false
		}
		if len(tags) > 0 && !slices.ContainsFunc(it.Tags, func(t string) bool { return tags[t] }) {
			return false
		}
		if a.Price != nil && !a.Price.Contains(it.ActivePrice()) {
			return false
		}
		if a.Metacritic != nil && !a.Metacritic.Contains(float64(it.Score())) {
			return false
		}
		return true
	}
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

// newTitleComparator orders titles alphabetically using English collation.
//
// A fresh collator per sort since [collate.Collator] is not safe for concurrent use.
func newTitleComparator() Comparator {
	c := collate.New(language.English, collate.IgnoreCase)
	return func(a, b models.Item) int {
		return c.CompareString(a.Title, b.Title)
	}
}

func byRecent(a, b models.Item) int {
	return b.CreatedAt.Compare(a.CreatedAt)
}

func byPrice(a, b models.Item) int {
	return cmp.Compare(b.ActivePrice(), a.ActivePrice())
}

func byMetacritic(a, b models.Item) int {
	return cmp.Compare(b.Score(), a.Score())
}
