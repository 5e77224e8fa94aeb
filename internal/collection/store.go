package collection

import (
	"slices"

	"github.com/desertthunder/shelf/internal/models"
)

// Listener receives the full state after every mutation.
type Listener func(State)

type subscription struct {
	id int
	fn Listener
}

// Store holds the collection snapshot and the view state.
//
// A Store belongs to one logical actor (the UI loop or a single request) and is not safe for concurrent use.
// Listeners run synchronously, in subscription order.
type Store struct {
	items     []models.Item
	state     State
	pageSize  int
	listeners []subscription
	nextID    int
	epoch     int // bumped on every predicate change, see [Pager]
}

// NewStore creates an empty store whose reveal limit grows by pageSize.
func NewStore(pageSize int) *Store {
	st := DefaultState(pageSize)
	return &Store{state: st, pageSize: st.PageSize}
}

// SetItems replaces the collection snapshot. Filter state is left as is, but
// listeners are still notified with the unchanged state so views recompute
// against the new items.
func (s *Store) SetItems(items []models.Item) {
	s.items = cloneItems(items)
	s.notify()
}

// Items returns the current snapshot.
func (s *Store) Items() []models.Item {
	return cloneItems(s.items)
}

// State returns the current state snapshot.
func (s *Store) State() State {
	st := s.state
	st.Advanced = s.state.Advanced.Clone()
	return st
}

// SetState merges p into the current state and notifies every listener with the result.
//
// No validation happens here; callers clamp or parse input before building the patch.
func (s *Store) SetState(p Patch) State {
	next, changed := s.state.Apply(p)
	if changed {
		s.epoch++
	}
	s.state = next
	s.notify()
	return s.State()
}

// Reset restores the default state and notifies listeners. Items are kept.
func (s *Store) Reset() {
	s.state = DefaultState(s.pageSize)
	s.epoch++
	s.notify()
}

// Subscribe registers fn and returns a function that removes it. Calling the returned function
// more than once is harmless.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	id := s.nextID
	s.nextID++
	s.listeners = append(s.listeners, subscription{id: id, fn: fn})

	return func() {
		s.listeners = slices.DeleteFunc(s.listeners, func(sub subscription) bool { return sub.id == id })
	}
}

func (s *Store) notify() {
	st := s.State()
	for _, sub := range slices.Clone(s.listeners) {
		sub.fn(st)
	}
}

// View is everything a presentation layer needs to render one frame.
type View struct {
	State      State           `json:"state"`
	Items      []models.Item   `json:"items"` // visible slice
	MatchCount int             `json:"match_count"`
	Total      int             `json:"total"`
	Empty      bool            `json:"empty"`
	Stats      Stats           `json:"stats"` // over the full collection
	Chart      []PlatformCount `json:"chart"`
}

// HasMore reports whether a load-more would reveal further items.
func (v View) HasMore() bool {
	return len(v.Items) < v.MatchCount
}

// View computes the current frame with e.
//
// KPIs always describe the full collection. The platform chart follows the user's narrowing (tab,
// search, advanced set) but ignores its own platform selection so every bar stays visible.
func (s *Store) View(e *Engine) View {
	st := s.State()
	res := e.Apply(s.items, st)

	chartItems := s.items
	if st.Filtering() {
		unpinned := st
		unpinned.Platform = ""
		chartItems = e.Filter(s.items, unpinned)
	}

	return View{
		State:      st,
		Items:      VisibleSlice(res.Items, st.RevealLimit),
		MatchCount: res.MatchCount,
		Total:      len(s.items),
		Empty:      res.Empty(),
		Stats:      Summarize(s.items),
		Chart:      Breakdown(chartItems),
	}
}

func cloneItems(items []models.Item) []models.Item {
	out := make([]models.Item, len(items))
	for i, it := range items {
		it.Tags = slices.Clone(it.Tags)
		if it.Metacritic != nil {
			it.Metacritic = models.Metascore(*it.Metacritic)
		}
		out[i] = it
	}
	return out
}
