package collection

// VisibleSlice returns ordered[:min(limit, len(ordered))]; a negative limit reveals nothing.
func VisibleSlice[T any](ordered []T, limit int) []T {
	limit = max(0, min(limit, len(ordered)))
	return ordered[:limit:limit]
}

// Pager grows a [Store]'s reveal limit one page at a time.
//
// A load happens in two steps so a UI can show a loading affordance in between: [Pager.LoadMore]
// latches, [Pager.Complete] applies the increment and releases the latch. Re-entrant LoadMore
// calls while latched are ignored.
type Pager struct {
	store    *Store
	inFlight bool
	epoch    int
}

// NewPager creates a pager bound to store.
func NewPager(store *Store) *Pager {
	return &Pager{store: store}
}

// LoadMore starts a load and reports whether it did. It is a no-op while a load is in flight or when
// the reveal limit already covers matchCount.
func (p *Pager) LoadMore(matchCount int) bool {
	if p.inFlight {
		return false
	}
	if p.store.State().RevealLimit >= matchCount {
		return false
	}

	p.inFlight = true
	p.epoch = p.store.epoch
	return true
}

// Complete finishes the in-flight load by adding one page to the reveal limit.
//
// If the filter predicate changed while the load was in flight the limit has already been reset
// and is left alone.
func (p *Pager) Complete() {
	if !p.inFlight {
		return
	}
	p.inFlight = false

	if p.epoch != p.store.epoch {
		return
	}

	st := p.store.State()
	p.store.SetState(Patch{RevealLimit: Ptr(st.RevealLimit + st.PageSize)})
}

// Advance runs a load synchronously, for callers without a loading delay.
func (p *Pager) Advance(matchCount int) bool {
	if !p.LoadMore(matchCount) {
		return false
	}
	p.Complete()
	return true
}

// Busy reports whether a load is in flight.
func (p *Pager) Busy() bool {
	return p.inFlight
}
