package collection

import (
	"testing"
)

func TestVisibleSlice(t *testing.T) {
	ordered := []int{1, 2, 3, 4, 5}

	tc := []struct {
		limit int
		want  int
	}{
		{-3, 0},
		{0, 0},
		{2, 2},
		{5, 5},
		{16, 5},
	}

	for _, tt := range tc {
		got := VisibleSlice(ordered, tt.limit)
		if len(got) != tt.want {
			t.Errorf("limit %d: expected %d items, got %d", tt.limit, tt.want, len(got))
		}
	}

	// appending to the visible slice must not clobber the hidden tail
	head := VisibleSlice(ordered, 2)
	_ = append(head, 99)
	if ordered[2] != 3 {
		t.Errorf("visible slice shares capacity with the source: %v", ordered)
	}

	if got := VisibleSlice[int](nil, 10); len(got) != 0 {
		t.Errorf("expected empty slice, got %v", got)
	}
}

func TestPagerGrowsAndClamps(t *testing.T) {
	s := NewStore(16)
	s.SetItems(owned(40))
	p := NewPager(s)
	e := NewEngine()

	want := []int{16, 32, 40, 40}
	for i, w := range want {
		v := s.View(e)
		if len(v.Items) != w {
			t.Errorf("step %d: expected %d visible, got %d", i, w, len(v.Items))
		}
		p.Advance(v.MatchCount)
	}

	if st := s.State(); st.RevealLimit != 48 {
		t.Errorf("expected limit to stop at 48, got %d", st.RevealLimit)
	}
	if p.Advance(40) {
		t.Error("expected load-more to be a no-op once everything is revealed")
	}
}

func TestPagerIgnoresReentrantLoad(t *testing.T) {
	s := NewStore(16)
	s.SetItems(owned(40))
	p := NewPager(s)

	if !p.LoadMore(40) {
		t.Fatal("expected first load to start")
	}
	if p.LoadMore(40) {
		t.Error("expected second load to be ignored while in flight")
	}
	if !p.Busy() {
		t.Error("expected pager to be busy")
	}

	p.Complete()
	p.Complete()

	if st := s.State(); st.RevealLimit != 32 {
		t.Errorf("expected exactly one increment to 32, got %d", st.RevealLimit)
	}
	if p.Busy() {
		t.Error("expected pager to be idle")
	}
}

func TestPagerDropsStaleLoad(t *testing.T) {
	s := NewStore(16)
	s.SetItems(owned(40))
	p := NewPager(s)

	p.Advance(40)
	if !p.LoadMore(40) {
		t.Fatal("expected load to start")
	}

	s.SetState(Patch{Search: Ptr("game")})
	p.Complete()

	if st := s.State(); st.RevealLimit != 16 {
		t.Errorf("expected reset limit to survive a stale load, got %d", st.RevealLimit)
	}

	// sort changes keep the limit and do not cancel a load
	if !p.LoadMore(40) {
		t.Fatal("expected load to start")
	}
	s.SetState(Patch{Sort: Ptr(SortTitle)})
	p.Complete()
	if st := s.State(); st.RevealLimit != 32 {
		t.Errorf("expected 32 after sort-only change, got %d", st.RevealLimit)
	}
}

func TestPagerNothingToLoad(t *testing.T) {
	s := NewStore(16)
	s.SetItems(owned(10))
	p := NewPager(s)

	if p.LoadMore(10) {
		t.Error("expected no load when every match is visible")
	}
	if p.Busy() {
		t.Error("expected pager to stay idle")
	}
}
