package collection

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/desertthunder/shelf/internal/models"
	"github.com/desertthunder/shelf/internal/shared"
)

// Query is the textual form of a view request, as read from command-line flags or URL parameters.
//
// Empty fields leave the corresponding state untouched.
type Query struct {
	Tab        string
	Search     string
	Platform   string
	Sort       string
	Limit      int
	Platforms  []string
	Statuses   []string
	Tags       []string
	Price      string // "min-max"
	Metacritic string // "min-max"
}

// Patch validates q against e and converts it into a [Patch].
func (q Query) Patch(e *Engine) (Patch, error) {
	var p Patch

	if q.Tab != "" {
		tab, err := ParseTab(q.Tab)
		if err != nil {
			return Patch{}, err
		}
		p.Tab = &tab
	}
	if q.Search != "" {
		p.Search = Ptr(q.Search)
	}
	if q.Platform != "" {
		p.Platform = Ptr(q.Platform)
	}
	if q.Sort != "" {
		key := SortKey(strings.ToLower(q.Sort))
		if !e.HasSort(key) {
			return Patch{}, fmt.Errorf("%w: unknown sort %q", shared.ErrInvalidArgument, q.Sort)
		}
		p.Sort = &key
	}
	if q.Limit < 0 {
		return Patch{}, fmt.Errorf("%w: limit must be positive, got %d", shared.ErrInvalidArgument, q.Limit)
	}

	adv, err := q.advanced()
	if err != nil {
		return Patch{}, err
	}
	if !adv.IsZero() {
		p.Advanced = &adv
	}

	// Set last so a predicate change in the same request does not reset it.
	if q.Limit > 0 {
		p.RevealLimit = Ptr(q.Limit)
	}

	return p, nil
}

func (q Query) advanced() (Advanced, error) {
	adv := Advanced{Platforms: q.Platforms, Tags: q.Tags}

	for _, s := range q.Statuses {
		st, err := models.ParseStatus(s)
		if err != nil {
			return Advanced{}, err
		}
		adv.Statuses = append(adv.Statuses, st)
	}

	var err error
	if adv.Price, err = ParseRange(q.Price); err != nil {
		return Advanced{}, err
	}
	if adv.Metacritic, err = ParseRange(q.Metacritic); err != nil {
		return Advanced{}, err
	}

	return adv, nil
}

// ParseRange parses "min-max" into a normalized [Range]. An empty string yields nil.
// The bounds are split on the last dash that follows a number, so "-5-10" and
// "1e-3-2" are accepted.
func ParseRange(s string) (*Range, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	lo, hi, ok := cutRange(s)
	if !ok {
		return nil, fmt.Errorf("%w: range %q must look like min-max", shared.ErrInvalidArgument, s)
	}

	min, err := strconv.ParseFloat(strings.TrimSpace(lo), 64)
	if err != nil {
		return nil, fmt.Errorf("%w: range %q: bad minimum", shared.ErrInvalidArgument, s)
	}
	max, err := strconv.ParseFloat(strings.TrimSpace(hi), 64)
	if err != nil {
		return nil, fmt.Errorf("%w: range %q: bad maximum", shared.ErrInvalidArgument, s)
	}

	r := Range{Min: min, Max: max}.Normalize()
	return &r, nil
}

func cutRange(s string) (lo, hi string, ok bool) {
	for i := len(s) - 1; i > 0; i-- {
		if s[i] != '-' {
			continue
		}
		head := strings.TrimRight(s[:i], " ")
		if head == "" {
			continue
		}
		if c := head[len(head)-1]; (c >= '0' && c <= '9') || c == '.' {
			return s[:i], s[i+1:], true
		}
	}
	return "", "", false
}
