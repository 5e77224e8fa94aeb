package server

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/shelf/internal/collection"
	"github.com/desertthunder/shelf/internal/models"
	"github.com/desertthunder/shelf/internal/shared"
)

// ItemLister loads the whole catalog.
type ItemLister interface {
	All() ([]models.Item, error)
}

// ProfileOpts configures a [ProfileHandler].
type ProfileOpts struct {
	Name     string
	Currency string
	PageSize int
}

// ProfileResponse is the body of GET /profile.
type ProfileResponse struct {
	Name       string                     `json:"name"`
	Currency   string                     `json:"currency"`
	State      collection.State           `json:"state"`
	Stats      collection.Stats           `json:"stats"`
	Chart      []collection.PlatformCount `json:"chart"`
	Facets     collection.Facets          `json:"facets"`
	Items      []models.Item              `json:"items"`
	MatchCount int                        `json:"matchCount"`
	Visible    int                        `json:"visible"`
	HasMore    bool                       `json:"hasMore"`
}

// ItemsResponse is the body of GET /profile/items, used to page through a view.
type ItemsResponse struct {
	Items      []models.Item `json:"items"`
	MatchCount int           `json:"matchCount"`
	Visible    int           `json:"visible"`
	HasMore    bool          `json:"hasMore"`
}

// ProfileHandler serves a read-only view of the catalog.
//
// Every request builds its own [collection.Store] from a fresh snapshot, so nothing is shared between
// requests.
type ProfileHandler struct {
	items  ItemLister
	engine *collection.Engine
	opts   ProfileOpts
	logger *log.Logger
}

// NewProfileHandler creates a [ProfileHandler].
func NewProfileHandler(items ItemLister, opts ProfileOpts, logger *log.Logger) *ProfileHandler {
	if opts.PageSize <= 0 {
		opts.PageSize = collection.DefaultPageSize
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &ProfileHandler{
		items:  items,
		engine: collection.NewEngine(),
		opts:   opts,
		logger: logger,
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *ProfileHandler) Routes() []string {
	return []string{"/profile", "/profile/items"}
}

// ServeHTTP answers GET /profile and GET /profile/items.
func (h *ProfileHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	patch, err := parseQuery(r, h.engine)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	items, err := h.items.All()
	if err != nil {
		h.logger.Error("failed to load items", "err", err)
		writeError(w, http.StatusInternalServerError, "failed to load collection")
		return
	}

	store := collection.NewStore(h.opts.PageSize)
	store.SetItems(items)
	store.SetState(patch)
	view := store.View(h.engine)
	if view.Items == nil {
		view.Items = []models.Item{}
	}

	if r.URL.Path == "/profile/items" {
		writeJSON(w, http.StatusOK, ItemsResponse{
			Items:      view.Items,
			MatchCount: view.MatchCount,
			Visible:    len(view.Items),
			HasMore:    view.HasMore(),
		})
		return
	}

	writeJSON(w, http.StatusOK, ProfileResponse{
		Name:       h.opts.Name,
		Currency:   h.opts.Currency,
		State:      view.State,
		Stats:      view.Stats,
		Chart:      view.Chart,
		Facets:     collection.CollectFacets(items),
		Items:      view.Items,
		MatchCount: view.MatchCount,
		Visible:    len(view.Items),
		HasMore:    view.HasMore(),
	})
}

// parseQuery maps tab, q, platform, sort, limit and the advanced filters
// (platforms, statuses, tags, price, metacritic) onto a [collection.Patch].
func parseQuery(r *http.Request, e *collection.Engine) (collection.Patch, error) {
	values := r.URL.Query()

	q := collection.Query{
		Tab:        values.Get("tab"),
		Search:     values.Get("q"),
		Platform:   values.Get("platform"),
		Sort:       values.Get("sort"),
		Platforms:  listParam(values["platforms"]),
		Statuses:   listParam(values["statuses"]),
		Tags:       listParam(values["tags"]),
		Price:      values.Get("price"),
		Metacritic: values.Get("metacritic"),
	}

	if raw := values.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			return collection.Patch{}, fmt.Errorf("%w: limit must be a positive integer, got %q", shared.ErrInvalidArgument, raw)
		}
		q.Limit = limit
	}

	return q.Patch(e)
}

// listParam accepts both repeated parameters and comma separated values.
func listParam(raw []string) []string {
	var out []string
	for _, v := range raw {
		out = append(out, shared.SplitList(v)...)
	}
	return out
}

// HealthHandler reports liveness and whether the catalog can be read.
type HealthHandler struct {
	items ItemLister
}

func NewHealthHandler(items ItemLister) *HealthHandler {
	return &HealthHandler{items: items}
}

func (h *HealthHandler) Routes() []string {
	return []string{"/health"}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.items != nil {
		if _, err := h.items.All(); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := shared.MarshalJSON(v, false)
	if err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(data, '\n'))
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": strings.TrimSpace(msg)})
}
