package ui

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/shelf/internal/collection"
	"github.com/desertthunder/shelf/internal/models"
	"github.com/desertthunder/shelf/internal/shared"
)

// DefaultLoadDelay is how long the "Loading..." affordance shows before more items appear.
const DefaultLoadDelay = 400 * time.Millisecond

const chartWidth = 20

// ItemLister loads the whole catalog.
type ItemLister interface {
	All() ([]models.Item, error)
}

// Options configures a [Model].
type Options struct {
	Name      string
	Currency  string
	PageSize  int
	Sort      collection.SortKey
	LoadDelay time.Duration
}

// Model is the collection browser.
//
// The store is only touched from Update, so the single-actor rule of [collection.Store] holds.
type Model struct {
	items  ItemLister
	opts   Options
	store  *collection.Store
	engine *collection.Engine
	pager  *collection.Pager
	frame  collection.View

	list      list.Model
	search    textinput.Model
	searching bool
	loaded    bool
	width     int
	height    int
	status    string
	err       error
	help      help.Model
	keys      keyMap
}

// NewModel creates a browser over items.
func NewModel(items ItemLister, opts Options) *Model {
	if opts.LoadDelay <= 0 {
		opts.LoadDelay = DefaultLoadDelay
	}

	store := collection.NewStore(opts.PageSize)
	engine := collection.NewEngine()
	if opts.Sort != "" && engine.HasSort(opts.Sort) {
		store.SetState(collection.Patch{Sort: collection.Ptr(opts.Sort)})
	}

	ti := textinput.New()
	ti.Placeholder = "Search titles"
	ti.Prompt = "/ "
	ti.CharLimit = 128

	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.SetFilteringEnabled(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)

	m := &Model{
		items:  items,
		opts:   opts,
		store:  store,
		engine: engine,
		pager:  collection.NewPager(store),
		list:   l,
		search: ti,
		help:   help.New(),
		keys:   newKeyMap(),
	}

	store.Subscribe(func(collection.State) { m.refresh() })
	m.refresh()

	return m
}

// Init loads the catalog.
func (m *Model) Init() tea.Cmd {
	return m.fetchItems()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(m.listWidth(), max(msg.Height-10, 5))
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			return m.handleSearchKeys(msg)
		}
		return m.handleBrowseKeys(msg)

	case Msg:
		switch msg.kind {
		case MsgItemsLoaded:
			data := msg.data.(itemsLoaded)
			if data.err != nil {
				m.err = data.err
				return m, nil
			}
			m.err = nil
			m.loaded = true
			m.store.SetItems(data.items)
			m.status = fmt.Sprintf("Loaded %d games", len(data.items))
			return m, nil

		case MsgLoadMoreDone:
			m.pager.Complete()
			m.status = ""
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.accept):
		m.searching = false
		m.search.Blur()
		return m, nil
	case key.Matches(msg, m.keys.back):
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		m.store.SetState(collection.Patch{Search: collection.Ptr("")})
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	term := strings.TrimSpace(m.search.Value())
	if term != m.store.State().Search {
		m.store.SetState(collection.Patch{Search: collection.Ptr(term)})
	}
	return m, cmd
}

func (m *Model) handleBrowseKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.search):
		m.searching = true
		return m, m.search.Focus()

	case key.Matches(msg, m.keys.nextTab):
		m.switchTab(1)
		return m, nil

	case key.Matches(msg, m.keys.prevTab):
		m.switchTab(-1)
		return m, nil

	case key.Matches(msg, m.keys.sort):
		keys := m.engine.SortKeys()
		next := keys[(slices.Index(keys, m.store.State().Sort)+1)%len(keys)]
		m.store.SetState(collection.Patch{Sort: collection.Ptr(next)})
		m.status = "Sorted by " + string(next)
		return m, nil

	case key.Matches(msg, m.keys.platform):
		m.cyclePlatform()
		return m, nil

	case key.Matches(msg, m.keys.clear):
		m.search.SetValue("")
		m.store.SetState(collection.Patch{
			Search:   collection.Ptr(""),
			Platform: collection.Ptr(""),
			Advanced: &collection.Advanced{},
		})
		m.status = "Filters cleared"
		return m, nil

	case key.Matches(msg, m.keys.reload):
		m.status = "Reloading..."
		return m, m.fetchItems()

	case key.Matches(msg, m.keys.more):
		return m, m.loadMore()
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) switchTab(step int) {
	tabs := collection.Tabs
	i := slices.Index(tabs, m.store.State().Tab)
	next := tabs[(i+step+len(tabs))%len(tabs)]
	m.store.SetState(collection.Patch{Tab: collection.Ptr(next)})
	m.status = ""
}

// cyclePlatform steps the chart platform filter through the bars currently shown, then back to none.
func (m *Model) cyclePlatform() {
	chart := m.frame.Chart
	if len(chart) == 0 {
		return
	}

	current := m.store.State().Platform
	next := ""
	idx := slices.IndexFunc(chart, func(p collection.PlatformCount) bool { return p.Platform == current })
	switch {
	case current == "":
		next = chart[0].Platform
	case idx >= 0 && idx+1 < len(chart):
		next = chart[idx+1].Platform
	}

	m.store.SetState(collection.Patch{Platform: collection.Ptr(next)})
	if next == "" {
		m.status = "All platforms"
	} else {
		m.status = "Platform: " + next
	}
}

// loadMore latches the pager and resolves it after the load delay.
func (m *Model) loadMore() tea.Cmd {
	if !m.pager.LoadMore(m.frame.MatchCount) {
		return nil
	}
	m.status = "Loading..."
	return tea.Tick(m.opts.LoadDelay, func(time.Time) tea.Msg {
		return loadMoreDoneMsg()
	})
}

// refresh recomputes the frame after any store change.
func (m *Model) refresh() {
	m.frame = m.store.View(m.engine)
	m.list.SetItems(toListItems(m.frame.Items, m.opts.Currency))
	m.list.Title = fmt.Sprintf("%s · %d of %d", tabLabel(m.frame.State.Tab), len(m.frame.Items), m.frame.MatchCount)
}

func (m *Model) fetchItems() tea.Cmd {
	return func() tea.Msg {
		if m.items == nil {
			return itemsLoadedMsg(nil, fmt.Errorf("%w: item store not initialized", shared.ErrServiceUnavailable))
		}
		items, err := m.items.All()
		return itemsLoadedMsg(items, err)
	}
}

// View renders the UI.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress r to retry, q to quit", m.err))
	}
	if !m.loaded {
		return "Loading collection..."
	}

	header := lipgloss.JoinVertical(lipgloss.Left,
		styles.title.Render(m.opts.Name),
		m.renderTabs(),
	)

	body := lipgloss.JoinHorizontal(lipgloss.Top, m.renderList(), " ", m.renderStats())

	return lipgloss.JoinVertical(lipgloss.Left, header, m.renderSearch(), body, m.renderFooter())
}

func (m *Model) renderTabs() string {
	active := m.frame.State.Tab
	parts := make([]string, len(collection.Tabs))
	for i, t := range collection.Tabs {
		if t == active {
			parts[i] = styles.activeTab.Render(tabLabel(t))
		} else {
			parts[i] = styles.tab.Render(tabLabel(t))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderSearch() string {
	if m.searching {
		return m.search.View()
	}
	st := m.frame.State
	var filters []string
	if st.Search != "" {
		filters = append(filters, fmt.Sprintf("search %q", st.Search))
	}
	if st.Platform != "" {
		filters = append(filters, "platform "+st.Platform)
	}
	filters = append(filters, "sort "+string(st.Sort))
	return styles.help.Render(strings.Join(filters, " · "))
}

func (m *Model) renderList() string {
	if m.frame.Empty {
		return styles.warn.Render("No games match. Press c to clear filters.")
	}

	more := ""
	switch {
	case m.pager.Busy():
		more = styles.help.Render("Loading...")
	case m.frame.HasMore():
		more = styles.help.Render(fmt.Sprintf("%d more · press m", m.frame.MatchCount-len(m.frame.Items)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.list.View(), more)
}

func (m *Model) renderStats() string {
	s := m.frame.Stats
	money := func(v float64) string { return shared.FormatMoney(v, m.opts.Currency) }

	lines := []string{
		styles.ok.Render("Collection"),
		fmt.Sprintf("Games      %d", s.TotalCount),
		fmt.Sprintf("Invested   %s", money(s.InvestedTotal)),
		fmt.Sprintf("Recovered  %s", money(s.RecoveredTotal)),
		fmt.Sprintf("Completion %d%%", s.CompletionRate),
	}
	if s.WishlistEstimate > 0 {
		lines = append(lines, fmt.Sprintf("Wishlist   %s", money(s.WishlistEstimate)))
	}
	if s.StorefrontPotential > 0 {
		lines = append(lines, fmt.Sprintf("For sale   %s", money(s.StorefrontPotential)))
	}

	lines = append(lines, "", styles.ok.Render("Platforms"))
	lines = append(lines, renderChart(m.frame.Chart, m.frame.State.Platform)...)

	return styles.panel.Render(strings.Join(lines, "\n"))
}

// renderChart draws one bar per platform, scaled to the largest count. The selected platform is marked.
func renderChart(chart []collection.PlatformCount, selected string) []string {
	if len(chart) == 0 {
		return []string{styles.help.Render("none")}
	}

	top := 0
	label := 0
	for _, p := range chart {
		top = max(top, p.Count)
		label = max(label, len(p.Platform))
	}

	lines := make([]string, len(chart))
	for i, p := range chart {
		n := max(1, p.Count*chartWidth/top)
		marker := " "
		if p.Platform == selected {
			marker = ">"
		}
		lines[i] = fmt.Sprintf("%s %-*s %s %d", marker, label, p.Platform, styles.bar.Render(strings.Repeat("█", n)), p.Count)
	}
	return lines
}

func (m *Model) renderFooter() string {
	if m.status != "" {
		return m.status + "\n" + m.help.View(m.keys)
	}
	return m.help.View(m.keys)
}

func (m *Model) listWidth() int {
	return max(m.width-chartWidth-30, 30)
}

func tabLabel(t collection.Tab) string {
	if t == "" {
		return "Collection"
	}
	return strings.ToUpper(string(t[:1])) + string(t[1:])
}
