// Package ui implements an interactive collection browser using bubbletea's Elm architecture.
//
// The (view) [Model] owns one [collection.Store] and recomputes its frame whenever the store notifies,
// so every key press that changes the state (tab, search, sort, chart platform) re-renders the list
// and the stats panel together. KPIs always describe the whole collection; the platform chart follows
// the current narrowing.
//
// Loading more items is a two step affair: "m" latches the [collection.Pager] and schedules a
// [tea.Tick]; the tick's message completes the load. Pressing "m" again while the tick is pending does
// nothing.
//
// Keyboard navigation uses vim-style bindings (j/k, h/l for tabs, / to search, esc, q) with contextual
// help displayed via charmbracelet/bubbles/help.
package ui
