package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/shelf/internal/models"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgItemsLoaded MsgKind = iota
	MsgLoadMoreDone
)

type itemsLoaded struct {
	items []models.Item
	err   error
}

// itemsLoadedMsg is the constructor for [MsgItemsLoaded]
func itemsLoadedMsg(items []models.Item, err error) Msg {
	return Msg{kind: MsgItemsLoaded, data: itemsLoaded{items, err}}
}

// loadMoreDoneMsg is the constructor for [MsgLoadMoreDone]
func loadMoreDoneMsg() Msg {
	return Msg{kind: MsgLoadMoreDone}
}
