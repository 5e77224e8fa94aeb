package ui

import (
	"github.com/charmbracelet/lipgloss"
)

var styles = NewPalette("#7D56F4", "#04B575", "#FF0000", "#FFA500", "#626262")

var _ Painter = (*Palette)(nil)

// interface Painter defines coloring text with [lipgloss] styles
type Painter interface {
	On(string, lipgloss.Color) string // Sets background color
	As(string, lipgloss.Color) string // Sets foreground color
}

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title     lipgloss.Style
	ok        lipgloss.Style
	err       lipgloss.Style
	warn      lipgloss.Style
	help      lipgloss.Style
	activeTab lipgloss.Style
	tab       lipgloss.Style
	bar       lipgloss.Style
	panel     lipgloss.Style
}

func NewPalette(t, s, e, w, h string) *Palette {
	return &Palette{
		title:     NewBold(t).MarginBottom(1),
		ok:        NewBold(s),
		err:       NewBold(e),
		warn:      NewStyle(w),
		help:      NewEm(h),
		activeTab: NewBold(t).Underline(true).Padding(0, 1),
		tab:       NewStyle(h).Padding(0, 1),
		bar:       NewStyle(s),
		panel:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color(h)).Padding(0, 1),
	}
}

func (p *Palette) On(s string, c lipgloss.Color) string {
	return lipgloss.NewStyle().Background(c).Render(s)
}

func (p *Palette) As(s string, c lipgloss.Color) string {
	return lipgloss.NewStyle().Foreground(c).Render(s)
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}
