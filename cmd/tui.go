package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/shelf/internal/collection"
	"github.com/desertthunder/shelf/internal/shared"
	"github.com/desertthunder/shelf/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive collection browser.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if err := r.open(); err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/shelf-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	model := ui.NewModel(r.items, ui.Options{
		Name:     r.config.Profile.Name,
		Currency: r.config.Profile.Currency,
		PageSize: r.pageSize(),
		Sort:     collection.SortKey(r.config.View.DefaultSort),
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
