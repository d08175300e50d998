package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ngmaloney/jma-terminal/internal/navigation"
)

// Message types for async operations

// viewResolvedMsg is sent when a selection has been resolved
type viewResolvedMsg struct {
	selection navigation.Selection
	view      navigation.View
}

// defaultLookupTimeout applies when no WithTimeout option is given
const defaultLookupTimeout = 30 * time.Second

// resolveSelection resolves sel in the background within timeout
func resolveSelection(nav *navigation.Navigator, sel navigation.Selection, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		return viewResolvedMsg{selection: sel, view: nav.Resolve(ctx, sel)}
	}
}
