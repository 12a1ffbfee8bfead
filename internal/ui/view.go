package ui

import tea "github.com/charmbracelet/bubbletea"

// View is the unit of composition: a screen or modal with its own model,
// update and view.
type View interface {
	Init() tea.Cmd
	Update(tea.Msg) (View, tea.Cmd)
	View() string
}
