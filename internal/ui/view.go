package ui

import tea "github.com/charmbracelet/bubbletea"

// View is implemented by the overlays drawn on top of the form. It mirrors
// Bubble Tea's Init/Update/View but returns itself as a View so overlays can
// be stacked and swapped without type assertions in the caller.
type View interface {
	Init() tea.Cmd
	Update(tea.Msg) (View, tea.Cmd)
	View() string
}
