package ui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// RenderKeybindHelp renders the footer help bar for the bindings active in
// mode, followed by any extra mode-specific hints.
func RenderKeybindHelp(reg *KeybindRegistry, mode AppMode, extra ...key.Binding) string {
	if reg == nil {
		return ""
	}
	bindings := append(reg.Bindings(mode), extra...)
	if len(bindings) == 0 {
		return ""
	}

	helpModel := help.New()
	helpModel.Styles.ShortKey = lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHighlight)).
		Bold(true)
	helpModel.Styles.ShortDesc = lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted))
	helpModel.Styles.ShortSeparator = lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted))

	return lipgloss.NewStyle().MarginTop(1).Render(helpModel.ShortHelpView(bindings))
}

// hint builds a display-only binding for RenderKeybindHelp.
func hint(keys, desc string) key.Binding {
	return key.NewBinding(key.WithKeys(keys), key.WithHelp(keys, desc))
}
