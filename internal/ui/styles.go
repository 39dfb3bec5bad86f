package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme colors used throughout the UI
const (
	ColorAccent    = "86"  // Cyan/green - for titles, highlights
	ColorHighlight = "205" // Magenta - for focused items, borders
	ColorDanger    = "196" // Red - for errors, negative feedback
	ColorPositive  = "42"  // Green - for positive feedback
	ColorMuted     = "241" // Gray - for dimmed text, hints
	ColorText      = "252" // Light gray - for normal text
	ColorWarning   = "208" // Orange - for pending work
)

// Styles contains shared style definitions used across the form and modals.
var Styles = struct {
	Title        lipgloss.Style // Bold accent color - for the form title
	TitleWarning lipgloss.Style // Bold danger color - for error alerts

	Box       lipgloss.Style // Standard box with rounded border
	BoxDanger lipgloss.Style // Error alert box

	Label      lipgloss.Style // Field labels
	Focused    lipgloss.Style // Label of the focused field
	Muted      lipgloss.Style
	Hint       lipgloss.Style
	FieldError lipgloss.Style // Error slot text
	Positive   lipgloss.Style // Positive feedback tone
	Negative   lipgloss.Style // Negative feedback tone
	Pending    lipgloss.Style // In-flight request indicator

	Tag         lipgloss.Style // Tag list entry
	TagSelected lipgloss.Style // Entry or remove control under the cursor
	Remove      lipgloss.Style // Remove control of an entry

	Button        lipgloss.Style
	ButtonFocused lipgloss.Style
}{
	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorAccent)),
	TitleWarning: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorDanger)),
	Box: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorHighlight)).
		Padding(1, 2).
		Margin(1),
	BoxDanger: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorDanger)).
		Padding(1, 2).
		Margin(1),
	Label: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorText)),
	Focused: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHighlight)).
		Bold(true),
	Muted: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)),
	Hint: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)).
		Italic(true),
	FieldError: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorDanger)),
	Positive: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorPositive)),
	Negative: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorDanger)),
	Pending: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorWarning)),
	Tag: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorText)).
		Border(lipgloss.NormalBorder(), false, true).
		BorderForeground(lipgloss.Color(ColorMuted)).
		Padding(0, 1),
	TagSelected: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHighlight)).
		Bold(true).
		Underline(true),
	Remove: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorDanger)),
	Button: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorText)).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorMuted)).
		Padding(0, 2),
	ButtonFocused: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHighlight)).
		Bold(true).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorHighlight)).
		Padding(0, 2),
}
