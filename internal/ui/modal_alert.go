package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"codeconnect/internal/form"
)

// AlertModal shows the oldest pending notice. Enter or Esc acknowledges it.
type AlertModal struct {
	Notice     form.Notice
	boxStyle   lipgloss.Style
	titleStyle lipgloss.Style
}

// Ensure AlertModal implements View.
var _ View = (*AlertModal)(nil)

// NewAlertModal creates an alert for n.
func NewAlertModal(n form.Notice) *AlertModal {
	m := &AlertModal{}
	m.SetNotice(n)
	return m
}

// SetNotice swaps the displayed notice, restyling for its kind.
func (m *AlertModal) SetNotice(n form.Notice) {
	m.Notice = n
	if n.Kind == form.NoticeError {
		m.boxStyle = Styles.BoxDanger
		m.titleStyle = Styles.TitleWarning
		return
	}
	m.boxStyle = Styles.Box
	m.titleStyle = Styles.Title
}

// Init implements View.
func (m *AlertModal) Init() tea.Cmd {
	return nil
}

// Update implements View.
func (m *AlertModal) Update(msg tea.Msg) (View, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "enter", "esc", " ":
			return m, func() tea.Msg { return form.NoticeDismissed{} }
		}
	}
	return m, nil
}

// View implements View.
func (m *AlertModal) View() string {
	title := "CodeConnect"
	if m.Notice.Kind == form.NoticeError {
		title = "Error"
	}
	content := m.titleStyle.Render(title) + "\n\n"
	content += Styles.Label.Render(m.Notice.Text)
	content += "\n\n" + Styles.Hint.Render("Enter: OK")
	return m.boxStyle.Render(content)
}
