package ui

import (
	"github.com/charmbracelet/bubbles/filepicker"
	tea "github.com/charmbracelet/bubbletea"
)

// FilePickerModal browses the filesystem for a project image. It reports
// the outcome with a fileChosenMsg; the path is empty when cancelled.
// Any file can be chosen; type and size are checked by the form.
type FilePickerModal struct {
	picker filepicker.Model
}

// Ensure FilePickerModal implements View.
var _ View = (*FilePickerModal)(nil)

// NewFilePickerModal creates a picker rooted at dir showing height rows.
func NewFilePickerModal(dir string, height int) *FilePickerModal {
	fp := filepicker.New()
	if dir != "" {
		fp.CurrentDirectory = dir
	}
	fp.AutoHeight = false
	fp.Height = max(height, 5)
	fp.ShowPermissions = false
	return &FilePickerModal{picker: fp}
}

// Dir returns the directory being browsed.
func (m *FilePickerModal) Dir() string {
	return m.picker.CurrentDirectory
}

// Init implements View. It starts the directory read.
func (m *FilePickerModal) Init() tea.Cmd {
	return m.picker.Init()
}

// Update implements View.
func (m *FilePickerModal) Update(msg tea.Msg) (View, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
		return m, func() tea.Msg { return fileChosenMsg{} }
	}
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	if ok, path := m.picker.DidSelectFile(msg); ok {
		return m, func() tea.Msg { return fileChosenMsg{Path: path} }
	}
	return m, cmd
}

// View implements View.
func (m *FilePickerModal) View() string {
	content := Styles.Title.Render("Select a project image") + "\n"
	content += Styles.Muted.Render(m.picker.CurrentDirectory) + "\n\n"
	content += m.picker.View()
	content += "\n" + Styles.Hint.Render("Enter: choose  ←/h: up a directory  Esc: cancel")
	return Styles.Box.Render(content)
}
