package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"codeconnect/internal/catalog"
	"codeconnect/internal/form"
	"codeconnect/internal/ui/textutil"
)

const maxSuggestions = 5

// handleFormKey routes a key to the focused element.
func (m *AppModel) handleFormKey(msg tea.KeyMsg) tea.Cmd {
	switch m.Focus.Current {
	case FocusUpload:
		if isPress(msg) {
			return m.openFilePicker()
		}
	case FocusName:
		if msg.Type == tea.KeyEnter {
			m.Focus.Next()
			return m.drainQueued()
		}
		return m.editInput(&m.name, form.InputName, msg)
	case FocusEmail:
		if msg.Type == tea.KeyEnter {
			m.Focus.Next()
			return m.drainQueued()
		}
		return m.editInput(&m.email, form.InputEmail, msg)
	case FocusDescription:
		return m.editDescription(msg)
	case FocusTagInput:
		if msg.Type == tea.KeyEnter {
			return m.dispatch(form.TagCommitted{})
		}
		return m.editInput(&m.tag, form.InputTag, msg)
	case FocusTagList:
		return m.handleTagListKey(msg)
	case FocusSubmit:
		if isPress(msg) {
			return m.dispatch(form.SubmitClicked{})
		}
	case FocusDiscard:
		if isPress(msg) {
			return m.dispatch(form.DiscardClicked{})
		}
	}
	return nil
}

// isPress reports whether msg activates a button.
func isPress(msg tea.KeyMsg) bool {
	return msg.Type == tea.KeyEnter || msg.Type == tea.KeySpace
}

func (m *AppModel) editInput(ti *textinput.Model, input form.Input, msg tea.KeyMsg) tea.Cmd {
	before := ti.Value()
	var cmd tea.Cmd
	*ti, cmd = ti.Update(msg)
	if ti.Value() == before {
		return cmd
	}
	return tea.Batch(cmd, m.dispatch(form.InputEdited{Input: input, Value: ti.Value()}))
}

func (m *AppModel) editDescription(msg tea.KeyMsg) tea.Cmd {
	before := m.description.Value()
	var cmd tea.Cmd
	m.description, cmd = m.description.Update(msg)
	if m.description.Value() == before {
		return cmd
	}
	return tea.Batch(cmd, m.dispatch(form.InputEdited{Input: form.InputDescription, Value: m.description.Value()}))
}

// handleTagListKey moves the cursor over entries and their remove controls
// and turns enter into a click on whatever is under it.
func (m *AppModel) handleTagListKey(msg tea.KeyMsg) tea.Cmd {
	tags := m.Controller.State().Tags
	switch msg.String() {
	case "up", "k":
		if m.tagCursor > 0 {
			m.tagCursor--
		}
	case "down", "j":
		if m.tagCursor < len(tags)-1 {
			m.tagCursor++
		}
	case "left", "h":
		m.tagPart = form.TargetEntry
	case "right", "l":
		m.tagPart = form.TargetRemove
	case "enter", " ":
		if len(tags) == 0 {
			return m.dispatch(form.TagListClicked{Target: form.TargetList})
		}
		return m.dispatch(form.TagListClicked{Target: m.tagPart, TagID: tags[m.tagCursor].ID})
	case "delete", "backspace", "x":
		if len(tags) > 0 {
			return m.dispatch(form.TagListClicked{Target: form.TargetRemove, TagID: tags[m.tagCursor].ID})
		}
	}
	return nil
}

func (m *AppModel) renderForm() string {
	s := m.Controller.State()
	width := m.width
	if width <= 0 {
		width = 80
	}

	var b strings.Builder
	b.WriteString(Styles.Title.Render("CodeConnect: publish a project"))
	b.WriteString("\n\n")

	b.WriteString(m.renderImage(s, width))
	b.WriteString(m.renderField(FocusName, "Name", m.name.View(), s.Error(form.FieldName)))
	b.WriteString(m.renderEmail(s))
	b.WriteString(m.renderField(FocusDescription, "Description", m.description.View(), s.Error(form.FieldDescription)))
	b.WriteString(m.renderTags(s))
	b.WriteString(m.renderButtons(s))

	b.WriteString(RenderKeybindHelp(m.KeyHandler.Registry, ModeForm, m.focusHints()...))
	return b.String()
}

func (m *AppModel) label(id FocusID, text string) string {
	if m.Focus.Current == id {
		return Styles.Focused.Render("▸ " + text)
	}
	return Styles.Label.Render("  " + text)
}

func (m *AppModel) pending(op form.Operation, s form.State, text string) string {
	n := s.Pending(op)
	if n == 0 {
		return ""
	}
	if n > 1 {
		text = fmt.Sprintf("%s (%d)", text, n)
	}
	return "  " + m.spinner.View() + Styles.Pending.Render(text)
}

func (m *AppModel) renderField(id FocusID, name, widget, errText string) string {
	out := m.label(id, name) + "\n" + indent(widget) + "\n"
	if errText != "" {
		out += "  " + Styles.FieldError.Render(errText) + "\n"
	}
	return out + "\n"
}

func (m *AppModel) renderImage(s form.State, width int) string {
	button := Styles.Button.Render("Choose image")
	if m.Focus.Current == FocusUpload {
		button = Styles.ButtonFocused.Render("Choose image")
	}
	avail := max(width-8, 10)
	info := Styles.Label.Render(textutil.Truncate(s.Image.Label, avail)) + "\n" +
		Styles.Muted.Render(textutil.TruncateMiddle(s.Image.Source, avail))
	if p := m.pending(form.OpReadFile, s, "reading file…"); p != "" {
		info += "\n" + p
	}
	return m.label(FocusUpload, "Image") + "\n" +
		indent(lipgloss.JoinHorizontal(lipgloss.Center, button, "  ", info)) + "\n\n"
}

func (m *AppModel) renderEmail(s form.State) string {
	out := m.label(FocusEmail, "Email") + "\n" + indent(m.email.View()) + "\n"
	if p := m.pending(form.OpCheckEmail, s, "checking availability…"); p != "" {
		out += p + "\n"
	}
	if fb := s.EmailFeedback; fb.Text != "" {
		out += "  " + toneStyle(fb.Tone).Render(fb.Text) + "\n"
	}
	if e := s.Error(form.FieldEmail); e != "" {
		out += "  " + Styles.FieldError.Render(e) + "\n"
	}
	return out + "\n"
}

func toneStyle(t form.Tone) lipgloss.Style {
	switch t {
	case form.TonePositive:
		return Styles.Positive
	case form.ToneNegative:
		return Styles.Negative
	default:
		return Styles.Muted
	}
}

func (m *AppModel) renderTags(s form.State) string {
	out := m.label(FocusTagInput, "Tags") + "\n" + indent(m.tag.View()) + "\n"
	if sug := catalog.SuggestTags(s.TagInput, maxSuggestions); len(sug) > 0 && m.Focus.Current == FocusTagInput {
		out += "  " + Styles.Hint.Render("suggestions: "+strings.Join(sug, ", ")) + "\n"
	}
	if p := m.pending(form.OpLookupTag, s, "looking up tag…"); p != "" {
		out += p + "\n"
	}

	listFocused := m.Focus.Current == FocusTagList
	var entries []string
	for i, t := range s.Tags {
		text, remove := Styles.Label.Render(t.Text), Styles.Remove.Render("✕")
		if listFocused && i == m.tagCursor {
			if m.tagPart == form.TargetRemove {
				remove = Styles.TagSelected.Render("✕")
			} else {
				text = Styles.TagSelected.Render(t.Text)
			}
		}
		entries = append(entries, Styles.Tag.Render(text+" "+remove))
	}
	list := Styles.Muted.Render("no tags yet")
	if len(entries) > 0 {
		list = lipgloss.JoinVertical(lipgloss.Left, entries...)
	}
	out += m.label(FocusTagList, "Selected tags") + "\n" + indent(list) + "\n"
	if e := s.Error(form.FieldTags); e != "" {
		out += "  " + Styles.FieldError.Render(e) + "\n"
	}
	return out + "\n"
}

func (m *AppModel) renderButtons(s form.State) string {
	publish, discard := Styles.Button, Styles.Button
	if m.Focus.Current == FocusSubmit {
		publish = Styles.ButtonFocused
	}
	if m.Focus.Current == FocusDiscard {
		discard = Styles.ButtonFocused
	}
	row := lipgloss.JoinHorizontal(lipgloss.Center,
		publish.Render("Publish"), " ", discard.Render("Discard"),
		m.pending(form.OpPublish, s, "publishing…"))
	return indent(row) + "\n"
}

// focusHints describes the keys the focused element understands.
func (m *AppModel) focusHints() []key.Binding {
	switch m.Focus.Current {
	case FocusUpload, FocusSubmit, FocusDiscard:
		return []key.Binding{hint("enter", "press")}
	case FocusTagInput:
		return []key.Binding{hint("enter", "add tag")}
	case FocusTagList:
		return []key.Binding{hint("↑/↓", "select"), hint("←/→", "tag/remove"), hint("enter", "click")}
	}
	return nil
}

func indent(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = "  " + l
	}
	return strings.Join(lines, "\n")
}
