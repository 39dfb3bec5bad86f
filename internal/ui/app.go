package ui

import (
	"context"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"codeconnect/internal/form"
	"codeconnect/internal/service"
	"codeconnect/internal/upload"
)

// Deps are the collaborators of the form UI.
type Deps struct {
	Backend  service.Backend
	Reader   upload.FileReader // defaults to upload.DiskReader
	Logger   zerolog.Logger
	Settings form.Settings
	StartDir string // where the image chooser opens; defaults to "."
	Context  context.Context
}

// AppModel is the root model. It owns the form controller and projects its
// state onto the widgets; every edit goes through Controller.Dispatch.
type AppModel struct {
	Controller *form.Controller
	Focus      *FocusManager
	Overlays   OverlayStack
	KeyHandler *KeyHandler

	backend  service.Backend
	reader   upload.FileReader
	log      zerolog.Logger
	ctx      context.Context
	startDir string

	name        textinput.Model
	email       textinput.Model
	tag         textinput.Model
	description textarea.Model
	spinner     spinner.Model

	tagCursor int
	tagPart   form.ClickTarget

	queued        []tea.Cmd
	width, height int
}

// Ensure AppModel can be used as tea.Model via adapter.
var _ tea.Model = (*appModelAdapter)(nil)

// appModelAdapter wraps AppModel to implement tea.Model.
type appModelAdapter struct {
	*AppModel
}

// Init implements tea.Model.
func (a *appModelAdapter) Init() tea.Cmd {
	return a.spinner.Tick
}

// Update implements tea.Model.
func (a *appModelAdapter) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return a, a.update(msg)
}

// View implements tea.Model.
func (a *appModelAdapter) View() string {
	return a.AppModel.View()
}

// NewAppModel builds the form UI with focus on the image button.
func NewAppModel(d Deps) *AppModel {
	if d.Reader == nil {
		d.Reader = upload.DiskReader{}
	}
	if d.Context == nil {
		d.Context = context.Background()
	}
	m := &AppModel{
		Controller: form.New(d.Settings),
		backend:    d.Backend,
		reader:     d.Reader,
		log:        d.Logger,
		ctx:        d.Context,
		startDir:   d.StartDir,
		name:       newTextInput("Project name"),
		email:      newTextInput("you@example.com"),
		tag:        newTextInput("e.g. JavaScript"),
		tagPart:    form.TargetEntry,
	}
	m.description = textarea.New()
	m.description.Placeholder = "What does it do?"
	m.description.ShowLineNumbers = false
	m.description.SetHeight(4)
	m.description.Cursor.SetMode(cursor.CursorStatic)

	m.spinner = spinner.New()
	m.spinner.Spinner = spinner.Dot
	m.spinner.Style = Styles.Pending

	m.Focus = NewFocusManager(formFocusOrder)
	m.Focus.OnChange = m.onFocusChange
	m.KeyHandler = NewKeyHandler(m.registerKeybinds())
	return m
}

// AsTeaModel returns a tea.Model adapter for use with tea.NewProgram.
func (m *AppModel) AsTeaModel() tea.Model {
	return &appModelAdapter{AppModel: m}
}

func newTextInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "> "
	ti.Width = 48
	ti.Cursor.SetMode(cursor.CursorStatic)
	return ti
}

func (m *AppModel) registerKeybinds() *KeybindRegistry {
	reg := NewKeybindRegistry()
	onForm := []AppMode{ModeForm}
	reg.BindWithDescForMode("tab", func() tea.Msg { return FocusNextMsg{} }, "next", onForm)
	reg.BindWithDescForMode("shift+tab", func() tea.Msg { return FocusPrevMsg{} }, "previous", onForm)
	reg.BindWithDescForMode("ctrl+o", func() tea.Msg { return OpenFilePickerMsg{} }, "image", onForm)
	reg.BindWithDescForMode("ctrl+s", dispatchCmd(formSubmit), "publish", onForm)
	reg.BindWithDescForMode("ctrl+r", dispatchCmd(formDiscard), "discard", onForm)
	reg.BindWithDesc("ctrl+c", tea.Quit, "quit")
	return reg
}

var (
	formSubmit  form.Msg = form.SubmitClicked{}
	formDiscard form.Msg = form.DiscardClicked{}
)

func dispatchCmd(msg form.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

// Mode returns what currently receives keys.
func (m *AppModel) Mode() AppMode {
	return m.Overlays.Mode()
}

func (m *AppModel) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case form.Msg:
		return m.dispatch(msg)
	case OpenFilePickerMsg:
		return m.openFilePicker()
	case fileChosenMsg:
		if p := m.filePicker(); p != nil {
			m.startDir = p.Dir()
		}
		m.Overlays.RemoveMode(ModeFilePicker)
		if msg.Path == "" {
			return m.dispatch(form.FileSelected{})
		}
		return statFileCmd(msg.Path)
	case fileStatFailedMsg:
		m.log.Error().Err(msg.Err).Str("path", msg.Path).Msg("cannot inspect chosen file")
		return m.dispatch(form.FileSelected{})
	case FocusNextMsg:
		m.Focus.Next()
		return m.drainQueued()
	case FocusPrevMsg:
		m.Focus.Prev()
		return m.drainQueued()
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return cmd
	}
	return tea.Batch(m.Overlays.Broadcast(msg)...)
}

func (m *AppModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	mode := m.Mode()
	if handled, cmd := m.KeyHandler.Handle(msg, mode); handled {
		return cmd
	}
	if mode != ModeForm {
		cmd, _ := m.Overlays.UpdateTop(msg)
		return cmd
	}
	return m.handleFormKey(msg)
}

// dispatch applies msg to the form, writes its logs and returns commands for
// the requests it started.
func (m *AppModel) dispatch(msg form.Msg) tea.Cmd {
	cmds := m.effectCmds(m.Controller.Dispatch(msg))
	m.sync()
	if _, ok := msg.(form.SubmitClicked); ok {
		m.focusFirstError()
		cmds = append(cmds, m.drainQueued())
	}
	return tea.Batch(cmds...)
}

// errorFocus maps a validated field to the element that edits it.
var errorFocus = map[form.Field]FocusID{
	form.FieldName:        FocusName,
	form.FieldEmail:       FocusEmail,
	form.FieldDescription: FocusDescription,
	form.FieldTags:        FocusTagInput,
}

// focusFirstError moves focus to the field whose error slot is set, if any.
// Validation stops at the first failure, so at most one slot is filled.
func (m *AppModel) focusFirstError() {
	s := m.Controller.State()
	for _, f := range []form.Field{form.FieldName, form.FieldEmail, form.FieldDescription, form.FieldTags} {
		if s.Error(f) != "" {
			m.Focus.SetFocus(errorFocus[f])
			return
		}
	}
}

// filePicker returns the open image chooser, if any.
func (m *AppModel) filePicker() *FilePickerModal {
	for _, o := range m.Overlays.Stack {
		if p, ok := o.View.(*FilePickerModal); ok {
			return p
		}
	}
	return nil
}

func (m *AppModel) drainQueued() tea.Cmd {
	cmds := m.queued
	m.queued = nil
	return tea.Batch(cmds...)
}

func (m *AppModel) onFocusChange(from, to FocusID) {
	m.setWidgetFocus(from, false)
	m.setWidgetFocus(to, true)
	if from == FocusEmail {
		if cmd := m.dispatch(form.EmailBlurred{}); cmd != nil {
			m.queued = append(m.queued, cmd)
		}
	}
}

func (m *AppModel) setWidgetFocus(id FocusID, focused bool) {
	switch id {
	case FocusName:
		toggleInput(&m.name, focused)
	case FocusEmail:
		toggleInput(&m.email, focused)
	case FocusTagInput:
		toggleInput(&m.tag, focused)
	case FocusDescription:
		if focused {
			m.description.Focus()
		} else {
			m.description.Blur()
		}
	}
}

func toggleInput(ti *textinput.Model, focused bool) {
	if focused {
		ti.Focus()
		return
	}
	ti.Blur()
}

// sync projects the form state onto widgets and overlays.
func (m *AppModel) sync() {
	s := m.Controller.State()
	syncInput(&m.name, s.Name)
	syncInput(&m.email, s.Email)
	syncInput(&m.tag, s.TagInput)
	if m.description.Value() != s.Description {
		m.description.SetValue(s.Description)
	}
	switch {
	case len(s.Tags) == 0:
		m.tagCursor = 0
	case m.tagCursor >= len(s.Tags):
		m.tagCursor = len(s.Tags) - 1
	}
	m.syncAlert(s.Notices)
}

func syncInput(ti *textinput.Model, v string) {
	if ti.Value() != v {
		ti.SetValue(v)
	}
}

// syncAlert keeps one alert overlay showing the oldest notice.
func (m *AppModel) syncAlert(notices []form.Notice) {
	var alert *AlertModal
	if top, ok := m.Overlays.Peek(); ok && top.Mode == ModeAlert {
		alert, _ = top.View.(*AlertModal)
	}
	switch {
	case len(notices) == 0:
		m.Overlays.RemoveMode(ModeAlert)
	case alert != nil:
		alert.SetNotice(notices[0])
	default:
		m.Overlays.RemoveMode(ModeAlert)
		m.Overlays.Push(Overlay{View: NewAlertModal(notices[0]), Mode: ModeAlert})
	}
}

func (m *AppModel) openFilePicker() tea.Cmd {
	if m.Mode() != ModeForm {
		return nil
	}
	picker := NewFilePickerModal(m.startDir, m.height-12)
	m.Overlays.Push(Overlay{View: picker, Mode: ModeFilePicker})
	return picker.Init()
}

func (m *AppModel) resize(w, h int) {
	m.width, m.height = w, h
	inner := max(min(w-8, 72), 20)
	m.name.Width = inner - 2
	m.email.Width = inner - 2
	m.tag.Width = inner - 2
	m.description.SetWidth(inner)
}

// View renders the form, or the top overlay centered over it.
func (m *AppModel) View() string {
	if m.Overlays.Len() == 0 {
		return m.renderForm()
	}
	top, _ := m.Overlays.Peek()
	v := top.View.View() + "\n" + RenderKeybindHelp(m.KeyHandler.Registry, top.Mode)
	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, v)
	}
	return v
}
