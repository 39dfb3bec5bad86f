package ui

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"codeconnect/internal/form"
	"codeconnect/internal/service"
)

func newTestApp(t *testing.T, backend service.Backend) (*AppModel, *appModelAdapter, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	m := NewAppModel(Deps{
		Backend:  backend,
		Logger:   zerolog.New(&logs),
		StartDir: t.TempDir(),
	})
	return m, &appModelAdapter{AppModel: m}, &logs
}

// run executes cmd and feeds every resulting message back into the adapter
// until the chain settles.
func run(t *testing.T, a *appModelAdapter, cmd tea.Cmd) {
	t.Helper()
	for depth := 0; cmd != nil; depth++ {
		if depth > 20 {
			t.Fatal("command chain did not settle")
		}
		msg := cmd()
		switch msg := msg.(type) {
		case nil, tea.QuitMsg:
			return
		case tea.BatchMsg:
			for _, c := range msg {
				run(t, a, c)
			}
			return
		}
		_, cmd = a.Update(msg)
	}
}

func press(t *testing.T, a *appModelAdapter, keys ...string) {
	t.Helper()
	for _, k := range keys {
		_, cmd := a.Update(keyMsg(k))
		run(t, a, cmd)
	}
}

func typeText(t *testing.T, a *appModelAdapter, s string) {
	t.Helper()
	for _, r := range s {
		_, cmd := a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		run(t, a, cmd)
	}
}

func focus(t *testing.T, a *appModelAdapter, id FocusID) {
	t.Helper()
	if !a.Focus.SetFocus(id) {
		t.Fatalf("unknown focus %q", id)
	}
	run(t, a, a.drainQueued())
}

func fillValid(t *testing.T, a *appModelAdapter) {
	t.Helper()
	focus(t, a, FocusName)
	typeText(t, a, "CodeConnect")
	focus(t, a, FocusEmail)
	typeText(t, a, "user@example.com")
	focus(t, a, FocusDescription)
	typeText(t, a, "A social network for devs")
	focus(t, a, FocusTagInput)
	typeText(t, a, "HTML")
	press(t, a, "enter")
}

func writeImage(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("\x89PNG\r\n\x1a\nfake"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNewAppModel_InitialState(t *testing.T) {
	m, _, _ := newTestApp(t, &service.Fake{})
	if m.Focus.Current != FocusUpload {
		t.Errorf("initial focus = %q, want %q", m.Focus.Current, FocusUpload)
	}
	if m.Mode() != ModeForm {
		t.Errorf("initial mode = %v, want Form", m.Mode())
	}
	s := m.Controller.State()
	if s.Image.Label != form.DefaultPlaceholderLabel {
		t.Errorf("image label = %q", s.Image.Label)
	}
}

func TestFocus_TabRotation(t *testing.T) {
	m, a, _ := newTestApp(t, &service.Fake{})

	press(t, a, "tab")
	if m.Focus.Current != FocusName {
		t.Errorf("after tab focus = %q, want name", m.Focus.Current)
	}
	if !m.name.Focused() {
		t.Error("expected name input to be focused")
	}
	press(t, a, "shift+tab")
	if m.Focus.Current != FocusUpload {
		t.Errorf("after shift+tab focus = %q, want upload", m.Focus.Current)
	}
	if m.name.Focused() {
		t.Error("expected name input to be blurred")
	}
	press(t, a, "shift+tab")
	if m.Focus.Current != FocusDiscard {
		t.Errorf("shift+tab from first = %q, want discard", m.Focus.Current)
	}
	press(t, a, "tab")
	if m.Focus.Current != FocusUpload {
		t.Errorf("tab from last = %q, want upload", m.Focus.Current)
	}
}

func TestTyping_UpdatesFormState(t *testing.T) {
	m, a, _ := newTestApp(t, &service.Fake{})

	focus(t, a, FocusName)
	typeText(t, a, "CodeConnect")
	press(t, a, "backspace")
	focus(t, a, FocusDescription)
	typeText(t, a, "Line one")
	press(t, a, "enter")
	typeText(t, a, "two")

	s := m.Controller.State()
	if s.Name != "CodeConnec" {
		t.Errorf("name = %q", s.Name)
	}
	if s.Description != "Line one\ntwo" {
		t.Errorf("description = %q", s.Description)
	}
}

func TestEmail_CheckedWhenFocusLeaves(t *testing.T) {
	tests := []struct {
		email string
		want  string
		tone  form.Tone
	}{
		{"diego@fake.io", "The email diego@fake.io is already registered!", form.ToneNegative},
		{"new@example.com", "The email new@example.com is available!", form.TonePositive},
	}
	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			m, a, _ := newTestApp(t, &service.Fake{})
			focus(t, a, FocusEmail)
			typeText(t, a, tt.email)
			press(t, a, "tab")

			fb := m.Controller.State().EmailFeedback
			if fb.Text != tt.want || fb.Tone != tt.tone {
				t.Errorf("feedback = %+v, want %q tone %v", fb, tt.want, tt.tone)
			}
			if !strings.Contains(a.View(), tt.want) {
				t.Error("expected feedback in view")
			}
		})
	}
}

func TestEmail_EnterMovesOnAndChecks(t *testing.T) {
	m, a, _ := newTestApp(t, &service.Fake{})
	focus(t, a, FocusEmail)
	typeText(t, a, "julia@fake.io")
	press(t, a, "enter")

	if m.Focus.Current != FocusDescription {
		t.Errorf("focus = %q, want description", m.Focus.Current)
	}
	if fb := m.Controller.State().EmailFeedback; fb.Tone != form.ToneNegative {
		t.Errorf("feedback = %+v, want negative", fb)
	}
}

func TestEmail_CheckErrorIsLogged(t *testing.T) {
	m, a, logs := newTestApp(t, &service.Fake{EmailErr: service.ErrUnavailable})
	focus(t, a, FocusEmail)
	typeText(t, a, "user@example.com")
	press(t, a, "tab")

	if fb := m.Controller.State().EmailFeedback; fb.Text != form.MsgEmailCheckError {
		t.Errorf("feedback = %q", fb.Text)
	}
	if !strings.Contains(logs.String(), "email availability check failed") {
		t.Errorf("logs = %s", logs.String())
	}
}

func TestTagInput_EnterAddsAllowedTag(t *testing.T) {
	m, a, _ := newTestApp(t, &service.Fake{})
	focus(t, a, FocusTagInput)
	typeText(t, a, "HTML")
	press(t, a, "enter")

	s := m.Controller.State()
	if got := s.TagTexts(); len(got) != 1 || got[0] != "HTML" {
		t.Errorf("tags = %v, want [HTML]", got)
	}
	if s.TagInput != "" || m.tag.Value() != "" {
		t.Errorf("tag input = %q / widget %q, want cleared", s.TagInput, m.tag.Value())
	}
}

func TestTagInput_UnknownTagShowsAlert(t *testing.T) {
	m, a, _ := newTestApp(t, &service.Fake{})
	focus(t, a, FocusTagInput)
	typeText(t, a, "Rust")
	press(t, a, "enter")

	if m.Mode() != ModeAlert {
		t.Fatalf("mode = %v, want Alert", m.Mode())
	}
	top, _ := m.Overlays.Peek()
	alert, ok := top.View.(*AlertModal)
	if !ok {
		t.Fatalf("top overlay = %T, want *AlertModal", top.View)
	}
	if alert.Notice.Text != form.MsgTagNotFound {
		t.Errorf("alert = %q", alert.Notice.Text)
	}
	if m.tag.Value() != "Rust" {
		t.Errorf("tag input = %q, want untouched", m.tag.Value())
	}
}

func TestAlert_DismissShowsNextNotice(t *testing.T) {
	m, a, _ := newTestApp(t, &service.Fake{})
	focus(t, a, FocusTagInput)
	press(t, a, "enter")
	typeText(t, a, "x") // swallowed by the alert
	run(t, a, a.dispatch(form.TagCommitted{}))

	if n := len(m.Controller.State().Notices); n != 2 {
		t.Fatalf("notices = %d, want 2", n)
	}
	if m.Overlays.Len() != 1 {
		t.Errorf("overlays = %d, want a single alert", m.Overlays.Len())
	}
	if m.tag.Value() != "" {
		t.Errorf("key reached the tag input while an alert was open: %q", m.tag.Value())
	}

	press(t, a, "enter")
	if m.Mode() != ModeAlert {
		t.Fatalf("mode = %v, want the second alert", m.Mode())
	}
	press(t, a, "esc")
	if m.Mode() != ModeForm || len(m.Controller.State().Notices) != 0 {
		t.Errorf("mode = %v notices = %v, want form with none", m.Mode(), m.Controller.State().Notices)
	}
}

func TestTagList_KeysClickEntryAndRemove(t *testing.T) {
	m, a, _ := newTestApp(t, &service.Fake{})
	focus(t, a, FocusTagInput)
	for _, tag := range []string{"HTML", "CSS", "Python"} {
		typeText(t, a, tag)
		press(t, a, "enter")
	}
	focus(t, a, FocusTagList)

	// Clicking the entry itself does nothing.
	press(t, a, "down", "enter")
	if got := m.Controller.State().TagTexts(); len(got) != 3 {
		t.Fatalf("tags = %v, want all three", got)
	}

	press(t, a, "right", "enter")
	got := m.Controller.State().TagTexts()
	if strings.Join(got, ",") != "HTML,Python" {
		t.Errorf("tags = %v, want [HTML Python]", got)
	}

	press(t, a, "down", "down", "x")
	got = m.Controller.State().TagTexts()
	if strings.Join(got, ",") != "HTML" {
		t.Errorf("tags = %v, want [HTML]", got)
	}
	if m.tagCursor != 0 {
		t.Errorf("cursor = %d, want clamped to 0", m.tagCursor)
	}

	press(t, a, "x", "enter")
	if n := len(m.Controller.State().Tags); n != 0 {
		t.Errorf("tags = %d, want 0", n)
	}
}

func TestSubmit_InvalidFormShowsFirstError(t *testing.T) {
	m, a, _ := newTestApp(t, &service.Fake{})
	focus(t, a, FocusName)
	typeText(t, a, "CodeConnect")
	press(t, a, "ctrl+s")

	s := m.Controller.State()
	if got := s.Error(form.FieldEmail); got != form.MsgEmailRequired {
		t.Errorf("email error = %q", got)
	}
	if got := s.Error(form.FieldDescription); got != "" {
		t.Errorf("description error = %q, want untouched", got)
	}
	if !strings.Contains(a.View(), form.MsgEmailRequired) {
		t.Error("expected email error in view")
	}
	if m.Focus.Current != FocusEmail || !m.email.Focused() {
		t.Errorf("focus = %q, want the email input", m.Focus.Current)
	}
}

func TestSubmit_FocusesTagInputWhenNoTags(t *testing.T) {
	m, a, _ := newTestApp(t, &service.Fake{})
	focus(t, a, FocusName)
	typeText(t, a, "CodeConnect")
	focus(t, a, FocusEmail)
	typeText(t, a, "user@example.com")
	focus(t, a, FocusDescription)
	typeText(t, a, "desc")
	focus(t, a, FocusSubmit)
	press(t, a, "enter")

	if got := m.Controller.State().Error(form.FieldTags); got != form.MsgTagsRequired {
		t.Errorf("tags error = %q", got)
	}
	if m.Focus.Current != FocusTagInput {
		t.Errorf("focus = %q, want tag input", m.Focus.Current)
	}
}

func TestNameInput_AcceptsLongValues(t *testing.T) {
	m, a, _ := newTestApp(t, &service.Fake{})
	focus(t, a, FocusName)
	long := strings.Repeat("a", 300)
	typeText(t, a, long)
	if got := m.Controller.State().Name; got != long {
		t.Errorf("name has %d chars, want %d", len(got), len(long))
	}
}

func TestSubmit_PublishesAndAnnounces(t *testing.T) {
	fake := &service.Fake{}
	m, a, logs := newTestApp(t, fake)
	fillValid(t, a)
	press(t, a, "ctrl+s")

	published := fake.Published()
	if len(published) != 1 {
		t.Fatalf("published = %d, want 1", len(published))
	}
	want := form.Project{
		Name:        "CodeConnect",
		Email:       "user@example.com",
		Description: "A social network for devs",
		Tags:        []string{"HTML"},
	}
	if p := published[0]; p.Name != want.Name || p.Email != want.Email ||
		p.Description != want.Description || strings.Join(p.Tags, ",") != "HTML" {
		t.Errorf("published %+v, want %+v", p, want)
	}
	if m.Mode() != ModeAlert || !strings.Contains(a.View(), form.MsgPublished) {
		t.Errorf("expected success alert, view:\n%s", a.View())
	}
	if !strings.Contains(logs.String(), form.MsgPublished) {
		t.Errorf("logs = %s", logs.String())
	}
}

func TestSubmit_PublishFailure(t *testing.T) {
	m, a, logs := newTestApp(t, &service.Fake{PublishErr: service.ErrPublishFailed})
	fillValid(t, a)
	press(t, a, "ctrl+s")

	top, ok := m.Overlays.Peek()
	if !ok {
		t.Fatal("expected an alert")
	}
	if alert := top.View.(*AlertModal); alert.Notice.Text != form.MsgPublishFailed || alert.Notice.Kind != form.NoticeError {
		t.Errorf("alert = %+v", alert.Notice)
	}
	if !strings.Contains(logs.String(), "publish failed") {
		t.Errorf("logs = %s", logs.String())
	}
	// The form keeps its values after a failure.
	if m.name.Value() != "CodeConnect" {
		t.Errorf("name = %q", m.name.Value())
	}
}

func TestSubmitButton_Enter(t *testing.T) {
	fake := &service.Fake{}
	_, a, _ := newTestApp(t, fake)
	fillValid(t, a)
	focus(t, a, FocusSubmit)
	press(t, a, "enter")
	if len(fake.Published()) != 1 {
		t.Error("expected enter on the publish button to publish")
	}
}

func TestDiscard_ResetsWidgets(t *testing.T) {
	m, a, _ := newTestApp(t, &service.Fake{})
	fillValid(t, a)
	focus(t, a, FocusTagInput)
	typeText(t, a, "CSS")
	press(t, a, "ctrl+r")

	s := m.Controller.State()
	if s.Name != "" || s.Email != "" || s.Description != "" || len(s.Tags) != 0 {
		t.Errorf("state not reset: %+v", s)
	}
	for name, v := range map[string]string{
		"name":        m.name.Value(),
		"email":       m.email.Value(),
		"tag":         m.tag.Value(),
		"description": m.description.Value(),
	} {
		if v != "" {
			t.Errorf("%s widget = %q, want empty", name, v)
		}
	}
}

func TestDiscardButton_DropsInflightLookup(t *testing.T) {
	m, a, _ := newTestApp(t, &service.Fake{})
	focus(t, a, FocusTagInput)
	typeText(t, a, "HTML")
	_, lookup := a.Update(keyMsg("enter"))
	focus(t, a, FocusDiscard)
	press(t, a, "enter")
	run(t, a, lookup)

	if n := len(m.Controller.State().Tags); n != 0 {
		t.Errorf("tags = %d, want stale lookup dropped", n)
	}
}

func TestFilePicker_CancelLeavesImage(t *testing.T) {
	m, a, _ := newTestApp(t, &service.Fake{})
	press(t, a, "ctrl+o")
	if m.Mode() != ModeFilePicker {
		t.Fatalf("mode = %v, want FilePicker", m.Mode())
	}

	// Form bindings do not apply while the picker is open.
	press(t, a, "ctrl+s")
	if m.Controller.State().Error(form.FieldName) != "" {
		t.Error("ctrl+s reached the form while the picker was open")
	}

	press(t, a, "esc")
	if m.Mode() != ModeForm {
		t.Errorf("mode = %v, want Form after esc", m.Mode())
	}
	if got := m.Controller.State().Image.Source; got != form.DefaultPlaceholderImage {
		t.Errorf("image = %q, want placeholder", got)
	}
}

func TestFilePicker_EnterOnUploadButtonOpens(t *testing.T) {
	m, a, _ := newTestApp(t, &service.Fake{})
	_, cmd := a.Update(keyMsg("enter"))
	if m.Mode() != ModeFilePicker || cmd == nil {
		t.Errorf("mode = %v cmd = %v, want picker with a directory read", m.Mode(), cmd)
	}
	top, _ := m.Overlays.Peek()
	if p, ok := top.View.(*FilePickerModal); !ok || p.Dir() != m.startDir {
		t.Errorf("top overlay = %#v, want picker in %s", top.View, m.startDir)
	}
}

func TestFilePicker_ReopensInLastDirectory(t *testing.T) {
	m, a, _ := newTestApp(t, &service.Fake{})
	other := t.TempDir()

	_, _ = a.Update(OpenFilePickerMsg{})
	top, _ := m.Overlays.Peek()
	top.View.(*FilePickerModal).picker.CurrentDirectory = other
	press(t, a, "esc")

	_, _ = a.Update(OpenFilePickerMsg{})
	top, _ = m.Overlays.Peek()
	if got := top.View.(*FilePickerModal).Dir(); got != other {
		t.Errorf("picker opened in %q, want %q", got, other)
	}
}

func TestFileChosen_ReadsImage(t *testing.T) {
	m, a, _ := newTestApp(t, &service.Fake{})
	path := writeImage(t, "logo.png")
	_, _ = a.Update(OpenFilePickerMsg{})
	_, cmd := a.Update(fileChosenMsg{Path: path})
	run(t, a, cmd)

	img := m.Controller.State().Image
	if img.Label != "logo.png" {
		t.Errorf("label = %q", img.Label)
	}
	if !strings.HasPrefix(img.Source, "data:image/png;base64,") {
		t.Errorf("source = %q", img.Source)
	}
	if m.Overlays.Len() != 0 {
		t.Errorf("overlays = %d, want picker closed", m.Overlays.Len())
	}
}

func TestFileChosen_RejectsNonImage(t *testing.T) {
	m, a, _ := newTestApp(t, &service.Fake{})
	_, cmd := a.Update(fileChosenMsg{Path: writeImage(t, "notes.txt")})
	run(t, a, cmd)

	if m.Mode() != ModeAlert {
		t.Fatalf("mode = %v, want Alert", m.Mode())
	}
	if !strings.Contains(a.View(), form.MsgUnsupportedType) {
		t.Errorf("view missing rejection:\n%s", a.View())
	}
	if got := m.Controller.State().Image.Source; got != form.DefaultPlaceholderImage {
		t.Errorf("image = %q, want placeholder", got)
	}
}

func TestFileChosen_MissingFileIsLogged(t *testing.T) {
	m, a, logs := newTestApp(t, &service.Fake{})
	_, cmd := a.Update(fileChosenMsg{Path: filepath.Join(t.TempDir(), "gone.png")})
	run(t, a, cmd)

	if m.Mode() != ModeForm {
		t.Errorf("mode = %v, want Form", m.Mode())
	}
	if !strings.Contains(logs.String(), "cannot inspect chosen file") {
		t.Errorf("logs = %s", logs.String())
	}
}

func TestCtrlC_QuitsFromAnyMode(t *testing.T) {
	m, a, _ := newTestApp(t, &service.Fake{})
	focus(t, a, FocusTagInput)
	press(t, a, "enter")
	if m.Mode() != ModeAlert {
		t.Fatalf("mode = %v, want Alert", m.Mode())
	}
	_, cmd := a.Update(keyMsg("ctrl+c"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestView_RendersForm(t *testing.T) {
	_, a, _ := newTestApp(t, &service.Fake{})
	_, _ = a.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	focus(t, a, FocusTagInput)
	typeText(t, a, "Jav")

	view := a.View()
	for _, want := range []string{
		"CodeConnect: publish a project",
		"Choose image",
		form.DefaultPlaceholderLabel,
		"Name",
		"Email",
		"Description",
		"no tags yet",
		"suggestions: Java",
		"Publish",
		"Discard",
		"ctrl+s",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestView_PendingRequestsShowSpinner(t *testing.T) {
	_, a, _ := newTestApp(t, &service.Fake{})
	fillValid(t, a)

	// Two publishes started and neither answered yet.
	_, _ = a.Update(form.SubmitClicked{})
	_, _ = a.Update(form.SubmitClicked{})
	if !strings.Contains(a.View(), "publishing… (2)") {
		t.Errorf("view missing pending publishes:\n%s", a.View())
	}
}
