package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"codeconnect/internal/form"
	"codeconnect/internal/service"
	"codeconnect/internal/upload"
)

// effectCmds turns effects into commands. Log effects are written
// immediately; everything else becomes a command whose result is fed back
// into the form as a message.
func (m *AppModel) effectCmds(effects []form.Effect) []tea.Cmd {
	var cmds []tea.Cmd
	for _, e := range effects {
		switch e := e.(type) {
		case form.Log:
			m.writeLog(e)
		case form.ReadFile:
			cmds = append(cmds, readFileCmd(m.ctx, m.reader, e))
		case form.LookupTag:
			cmds = append(cmds, lookupTagCmd(m.ctx, m.backend, e))
		case form.CheckEmail:
			cmds = append(cmds, checkEmailCmd(m.ctx, m.backend, e))
		case form.Publish:
			cmds = append(cmds, publishCmd(m.ctx, m.backend, e))
		}
	}
	return cmds
}

func (m *AppModel) writeLog(e form.Log) {
	var ev *zerolog.Event
	switch e.Level {
	case form.LevelError:
		ev = m.log.Error()
	case form.LevelInfo:
		ev = m.log.Info()
	default:
		ev = m.log.Debug()
	}
	if e.Err != nil {
		ev = ev.Err(e.Err)
	}
	ev.Msg(e.Message)
}

func readFileCmd(ctx context.Context, r upload.FileReader, e form.ReadFile) tea.Cmd {
	return func() tea.Msg {
		res, err := r.Read(ctx, e.File)
		return form.FileRead{Request: e.Request, Result: res, Err: err}
	}
}

func lookupTagCmd(ctx context.Context, b service.TagLookup, e form.LookupTag) tea.Cmd {
	return func() tea.Msg {
		found, err := b.TagExists(ctx, e.Text)
		return form.TagChecked{Request: e.Request, Text: e.Text, Found: found, Err: err}
	}
}

func checkEmailCmd(ctx context.Context, b service.EmailChecker, e form.CheckEmail) tea.Cmd {
	return func() tea.Msg {
		ok, err := b.EmailAvailable(ctx, e.Email)
		return form.EmailChecked{Request: e.Request, Email: e.Email, Available: ok, Err: err}
	}
}

func publishCmd(ctx context.Context, b service.Publisher, e form.Publish) tea.Cmd {
	return func() tea.Msg {
		receipt, err := b.Publish(ctx, e.Project)
		return form.Published{Request: e.Request, Message: receipt.Message, Err: err}
	}
}

// statFileCmd inspects a chosen path and reports it as a form selection.
func statFileCmd(path string) tea.Cmd {
	return func() tea.Msg {
		f, err := upload.Stat(path)
		if err != nil {
			return fileStatFailedMsg{Path: path, Err: err}
		}
		return form.FileSelected{File: &f}
	}
}
