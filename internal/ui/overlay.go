package ui

import tea "github.com/charmbracelet/bubbletea"

// Overlay is a modal view drawn over the form. Mode is the AppMode that
// applies while it is on top.
type Overlay struct {
	View View
	Mode AppMode
}

// OverlayStack manages a stack of overlays (topmost receives input first).
type OverlayStack struct {
	Stack []Overlay
}

// Push adds an overlay to the top of the stack.
func (s *OverlayStack) Push(o Overlay) {
	s.Stack = append(s.Stack, o)
}

// Peek returns the top overlay without removing it.
func (s *OverlayStack) Peek() (Overlay, bool) {
	if len(s.Stack) == 0 {
		return Overlay{}, false
	}
	return s.Stack[len(s.Stack)-1], true
}

// Len returns the number of overlays in the stack.
func (s *OverlayStack) Len() int {
	return len(s.Stack)
}

// Mode returns the mode of the top overlay, or ModeForm when empty.
func (s *OverlayStack) Mode() AppMode {
	if top, ok := s.Peek(); ok {
		return top.Mode
	}
	return ModeForm
}

// RemoveMode drops every overlay of the given mode, keeping the order of
// the rest. Reports whether anything was removed.
func (s *OverlayStack) RemoveMode(mode AppMode) bool {
	kept := s.Stack[:0]
	for _, o := range s.Stack {
		if o.Mode != mode {
			kept = append(kept, o)
		}
	}
	removed := len(kept) != len(s.Stack)
	s.Stack = kept
	return removed
}

// UpdateTop passes msg to the top overlay's Update and replaces its View with the result.
// Returns the cmd from the overlay's Update. Caller must run the cmd.
func (s *OverlayStack) UpdateTop(msg tea.Msg) (tea.Cmd, bool) {
	if len(s.Stack) == 0 {
		return nil, false
	}
	top := &s.Stack[len(s.Stack)-1]
	newView, cmd := top.View.Update(msg)
	top.View = newView
	return cmd, true
}

// Broadcast passes a non-input msg to every overlay, bottom first, so
// background work such as a directory read reaches an overlay that is not
// on top.
func (s *OverlayStack) Broadcast(msg tea.Msg) []tea.Cmd {
	var cmds []tea.Cmd
	for i := range s.Stack {
		v, cmd := s.Stack[i].View.Update(msg)
		s.Stack[i].View = v
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return cmds
}
