package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// KeybindRegistry maps keys to commands.
// Keys use Bubble Tea's notation: "ctrl+s", "tab", "shift+tab", "enter".
type KeybindRegistry struct {
	bindings     map[string]tea.Cmd
	descriptions map[string]string
	order        []string
	modeFilter   map[string][]AppMode // nil/empty = applies to all modes
}

// NewKeybindRegistry creates an empty registry.
func NewKeybindRegistry() *KeybindRegistry {
	return &KeybindRegistry{
		bindings:     make(map[string]tea.Cmd),
		descriptions: make(map[string]string),
		modeFilter:   make(map[string][]AppMode),
	}
}

// Bind registers a key to a command for every mode.
// Overwrites any existing binding for the key.
func (r *KeybindRegistry) Bind(k string, cmd tea.Cmd) {
	r.BindWithDescForMode(k, cmd, "", nil)
}

// BindWithDesc registers a key with a description for the help bar.
// The binding applies to all AppModes.
func (r *KeybindRegistry) BindWithDesc(k string, cmd tea.Cmd, desc string) {
	r.BindWithDescForMode(k, cmd, desc, nil)
}

// BindWithDescForMode registers a key with a description and mode filter.
// If modes is nil or empty, the binding applies to all modes.
func (r *KeybindRegistry) BindWithDescForMode(k string, cmd tea.Cmd, desc string, modes []AppMode) {
	n := normalizeKey(k)
	if _, ok := r.bindings[n]; !ok {
		r.order = append(r.order, n)
	}
	r.bindings[n] = cmd
	if desc != "" {
		r.descriptions[n] = desc
	}
	if len(modes) > 0 {
		r.modeFilter[n] = modes
	} else {
		delete(r.modeFilter, n)
	}
}

// Lookup returns the command bound to k in mode, or nil.
func (r *KeybindRegistry) Lookup(k string, mode AppMode) tea.Cmd {
	n := normalizeKey(k)
	if !r.appliesTo(n, mode) {
		return nil
	}
	return r.bindings[n]
}

// Bindings returns the described bindings active in mode, in registration
// order, for the help bar.
func (r *KeybindRegistry) Bindings(mode AppMode) []key.Binding {
	var out []key.Binding
	for _, k := range r.order {
		desc, ok := r.descriptions[k]
		if !ok || r.bindings[k] == nil || !r.appliesTo(k, mode) {
			continue
		}
		out = append(out, key.NewBinding(key.WithKeys(k), key.WithHelp(k, desc)))
	}
	return out
}

func (r *KeybindRegistry) appliesTo(k string, mode AppMode) bool {
	modes, ok := r.modeFilter[k]
	if !ok {
		return true
	}
	for _, m := range modes {
		if m == mode {
			return true
		}
	}
	return false
}

func normalizeKey(k string) string {
	return strings.ToLower(strings.TrimSpace(k))
}

// KeyHandler resolves key presses against a registry.
type KeyHandler struct {
	Registry *KeybindRegistry
}

// NewKeyHandler creates a handler over reg.
func NewKeyHandler(reg *KeybindRegistry) *KeyHandler {
	return &KeyHandler{Registry: reg}
}

// Handle returns the bound command for msg in mode. The bool is false when
// the key is not bound and should fall through to the focused widget.
func (h *KeyHandler) Handle(msg tea.KeyMsg, mode AppMode) (bool, tea.Cmd) {
	if h == nil || h.Registry == nil {
		return false, nil
	}
	cmd := h.Registry.Lookup(msg.String(), mode)
	if cmd == nil {
		return false, nil
	}
	return true, cmd
}
