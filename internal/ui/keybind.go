package ui

import (
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// leaderSeq is the canonical name of the leader key in a sequence.
const leaderSeq = "SPC"

// binding is one registered key sequence.
type binding struct {
	cmd   tea.Cmd
	desc  string
	modes []AppMode // empty applies everywhere
}

func (b binding) appliesTo(mode AppMode) bool {
	return len(b.modes) == 0 || slices.Contains(b.modes, mode)
}

// KeybindRegistry maps key sequences to commands.
// Sequences use spacemacs-style notation: "SPC u" is space then u.
// Single keys: "q", "tab", "ctrl+c".
type KeybindRegistry struct {
	bindings map[string]binding
}

// NewKeybindRegistry creates an empty registry.
func NewKeybindRegistry() *KeybindRegistry {
	return &KeybindRegistry{bindings: make(map[string]binding)}
}

// Bind registers a key sequence to a command, replacing any existing one.
func (r *KeybindRegistry) Bind(seq string, cmd tea.Cmd) {
	r.BindWithDescForMode(seq, cmd, "", nil)
}

// BindWithDesc registers a key sequence with a help description. The binding
// applies to all AppModes.
func (r *KeybindRegistry) BindWithDesc(seq string, cmd tea.Cmd, desc string) {
	r.BindWithDescForMode(seq, cmd, desc, nil)
}

// BindWithDescForMode registers a key sequence with a description and mode
// filter. With no modes the binding applies everywhere; otherwise its hint
// only shows while the focused region is one of modes.
func (r *KeybindRegistry) BindWithDescForMode(seq string, cmd tea.Cmd, desc string, modes []AppMode) {
	r.bindings[normalizeSeq(seq)] = binding{cmd: cmd, desc: desc, modes: modes}
}

// Lookup returns the command for a key sequence, or nil if not bound.
func (r *KeybindRegistry) Lookup(seq string) tea.Cmd {
	return r.bindings[normalizeSeq(seq)].cmd
}

// HasPrefix reports whether a longer binding continues seq.
func (r *KeybindRegistry) HasPrefix(seq string) bool {
	prefix := normalizeSeq(seq) + " "
	for s := range r.bindings {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}

// LeaderHints returns the keys that may follow currentSeq (the leader when
// empty) in mode, each with its description. Keys that open a further level
// show as "key…".
func (r *KeybindRegistry) LeaderHints(currentSeq string, mode AppMode) map[string]string {
	parent := leaderSeq
	if currentSeq != "" {
		parent = normalizeSeq(currentSeq)
	}
	out := make(map[string]string)
	for seq, b := range r.bindings {
		rest, ok := strings.CutPrefix(seq, parent+" ")
		if !ok || b.cmd == nil || !b.appliesTo(mode) {
			continue
		}
		next, _, _ := strings.Cut(rest, " ")
		switch {
		case r.HasPrefix(parent + " " + next):
			out[next] = next + "…"
		case b.desc != "":
			out[next] = b.desc
		default:
			out[next] = seq
		}
	}
	return out
}

// leaderBindings turns LeaderHints into key bindings sorted by key, plus esc.
func (r *KeybindRegistry) leaderBindings(currentSeq string, mode AppMode) []key.Binding {
	hints := r.LeaderHints(currentSeq, mode)
	if len(hints) == 0 {
		return nil
	}
	out := make([]key.Binding, 0, len(hints)+1)
	for _, k := range slices.Sorted(maps.Keys(hints)) {
		out = append(out, key.NewBinding(key.WithKeys(k), key.WithHelp(k, hints[k])))
	}
	return append(out, key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")))
}

// normalizeSeq converts tea key strings to the canonical sequence form.
func normalizeSeq(seq string) string {
	parts := strings.Fields(seq)
	for i, p := range parts {
		parts[i] = keyToSeqPart(p)
	}
	return strings.Join(parts, " ")
}

// keyToSeqPart converts a tea key string to a sequence part. Bubble Tea
// reports space as " ".
func keyToSeqPart(s string) string {
	if s == " " || s == "space" {
		return leaderSeq
	}
	return s
}

// KeyHandler tracks leader state and dispatches keys to the registry.
type KeyHandler struct {
	Registry      *KeybindRegistry
	LeaderWaiting bool     // a leader sequence is being typed
	Buffer        []string // sequence typed so far, starting with SPC
}

// NewKeyHandler creates a handler with SPC as leader.
func NewKeyHandler(reg *KeybindRegistry) *KeyHandler {
	return &KeyHandler{Registry: reg}
}

// Handle processes a key. consumed means the keybind system took it and views
// should not see it; cmd is what to run, if anything.
func (h *KeyHandler) Handle(msg tea.KeyMsg) (consumed bool, cmd tea.Cmd) {
	part := keyToSeqPart(msg.String())

	switch {
	case part == "esc":
		if !h.LeaderWaiting {
			return false, nil
		}
		h.reset()
		return true, nil

	case part == leaderSeq && !h.LeaderWaiting:
		h.LeaderWaiting = true
		h.Buffer = []string{leaderSeq}
		return true, nil

	case h.LeaderWaiting:
		h.Buffer = append(h.Buffer, part)
		seq := strings.Join(h.Buffer, " ")
		if c := h.Registry.Lookup(seq); c != nil {
			h.reset()
			return true, c
		}
		if !h.Registry.HasPrefix(seq) {
			h.reset()
		}
		return true, nil
	}

	if c := h.Registry.Lookup(part); c != nil {
		return true, c
	}
	return false, nil
}

func (h *KeyHandler) reset() {
	h.LeaderWaiting = false
	h.Buffer = nil
}

// pending returns the leader sequence typed so far, or "".
func (h *KeyHandler) pending() string {
	if h == nil {
		return ""
	}
	return strings.Join(h.Buffer, " ")
}

// KeyMap implements help.KeyMap over the leader hints for the current mode
// and pending sequence.
type KeyMap struct {
	registry   *KeybindRegistry
	keyHandler *KeyHandler
	mode       AppMode
}

// NewKeyMap creates a KeyMap for registry as seen from mode.
func NewKeyMap(registry *KeybindRegistry, keyHandler *KeyHandler, mode AppMode) help.KeyMap {
	return &KeyMap{registry: registry, keyHandler: keyHandler, mode: mode}
}

// ShortHelp implements help.KeyMap.
func (km *KeyMap) ShortHelp() []key.Binding {
	if km.registry == nil {
		return nil
	}
	return km.registry.leaderBindings(km.keyHandler.pending(), km.mode)
}

// FullHelp implements help.KeyMap with a single column.
func (km *KeyMap) FullHelp() [][]key.Binding {
	if short := km.ShortHelp(); len(short) > 0 {
		return [][]key.Binding{short}
	}
	return nil
}
