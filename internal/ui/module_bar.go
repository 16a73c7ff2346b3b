package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"tweakdeck/internal/module"
)

// ModuleBarView shows the catalog in one line with the engine's active
// module marked. When focused, h/l move the highlight and enter picks it.
type ModuleBarView struct {
	Selector *module.Selector
	Focused  bool
}

// Ensure ModuleBarView implements View.
var _ View = (*ModuleBarView)(nil)

// NewModuleBarView creates a bar over sel.
func NewModuleBarView(sel *module.Selector) *ModuleBarView {
	return &ModuleBarView{Selector: sel}
}

// Init implements View.
func (v *ModuleBarView) Init() tea.Cmd {
	return nil
}

// Update implements View.
func (v *ModuleBarView) Update(msg tea.Msg) (View, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok || v.Selector == nil {
		return v, nil
	}
	switch km.String() {
	case "h", "left", "k", "up":
		v.Selector.Move(-1)
	case "l", "right", "j", "down":
		v.Selector.Move(1)
	case "enter":
		if name, ok := v.Selector.HighlightedName(); ok {
			return v, func() tea.Msg { return ChooseModuleMsg{Name: name} }
		}
	}
	return v, nil
}

// View implements View.
func (v *ModuleBarView) View() string {
	if v.Selector == nil || v.Selector.Catalog().Len() == 0 {
		return Styles.Empty.Render("No modules configured")
	}
	active := v.Selector.Active()
	highlight := v.Selector.Highlighted()

	parts := make([]string, 0, v.Selector.Catalog().Len())
	for i, name := range v.Selector.Catalog().Names() {
		label := name
		if name == active {
			label = "● " + name
		}
		switch {
		case v.Focused && i == highlight:
			label = Styles.Selected.Render("[" + label + "]")
		case name == active:
			label = Styles.Active.Render(label)
		default:
			label = Styles.Muted.Render(label)
		}
		parts = append(parts, label)
	}
	line := strings.Join(parts, "  ")
	if active != "" && !v.Selector.Catalog().Contains(active) {
		line += "  " + Styles.Pending.Render("● "+active+" (not in catalog)")
	}
	return line
}
