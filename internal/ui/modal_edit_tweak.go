package ui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"tweakdeck/internal/tweak"
)

// EditTweakModal enters a value for one control.
type EditTweakModal struct {
	Control tweak.Control
	input   textinput.Model
}

// Ensure EditTweakModal implements View.
var _ View = (*EditTweakModal)(nil)

// NewEditTweakModal creates an editor prefilled with c's value.
func NewEditTweakModal(c tweak.Control) *EditTweakModal {
	ti := textinput.New()
	ti.SetValue(c.Value)
	ti.CursorEnd()
	ti.Width = 40
	switch c.Kind {
	case tweak.KindColor:
		ti.Placeholder = "#rrggbb"
		ti.CharLimit = 7
	case tweak.KindRange:
		ti.Placeholder = tweak.FormatNumber(c.Min) + ".." + tweak.FormatNumber(c.Max)
	case tweak.KindSelect:
		ti.ShowSuggestions = true
		ti.SetSuggestions(c.Options)
	}
	ti.Focus()
	return &EditTweakModal{Control: c, input: ti}
}

// Init implements View.
func (m *EditTweakModal) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements View.
func (m *EditTweakModal) Update(msg tea.Msg) (View, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "esc":
			return m, func() tea.Msg { return DismissModalMsg{} }
		case "enter":
			name, value := m.Control.Name, m.input.Value()
			return m, func() tea.Msg { return EditTweakMsg{Name: name, Value: value} }
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View implements View.
func (m *EditTweakModal) View() string {
	content := Styles.Title.Render(m.Control.Label) + " " + Styles.Hint.Render(m.Control.Kind.String()) + "\n\n"
	content += m.input.View() + "\n\n"
	content += Styles.Hint.Render("Enter: send  Esc: cancel")
	return Styles.Box.Render(content)
}
