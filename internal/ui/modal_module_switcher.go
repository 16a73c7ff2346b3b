package ui

import (
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

// ModuleSwitcherModal picks a module from the catalog.
type ModuleSwitcherModal struct {
	list list.Model
}

type moduleItem struct {
	name   string
	active bool
}

func (m moduleItem) FilterValue() string { return m.name }
func (m moduleItem) Title() string       { return m.name }
func (m moduleItem) Description() string {
	if m.active {
		return "active"
	}
	return ""
}

// Ensure ModuleSwitcherModal implements View.
var _ View = (*ModuleSwitcherModal)(nil)

// NewModuleSwitcherModal lists names with the cursor on active, if present.
func NewModuleSwitcherModal(names []string, active string) *ModuleSwitcherModal {
	items := make([]list.Item, len(names))
	sel := 0
	for i, n := range names {
		items[i] = moduleItem{name: n, active: n == active}
		if n == active {
			sel = i
		}
	}
	l := list.New(items, NewCompactListDelegate(), 40, 14)
	l.Title = "Switch module"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()
	l.Styles.Title = Styles.Title
	l.Select(sel)
	return &ModuleSwitcherModal{list: l}
}

// Init implements View.
func (m *ModuleSwitcherModal) Init() tea.Cmd {
	return nil
}

// Update implements View.
func (m *ModuleSwitcherModal) Update(msg tea.Msg) (View, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok && !m.list.SettingFilter() {
		switch km.String() {
		case "esc":
			return m, func() tea.Msg { return DismissModalMsg{} }
		case "enter":
			if sel, ok := m.list.SelectedItem().(moduleItem); ok {
				return m, func() tea.Msg { return ChooseModuleMsg{Name: sel.name} }
			}
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View implements View.
func (m *ModuleSwitcherModal) View() string {
	help := "Enter: load  /: filter  Esc: cancel"
	return Styles.BoxCompact.Render(m.list.View() + "\n" + Styles.Hint.Render(help))
}
