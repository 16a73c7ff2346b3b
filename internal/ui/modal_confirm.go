package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// ConfirmModal asks before an action that cannot be undone from the console.
// Enter or y confirms; Esc cancels.
type ConfirmModal struct {
	Title     string
	Label     string
	Details   string
	OnConfirm func() tea.Msg
}

// Ensure ConfirmModal implements View.
var _ View = (*ConfirmModal)(nil)

// NewConfirmModal creates a confirmation modal.
func NewConfirmModal(title, label string, onConfirm func() tea.Msg) *ConfirmModal {
	return &ConfirmModal{Title: title, Label: label, OnConfirm: onConfirm}
}

// WithDetails adds a warning line.
func (m *ConfirmModal) WithDetails(details string) *ConfirmModal {
	m.Details = details
	return m
}

// NewReloadConfirmModal confirms an engine reload, which resets every tweak
// of every module on the engine.
func NewReloadConfirmModal(engineURL string) *ConfirmModal {
	label := "Engine"
	if engineURL != "" {
		label += ": " + engineURL
	}
	return NewConfirmModal("Reload engine?", label, func() tea.Msg { return ReloadMsg{} }).
		WithDetails("All tweaks return to the engine's saved state")
}

// Init implements View.
func (m *ConfirmModal) Init() tea.Cmd {
	return nil
}

// Update implements View.
func (m *ConfirmModal) Update(msg tea.Msg) (View, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "esc", "n":
			return m, func() tea.Msg { return DismissModalMsg{} }
		case "enter", "y":
			if m.OnConfirm != nil {
				return m, m.OnConfirm
			}
		}
	}
	return m, nil
}

// View implements View.
func (m *ConfirmModal) View() string {
	content := Styles.TitleWarning.Render(m.Title) + "\n\n"
	content += Styles.Normal.Render(m.Label)
	if m.Details != "" {
		content += "\n" + Styles.Pending.Render(m.Details)
	}
	content += "\n\n" + Styles.Hint.Render("y/Enter: confirm  Esc: cancel")
	return Styles.BoxDanger.Render(content)
}
