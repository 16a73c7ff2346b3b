package ui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
)

// RenderKeybindHelp renders the transient hint bar shown after SPC. With a
// partial sequence pending (e.g. "SPC m") it shows the next level.
func RenderKeybindHelp(keyHandler *KeyHandler, mode AppMode) string {
	if keyHandler == nil || keyHandler.Registry == nil {
		return ""
	}
	km := NewKeyMap(keyHandler.Registry, keyHandler, mode)
	if len(km.ShortHelp()) == 0 {
		return ""
	}

	h := help.New()
	h.Styles.ShortKey = lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHighlight)).
		Bold(true)
	h.Styles.ShortDesc = Styles.Muted
	h.Styles.ShortSeparator = Styles.Muted

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorAccent)).
		Padding(0, 1).
		MarginTop(1)

	prefix := keyHandler.pending()
	if prefix == "" {
		prefix = leaderSeq
	}
	return boxStyle.Render(Styles.Muted.Render(prefix) + " " + h.View(km))
}
