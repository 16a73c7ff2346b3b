package ui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"
)

// Theme colors used throughout the UI
const (
	ColorAccent    = "86"  // cyan: titles, active module
	ColorHighlight = "205" // magenta: cursor, selection, borders
	ColorDanger    = "196" // red: errors
	ColorMuted     = "241" // gray: hints, unsupported controls
	ColorText      = "252" // light gray: values
	ColorDim       = "243" // darker gray: range track
	ColorWarning   = "208" // orange: pending writes
)

// Styles contains shared style definitions used across views and modals.
var Styles = struct {
	Title        lipgloss.Style
	TitleWarning lipgloss.Style
	Box          lipgloss.Style // modal box
	BoxDanger    lipgloss.Style // confirmation box
	BoxCompact lipgloss.Style // modal box for lists
	Panel      lipgloss.Style // unfocused region
	PanelFocus lipgloss.Style // focused region

	Selected lipgloss.Style
	Active   lipgloss.Style // the module the engine runs
	Muted    lipgloss.Style
	Normal   lipgloss.Style
	Hint     lipgloss.Style
	Empty    lipgloss.Style
	Status   lipgloss.Style
	Error    lipgloss.Style
	Pending  lipgloss.Style

	RangeFill  lipgloss.Style
	RangeTrack lipgloss.Style
	Action     lipgloss.Style
}{
	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorAccent)),
	TitleWarning: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorDanger)),
	BoxDanger: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorDanger)).
		Padding(1, 2).
		Margin(1),
	Box: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorHighlight)).
		Padding(1, 2).
		Margin(1),
	BoxCompact: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorHighlight)).
		Padding(0, 1).
		Margin(1),
	Panel: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorMuted)).
		Padding(0, 1),
	PanelFocus: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorHighlight)).
		Padding(0, 1),
	Selected: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHighlight)).
		Bold(true),
	Active: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorAccent)).
		Bold(true),
	Muted: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)),
	Normal: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorText)),
	Hint: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)),
	Empty: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)).
		Italic(true),
	Status: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorAccent)),
	Error: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorDanger)),
	Pending: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorWarning)),
	RangeFill: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHighlight)),
	RangeTrack: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorDim)),
	Action: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorAccent)).
		Bold(true),
}

// NewCompactListDelegate returns a list delegate with zero spacing and the
// shared selection styles.
func NewCompactListDelegate() list.DefaultDelegate {
	d := list.NewDefaultDelegate()
	d.SetSpacing(0)
	d.ShowDescription = true
	d.Styles.SelectedTitle = Styles.Selected
	d.Styles.SelectedDesc = Styles.Selected
	d.Styles.NormalTitle = Styles.Normal
	d.Styles.NormalDesc = Styles.Muted
	return d
}
