package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tweakdeck/internal/tweak"
	"tweakdeck/internal/ui/textutil"
)

const (
	rangeBarWidth = 16
	maxLabelWidth = 24
	maxTextWidth  = 40
)

// TweakPanelView lists the displayed schema's controls, one row each.
type TweakPanelView struct {
	Schema  *tweak.Schema
	Cursor  int
	Focused bool

	bound map[string]bool // controls with a live handler
}

// Ensure TweakPanelView implements View.
var _ View = (*TweakPanelView)(nil)

// NewTweakPanelView creates an empty panel.
func NewTweakPanelView() *TweakPanelView {
	return &TweakPanelView{Focused: true}
}

// SetSchema shows s. The cursor stays on the same control while the module
// is unchanged and returns to the top when a different module is shown.
func (p *TweakPanelView) SetSchema(s *tweak.Schema, bs *tweak.Bindings) {
	prev, hadPrev := p.Selected()
	sameModule := p.Schema != nil && s != nil && p.Schema.Module == s.Module
	p.Schema = s
	p.bound = make(map[string]bool, bs.Len())
	for _, n := range bs.Names() {
		p.bound[n] = true
	}

	p.Cursor = 0
	if sameModule && hadPrev && s != nil {
		for i, c := range s.Controls {
			if c.Name == prev.Name {
				p.Cursor = i
				break
			}
		}
	}
}

// Selected returns the control under the cursor.
func (p *TweakPanelView) Selected() (tweak.Control, bool) {
	if p.Schema == nil || p.Cursor < 0 || p.Cursor >= len(p.Schema.Controls) {
		return tweak.Control{}, false
	}
	return p.Schema.Controls[p.Cursor], true
}

// Bound reports whether name has a live handler.
func (p *TweakPanelView) Bound(name string) bool {
	return p.bound[name]
}

// Init implements View.
func (p *TweakPanelView) Init() tea.Cmd {
	return nil
}

// Update implements View.
func (p *TweakPanelView) Update(msg tea.Msg) (View, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}
	n := p.Schema.Len()
	switch km.String() {
	case "j", "down":
		if p.Cursor < n-1 {
			p.Cursor++
		}
	case "k", "up":
		if p.Cursor > 0 {
			p.Cursor--
		}
	case "g":
		p.Cursor = 0
	case "G":
		if n > 0 {
			p.Cursor = n - 1
		}
	case "h", "left":
		return p, p.nudge(-1)
	case "l", "right":
		return p, p.nudge(1)
	case "enter":
		if c, ok := p.Selected(); ok {
			name := c.Name
			return p, func() tea.Msg { return ActivateTweakMsg{Name: name} }
		}
	}
	return p, nil
}

func (p *TweakPanelView) nudge(dir int) tea.Cmd {
	c, ok := p.Selected()
	if !ok || (c.Kind != tweak.KindRange && c.Kind != tweak.KindSelect) {
		return nil
	}
	name := c.Name
	return func() tea.Msg { return NudgeTweakMsg{Name: name, Dir: dir} }
}

// View implements View.
func (p *TweakPanelView) View() string {
	if p.Schema == nil {
		return Styles.Empty.Render("No schema loaded")
	}
	if p.Schema.Len() == 0 {
		return Styles.Empty.Render(fmt.Sprintf("%s exposes no tweaks", p.Schema.Module))
	}

	labelWidth := 0
	for _, c := range p.Schema.Controls {
		labelWidth = max(labelWidth, textutil.Width(c.Label))
	}
	labelWidth = min(labelWidth, maxLabelWidth)

	var b strings.Builder
	for i, c := range p.Schema.Controls {
		c.Label = textutil.Truncate(c.Label, maxLabelWidth)
		cursor := "  "
		label := Styles.Normal.Render(textutil.PadRight(c.Label, labelWidth))
		if i == p.Cursor {
			cursor = "▸ "
			if p.Focused {
				cursor = Styles.Selected.Render(cursor)
				label = Styles.Selected.Render(textutil.PadRight(c.Label, labelWidth))
			}
		}
		b.WriteString(cursor + label + "  " + p.renderValue(c))
		if i < len(p.Schema.Controls)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (p *TweakPanelView) renderValue(c tweak.Control) string {
	if !p.bound[c.Name] {
		return Styles.Muted.Render(fmt.Sprintf("unsupported (%s) %s", c.Widget, c.Value))
	}
	switch c.Kind {
	case tweak.KindRange:
		filled := int(c.Fraction()*rangeBarWidth + 0.5)
		bar := Styles.RangeFill.Render(strings.Repeat("■", filled)) +
			Styles.RangeTrack.Render(strings.Repeat("□", rangeBarWidth-filled))
		bounds := Styles.Hint.Render(fmt.Sprintf("%s..%s", tweak.FormatNumber(c.Min), tweak.FormatNumber(c.Max)))
		return bar + " " + Styles.Normal.Render(c.Value) + "  " + bounds
	case tweak.KindSelect:
		return Styles.Hint.Render("‹ ") + Styles.Normal.Render(c.Value) + Styles.Hint.Render(" ›")
	case tweak.KindText:
		return Styles.Normal.Render(fmt.Sprintf("%q", textutil.Truncate(c.Value, maxTextWidth)))
	case tweak.KindColor:
		swatch := lipgloss.NewStyle().Background(lipgloss.Color(c.Value)).Render("    ")
		return swatch + " " + Styles.Normal.Render(c.Value)
	case tweak.KindAction:
		return Styles.Action.Render("[ press ]")
	}
	return Styles.Muted.Render(c.Value)
}

