package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"tweakdeck/internal/module"
	"tweakdeck/internal/tweak"
)

func printTweaks(w io.Writer, s *tweak.Schema, bs *tweak.Bindings) {
	fmt.Fprintf(w, "module: %s\n", s.Module)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("TWEAK", "LABEL", "KIND", "VALUE", "ACCEPTS")
	for _, c := range s.Controls {
		kind := c.Kind.String()
		if _, ok := bs.Handler(c.Name); !ok {
			kind = "unsupported (" + c.Widget.String() + ")"
		}
		t.Row(c.Name, c.Label, kind, c.Value, accepts(c))
	}
	fmt.Fprintln(w, t.String())
}

// accepts describes the values a control takes.
func accepts(c tweak.Control) string {
	switch c.Kind {
	case tweak.KindRange:
		return fmt.Sprintf("%s..%s step %s",
			tweak.FormatNumber(c.Min), tweak.FormatNumber(c.Max), tweak.FormatNumber(c.Step))
	case tweak.KindSelect:
		return strings.Join(c.Options, " | ")
	case tweak.KindColor:
		return "#rrggbb"
	case tweak.KindAction:
		return "press"
	case tweak.KindText:
		return "text"
	default:
		return ""
	}
}

func printModules(w io.Writer, sel *module.Selector) {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("", "MODULE")
	active := sel.Active()
	for _, name := range sel.Catalog().Names() {
		mark := ""
		if name == active {
			mark = "●"
		}
		t.Row(mark, name)
	}
	if active != "" && !sel.Catalog().Contains(active) {
		t.Row("●", active+" (not in catalog)")
	}
	fmt.Fprintln(w, t.String())
}
