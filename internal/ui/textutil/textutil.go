// Package textutil measures and fits text by terminal columns.
package textutil

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Ellipsis marks truncated text.
const Ellipsis = "…"

// Width returns the columns s occupies, ignoring ANSI styling.
func Width(s string) int {
	return lipgloss.Width(s)
}

// Truncate shortens plain text s to at most maxWidth columns, ending in an
// ellipsis when anything was cut.
func Truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	return runewidth.Truncate(s, maxWidth, Ellipsis)
}

// PadRight pads s with spaces to width columns. Styled input is measured
// without its escape codes.
func PadRight(s string, width int) string {
	if w := Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
