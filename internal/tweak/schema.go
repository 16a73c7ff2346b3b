package tweak

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ControlSelector matches the rendered controls inside a schema fragment.
const ControlSelector = ".config"

// Schema is the ordered set of controls for one module. A Schema is never
// mutated after construction; updates produce a new value.
type Schema struct {
	Module   string
	Version  uint64 // stamped by Panel.Replace; 0 until displayed
	Controls []Control

	index map[string]int
}

// NewSchema builds a schema from controls. Controls sharing a name after the
// first are dropped so that every name addresses exactly one control.
func NewSchema(module string, controls []Control) *Schema {
	s := &Schema{
		Module:   module,
		Controls: make([]Control, 0, len(controls)),
		index:    make(map[string]int, len(controls)),
	}
	for _, c := range controls {
		if c.Name == "" {
			continue
		}
		if _, dup := s.index[c.Name]; dup {
			continue
		}
		s.index[c.Name] = len(s.Controls)
		s.Controls = append(s.Controls, c)
	}
	return s
}

// Lookup returns the control with the given name.
func (s *Schema) Lookup(name string) (Control, bool) {
	if s == nil {
		return Control{}, false
	}
	i, ok := s.index[name]
	if !ok {
		return Control{}, false
	}
	return s.Controls[i], true
}

// Len returns the number of controls.
func (s *Schema) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Controls)
}

// WithValues returns a copy of s whose matching controls carry the given
// values, plus the names that were applied. Names with no matching control,
// and values a supported control cannot represent, are left out. Unsupported
// controls take the raw value; actions never take one. The copy keeps
// s.Version.
func (s *Schema) WithValues(values map[string]string) (*Schema, []string) {
	next := &Schema{
		Module:   s.Module,
		Version:  s.Version,
		Controls: make([]Control, len(s.Controls)),
		index:    s.index,
	}
	copy(next.Controls, s.Controls)
	var applied []string
	for i, c := range next.Controls {
		v, ok := values[c.Name]
		if !ok || c.Kind == KindAction {
			continue
		}
		if nv, err := c.Normalize(v); err == nil {
			next.Controls[i].Value = nv
		} else if c.Kind == KindUnknown || c.Kind == KindSelect {
			// The engine may hold an option the markup does not list.
			next.Controls[i].Value = v
		} else {
			continue
		}
		applied = append(applied, c.Name)
	}
	return next, applied
}

// Parse reads a server-rendered schema fragment. The owning module is taken
// from the nearest data-module attribute around the first control, falling
// back to the id of the fragment's first element.
func Parse(r io.Reader) (*Schema, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse schema markup: %w", err)
	}

	sels := doc.Find(ControlSelector)
	module := ""
	if first := sels.First(); first.Length() > 0 {
		if m, ok := first.Closest("[data-module]").Attr("data-module"); ok {
			module = strings.TrimSpace(m)
		}
	}
	if module == "" {
		module = strings.TrimSpace(doc.Find("body").Children().First().AttrOr("id", ""))
	}

	controls := make([]Control, 0, sels.Length())
	sels.Each(func(_ int, sel *goquery.Selection) {
		if c, ok := parseControl(doc, sel); ok {
			controls = append(controls, c)
		}
	})
	return NewSchema(module, controls), nil
}

func parseControl(doc *goquery.Document, sel *goquery.Selection) (Control, bool) {
	name := strings.TrimSpace(sel.AttrOr("id", ""))
	if name == "" {
		return Control{}, false
	}
	w := Widget{
		Tag:  strings.ToLower(goquery.NodeName(sel)),
		Type: strings.ToLower(strings.TrimSpace(sel.AttrOr("type", ""))),
	}
	c := Control{
		Name:   name,
		Kind:   Classify(w),
		Widget: w,
		Label:  labelFor(doc, sel, name),
	}

	switch c.Kind {
	case KindRange:
		c.Min = floatAttr(sel, "min", 0)
		c.Max = floatAttr(sel, "max", 100)
		c.Step = floatAttr(sel, "step", 1)
		if c.Step <= 0 {
			c.Step = 1
		}
		def := FormatNumber(c.Min + (c.Max-c.Min)/2)
		c.Value = normalizeOr(c, sel.AttrOr("value", def), def)
	case KindSelect:
		sel.Find("option").Each(func(_ int, opt *goquery.Selection) {
			v, ok := opt.Attr("value")
			if !ok {
				v = strings.TrimSpace(opt.Text())
			}
			c.Options = append(c.Options, v)
			if _, selected := opt.Attr("selected"); selected && c.Value == "" {
				c.Value = v
			}
		})
		if c.Value == "" && len(c.Options) > 0 {
			c.Value = c.Options[0]
		}
	case KindText:
		c.Value = sel.AttrOr("value", "")
	case KindColor:
		c.Value = normalizeOr(c, sel.AttrOr("value", "#000000"), "#000000")
	case KindAction:
	default:
		c.Value = sel.AttrOr("value", "")
	}
	return c, true
}

func labelFor(doc *goquery.Document, sel *goquery.Selection, name string) string {
	if l := strings.TrimSpace(doc.Find(`label[for="` + name + `"]`).First().Text()); l != "" {
		return l
	}
	if l := strings.TrimSpace(sel.AttrOr("data-label", "")); l != "" {
		return l
	}
	if goquery.NodeName(sel) == "button" {
		if l := strings.TrimSpace(sel.Text()); l != "" {
			return l
		}
	}
	if l := strings.TrimSpace(sel.AttrOr("title", "")); l != "" {
		return l
	}
	return name
}

func floatAttr(sel *goquery.Selection, attr string, def float64) float64 {
	v, ok := sel.Attr(attr)
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return def
	}
	return f
}

func normalizeOr(c Control, v, def string) string {
	if nv, err := c.Normalize(v); err == nil {
		return nv
	}
	return def
}
