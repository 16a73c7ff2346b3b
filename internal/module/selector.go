// Package module holds the console's module catalog and selector state.
package module

import (
	"slices"
	"strings"
	"sync"
)

// DefaultCatalog lists the effect modules offered when none are configured.
var DefaultCatalog = []string{"elasticbubbles", "texteffects", "rainbow", "swirl"}

// Catalog is the static, ordered list of selectable module names. It is
// configuration: the engine is not asked which modules exist.
type Catalog struct {
	names []string
}

// NewCatalog builds a catalog, trimming names and dropping blanks and repeats.
func NewCatalog(names []string) Catalog {
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" || slices.Contains(out, n) {
			continue
		}
		out = append(out, n)
	}
	return Catalog{names: out}
}

// Names returns the module names in catalog order.
func (c Catalog) Names() []string {
	return slices.Clone(c.names)
}

// Len returns the number of modules.
func (c Catalog) Len() int {
	return len(c.names)
}

// Index returns the position of name, or -1.
func (c Catalog) Index(name string) int {
	return slices.Index(c.names, name)
}

// Contains reports whether name is in the catalog.
func (c Catalog) Contains(name string) bool {
	return c.Index(name) >= 0
}

// Selector tracks which module the engine reports as active and which one
// the operator has highlighted. Reflect only updates what is shown; a load is
// requested by whoever acts on a successful Choose.
type Selector struct {
	catalog Catalog

	mu        sync.Mutex
	active    string
	highlight int
}

// NewSelector creates a selector over catalog.
func NewSelector(catalog Catalog) *Selector {
	return &Selector{catalog: catalog}
}

// Catalog returns the selector's catalog.
func (s *Selector) Catalog() Catalog {
	return s.catalog
}

// Active returns the module last reflected, or "" if none yet.
func (s *Selector) Active() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Highlighted returns the catalog index under the cursor.
func (s *Selector) Highlighted() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.highlight
}

// Reflect records name as the engine's active module and moves the highlight
// onto it when it is in the catalog.
func (s *Selector) Reflect(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = name
	if i := s.catalog.Index(name); i >= 0 {
		s.highlight = i
	}
}

// Move shifts the highlight by delta, wrapping around the catalog.
func (s *Selector) Move(delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.catalog.Len()
	if n == 0 {
		return
	}
	s.highlight = ((s.highlight+delta)%n + n) % n
}

// HighlightedName returns the module under the cursor.
func (s *Selector) HighlightedName() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.highlight < 0 || s.highlight >= len(s.catalog.names) {
		return "", false
	}
	return s.catalog.names[s.highlight], true
}

// Choose records an operator choice of name and reports whether it may be
// loaded. Names outside the catalog are refused.
func (s *Selector) Choose(name string) bool {
	i := s.catalog.Index(name)
	if i < 0 {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.highlight = i
	return true
}
