package ui

import tea "github.com/charmbracelet/bubbletea"

// Overlay is a modal view with a dismiss key.
type Overlay struct {
	View    View
	Dismiss string // key that closes it, e.g. "esc"
}

// IsDismissKey reports whether key closes this overlay.
func (o *Overlay) IsDismissKey(key string) bool {
	return key == o.Dismiss
}

// OverlayStack holds open overlays; the top one receives input first.
type OverlayStack struct {
	Stack []Overlay
}

// Push opens o on top.
func (s *OverlayStack) Push(o Overlay) {
	s.Stack = append(s.Stack, o)
}

// Pop closes and returns the top overlay.
func (s *OverlayStack) Pop() (Overlay, bool) {
	if len(s.Stack) == 0 {
		return Overlay{}, false
	}
	top := s.Stack[len(s.Stack)-1]
	s.Stack = s.Stack[:len(s.Stack)-1]
	return top, true
}

// Peek returns the top overlay without removing it.
func (s *OverlayStack) Peek() (Overlay, bool) {
	if len(s.Stack) == 0 {
		return Overlay{}, false
	}
	return s.Stack[len(s.Stack)-1], true
}

// Len returns the number of open overlays.
func (s *OverlayStack) Len() int {
	return len(s.Stack)
}

// RemoveWhere closes every overlay for which drop returns true and reports
// how many were closed.
func (s *OverlayStack) RemoveWhere(drop func(Overlay) bool) int {
	kept := s.Stack[:0]
	for _, o := range s.Stack {
		if !drop(o) {
			kept = append(kept, o)
		}
	}
	n := len(s.Stack) - len(kept)
	clear(s.Stack[len(kept):])
	s.Stack = kept
	return n
}

// UpdateTop passes msg to the top overlay and stores the view it returns.
// The caller runs the returned cmd.
func (s *OverlayStack) UpdateTop(msg tea.Msg) (tea.Cmd, bool) {
	if len(s.Stack) == 0 {
		return nil, false
	}
	top := &s.Stack[len(s.Stack)-1]
	newView, cmd := top.View.Update(msg)
	top.View = newView
	return cmd, true
}
