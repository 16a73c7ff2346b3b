package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOverlayStack(t *testing.T) {
	var s OverlayStack
	confirm := NewReloadConfirmModal("")
	s.Push(Overlay{View: NewModuleSwitcherModal([]string{"rainbow"}, "")})
	s.Push(Overlay{View: confirm, Dismiss: "esc"})
	assert.Equal(t, 2, s.Len())

	top, ok := s.Peek()
	assert.True(t, ok)
	assert.True(t, top.IsDismissKey("esc"))

	n := s.RemoveWhere(func(o Overlay) bool {
		_, isSwitcher := o.View.(*ModuleSwitcherModal)
		return isSwitcher
	})
	assert.Equal(t, 1, n)
	top, _ = s.Peek()
	assert.Same(t, confirm, top.View)

	_, ok = s.Pop()
	assert.True(t, ok)
	_, ok = s.Pop()
	assert.False(t, ok)
}

func TestFocusManager(t *testing.T) {
	var changes []string
	f := &FocusManager{
		Current:  focusTweaks,
		Order:    []string{focusTweaks, focusModules},
		OnChange: func(from, to string) { changes = append(changes, from+">"+to) },
	}
	assert.Equal(t, focusModules, f.Next())
	assert.Equal(t, focusTweaks, f.Next())
	assert.Equal(t, focusModules, f.Prev())
	assert.False(t, f.SetFocus("nowhere"))
	assert.True(t, f.SetFocus(focusModules))
	assert.Equal(t, []string{"tweaks>modules", "modules>tweaks", "tweaks>modules"}, changes)

	empty := &FocusManager{}
	assert.Equal(t, "", empty.Next())
}
