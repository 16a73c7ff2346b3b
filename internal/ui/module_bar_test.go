package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tweakdeck/internal/module"
)

func TestModuleBar(t *testing.T) {
	sel := module.NewSelector(module.NewCatalog([]string{"rainbow", "swirl"}))
	bar := NewModuleBarView(sel)

	sel.Reflect("rainbow")
	assert.Contains(t, bar.View(), "● rainbow")

	bar.Focused = true
	bar.Update(keyMsg("l"))
	_, cmd := bar.Update(keyMsg("enter"))
	require.NotNil(t, cmd)
	assert.Equal(t, ChooseModuleMsg{Name: "swirl"}, cmd())
	assert.Equal(t, "rainbow", sel.Active(), "choosing does not change the active module")

	sel.Reflect("plasma")
	assert.Contains(t, bar.View(), "plasma (not in catalog)")
}

func TestModuleBar_EmptyCatalog(t *testing.T) {
	bar := NewModuleBarView(module.NewSelector(module.NewCatalog(nil)))
	assert.Contains(t, bar.View(), "No modules configured")
	_, cmd := bar.Update(keyMsg("enter"))
	assert.Nil(t, cmd)
}

func TestModuleSwitcherModal(t *testing.T) {
	m := NewModuleSwitcherModal([]string{"rainbow", "swirl", "texteffects"}, "swirl")
	_, cmd := m.Update(keyMsg("enter"))
	require.NotNil(t, cmd)
	assert.Equal(t, ChooseModuleMsg{Name: "swirl"}, cmd(), "opens on the active module")

	_, cmd = m.Update(keyMsg("esc"))
	require.NotNil(t, cmd)
	assert.Equal(t, DismissModalMsg{}, cmd())
}
