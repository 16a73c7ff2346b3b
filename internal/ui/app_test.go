package ui

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tweakdeck/internal/deck"
	"tweakdeck/internal/dispatch"
	"tweakdeck/internal/module"
	"tweakdeck/internal/remote"
	"tweakdeck/internal/simengine"
	"tweakdeck/internal/tweak"
)

type harness struct {
	app    *appModelAdapter
	deck   *deck.Deck
	engine *simengine.Engine
}

func newHarness(t *testing.T, initial string) *harness {
	t.Helper()
	engine := simengine.New(simengine.DefaultModules())
	srv := httptest.NewServer(engine.Handler())
	t.Cleanup(srv.Close)

	d := deck.New(context.Background(), remote.New(srv.URL), deck.Options{
		Catalog: module.NewCatalog(module.DefaultCatalog),
	})
	t.Cleanup(d.Wait)

	m := NewAppModel(d, Options{InitialModule: initial, EngineURL: srv.URL})
	h := &harness{app: &appModelAdapter{AppModel: m}, deck: d, engine: engine}
	h.run(startCmd(context.Background(), d, initial))
	return h
}

// run executes cmd and feeds the app-level messages it produces back into
// Update until nothing is left. Timers, blinks and quits are skipped.
func (h *harness) run(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			h.run(c)
		}
	case SchemaLoadedMsg, ValuesReconciledMsg, WriteResultMsg, ChooseModuleMsg,
		EditTweakMsg, NudgeTweakMsg, ActivateTweakMsg, ShowModuleSwitcherMsg,
		ShowEditTweakMsg, ShowReloadConfirmMsg, ReconcileMsg, ReloadMsg,
		RefreshMsg, FocusNextMsg, DismissModalMsg:
		h.send(msg)
	}
}

func (h *harness) send(msg tea.Msg) {
	_, cmd := h.app.Update(msg)
	h.run(cmd)
}

func (h *harness) keys(keys ...string) {
	for _, k := range keys {
		h.send(keyMsg(k))
	}
}

func (h *harness) displayed(t *testing.T, name string) string {
	t.Helper()
	c, ok := h.deck.Schema().Lookup(name)
	require.True(t, ok, "control %s not displayed", name)
	return c.Value
}

func (h *harness) topOverlay() View {
	top, ok := h.app.Overlays.Peek()
	if !ok {
		return nil
	}
	return top.View
}

func TestApp_StartLoadsInitialModule(t *testing.T) {
	h := newHarness(t, "rainbow")

	assert.Equal(t, "rainbow", h.engine.Active())
	assert.Equal(t, "rainbow", h.app.Panel.Schema.Module)
	assert.Equal(t, 0, h.app.inflight, "spinner stops once the schema is in")
	assert.Contains(t, h.app.Status, "rainbow: 5 tweaks, 1 unsupported")
	assert.False(t, h.app.StatusIsError)

	view := h.app.View()
	assert.Contains(t, view, "Speed")
	assert.Contains(t, view, "unsupported (input[type=checkbox])")
	assert.Contains(t, view, "● rainbow")
}

func TestApp_StartWithoutInitialShowsEngineModule(t *testing.T) {
	h := newHarness(t, "")
	assert.Equal(t, "elasticbubbles", h.app.Panel.Schema.Module)
}

func TestApp_NudgeSendsAndRedraws(t *testing.T) {
	h := newHarness(t, "rainbow")

	h.keys("l", "l")
	h.deck.Wait()

	assert.Equal(t, "7", h.displayed(t, "speed"))
	v, _ := h.engine.Value("speed")
	assert.Equal(t, "7", v)

	h.keys("j", "j", "h") // palette, cycle back
	h.deck.Wait()
	v, _ = h.engine.Value("palette")
	assert.Equal(t, "neon", v)
}

func TestApp_EnterPressesAction(t *testing.T) {
	h := newHarness(t, "rainbow")

	h.keys("j", "j", "j", "enter", "enter")
	h.deck.Wait()

	var presses int
	for _, w := range h.engine.Writes() {
		if w.Name == "burst" {
			presses++
		}
	}
	assert.Equal(t, 2, presses)
	assert.Nil(t, h.topOverlay(), "actions do not open the editor")
}

func TestApp_EditorSendsValue(t *testing.T) {
	h := newHarness(t, "rainbow")

	h.keys("j", "enter")
	editor, ok := h.topOverlay().(*EditTweakModal)
	require.True(t, ok, "enter on hue opens the editor")
	assert.Equal(t, "hue", editor.Control.Name)

	h.send(EditTweakMsg{Name: "hue", Value: "zzz"})
	assert.True(t, h.app.StatusIsError)
	assert.IsType(t, &EditTweakModal{}, h.topOverlay(), "invalid input keeps the editor open")

	h.send(EditTweakMsg{Name: "hue", Value: "#0f0"})
	h.deck.Wait()
	assert.Nil(t, h.topOverlay())
	assert.Equal(t, "#00ff00", h.displayed(t, "hue"))
	v, _ := h.engine.Value("hue")
	assert.Equal(t, "#00ff00", v)
}

func TestApp_EditorEscCancels(t *testing.T) {
	h := newHarness(t, "rainbow")
	h.keys("j", "enter", "esc")
	assert.Nil(t, h.topOverlay())
	h.deck.Wait()
	assert.Empty(t, h.engine.Writes())
}

func TestApp_UnsupportedControlIsNotEditable(t *testing.T) {
	h := newHarness(t, "rainbow")
	h.keys("G", "enter")
	assert.Nil(t, h.topOverlay())
	assert.True(t, h.app.StatusIsError)
	assert.Contains(t, h.app.Status, "unsupported")
}

func TestApp_ModuleSwitcher(t *testing.T) {
	h := newHarness(t, "rainbow")
	h.keys("j") // cursor on hue

	h.keys(" ", "m")
	_, ok := h.topOverlay().(*ModuleSwitcherModal)
	require.True(t, ok, "SPC m opens the switcher")

	h.send(ChooseModuleMsg{Name: "swirl"})
	assert.Nil(t, h.topOverlay())
	assert.Equal(t, "swirl", h.engine.Active())
	assert.Equal(t, "swirl", h.app.Panel.Schema.Module)
	assert.Equal(t, "swirl", h.deck.Selector().Active())
	assert.Equal(t, 0, h.app.Panel.Cursor, "cursor resets on a new module")
	assert.Contains(t, h.app.View(), "Twist")
}

func TestApp_ModuleBarFocus(t *testing.T) {
	h := newHarness(t, "rainbow")

	h.keys("tab")
	assert.Equal(t, ModeModules, h.app.Mode())
	assert.True(t, h.app.Bar.Focused)
	assert.False(t, h.app.Panel.Focused)

	h.keys("l", "enter") // rainbow -> swirl
	assert.Equal(t, "swirl", h.app.Panel.Schema.Module)

	h.keys("tab")
	assert.Equal(t, ModeTweaks, h.app.Mode())
}

func TestApp_TerminalFocusReconciles(t *testing.T) {
	h := newHarness(t, "rainbow")
	require.True(t, h.engine.Set("speed", "2"))
	require.True(t, h.engine.Set("hue", "#0000ff"))

	h.send(tea.FocusMsg{})

	assert.Equal(t, "2", h.displayed(t, "speed"))
	assert.Equal(t, "#0000ff", h.displayed(t, "hue"))
	assert.Contains(t, h.app.Status, "Updated")
}

func TestApp_ReloadAsksFirst(t *testing.T) {
	h := newHarness(t, "rainbow")
	h.keys("l")
	h.deck.Wait()

	h.keys(" ", "r")
	_, ok := h.topOverlay().(*ConfirmModal)
	require.True(t, ok)
	assert.Equal(t, 0, h.engine.Reloads())

	h.keys("y")
	assert.Nil(t, h.topOverlay())
	assert.Equal(t, 1, h.engine.Reloads())
	assert.Equal(t, "5", h.displayed(t, "speed"))
	assert.Contains(t, h.app.Status, "Reloaded")
}

func TestApp_ReloadCancel(t *testing.T) {
	h := newHarness(t, "rainbow")
	h.keys(" ", "r", "esc")
	assert.Nil(t, h.topOverlay())
	assert.Equal(t, 0, h.engine.Reloads())
}

func TestApp_SchemaErrors(t *testing.T) {
	h := newHarness(t, "rainbow")

	h.send(SchemaLoadedMsg{Err: deck.ErrSuperseded})
	assert.False(t, h.app.StatusIsError, "a superseded fetch is not an error")

	h.send(SchemaLoadedMsg{Err: errors.New("connection refused")})
	assert.True(t, h.app.StatusIsError)
	assert.Contains(t, h.app.Status, "connection refused")
	assert.Equal(t, "rainbow", h.app.Panel.Schema.Module, "the displayed schema stays")
}

func TestApp_StaleSchemaMessageIgnored(t *testing.T) {
	h := newHarness(t, "rainbow")
	old := h.deck.Bindings()
	h.send(ChooseModuleMsg{Name: "swirl"})

	h.send(SchemaLoadedMsg{Bindings: old})
	assert.Equal(t, "swirl", h.app.Panel.Schema.Module)
}

func TestApp_ModuleSwitchClosesEditor(t *testing.T) {
	h := newHarness(t, "rainbow")
	h.keys("j", "enter")
	require.IsType(t, &EditTweakModal{}, h.topOverlay())

	h.send(ChooseModuleMsg{Name: "swirl"})
	assert.Nil(t, h.topOverlay())
}

func TestApp_WriteFailureShown(t *testing.T) {
	h := newHarness(t, "rainbow")
	h.send(WriteResultMsg{Result: dispatch.Result{
		Write: tweak.Write{Name: "speed"},
		Err:   errors.New("engine unreachable"),
	}})
	assert.True(t, h.app.StatusIsError)
	assert.Contains(t, h.app.Status, "Write speed failed")
}

func TestApp_WriteResultsFromChannel(t *testing.T) {
	results := make(chan dispatch.Result, 1)
	results <- dispatch.Result{Write: tweak.Write{Name: "hue"}, Err: errors.New("boom")}
	close(results)

	msg := waitForWriteResult(results)()
	wr, ok := msg.(WriteResultMsg)
	require.True(t, ok)
	assert.Equal(t, "hue", wr.Result.Write.Name)
	assert.Nil(t, waitForWriteResult(results)(), "closed channel ends the loop")
	assert.Nil(t, waitForWriteResult(nil))
}

func TestApp_LeaderHelpShown(t *testing.T) {
	h := newHarness(t, "rainbow")
	h.keys(" ")
	view := h.app.View()
	assert.True(t, strings.Contains(view, "Update values"), view)
	h.keys("esc")
	assert.False(t, h.app.KeyHandler.LeaderWaiting)
}
