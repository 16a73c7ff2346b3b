package ui

import (
	"errors"
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"tweakdeck/internal/deck"
	"tweakdeck/internal/tweak"
)

// beginFetch marks a schema fetch in flight and starts the spinner with it.
func (a *appModelAdapter) beginFetch(cmd tea.Cmd) tea.Cmd {
	a.inflight++
	if a.inflight == 1 {
		return tea.Batch(a.spinner.Tick, cmd)
	}
	return cmd
}

func (a *appModelAdapter) endFetch() {
	if a.inflight > 0 {
		a.inflight--
	}
}

func (a *AppModel) setStatus(s string, isErr bool) {
	a.Status = s
	a.StatusIsError = isErr
}

// syncPanel redraws the panel from the console's displayed schema.
func (a *appModelAdapter) syncPanel() {
	a.Panel.SetSchema(a.Console.Schema(), a.Console.Bindings())
}

// handleSchemaLoaded shows a freshly bound schema. A fetch that lost to a
// newer one changes nothing.
func (a *appModelAdapter) handleSchemaLoaded(msg SchemaLoadedMsg) (tea.Model, tea.Cmd) {
	a.endFetch()
	switch {
	case errors.Is(msg.Err, deck.ErrSuperseded):
		return a, nil
	case msg.Err != nil:
		a.setStatus(fmt.Sprintf("Load schema: %v", msg.Err), true)
		return a, nil
	}
	if cur := a.Console.Bindings(); cur != nil && msg.Bindings != nil && msg.Bindings.Generation != cur.Generation {
		return a, nil
	}

	// Editors opened on the previous schema would edit controls that are gone.
	a.Overlays.RemoveWhere(func(o Overlay) bool {
		_, isEdit := o.View.(*EditTweakModal)
		return isEdit
	})
	a.syncPanel()

	s := a.Console.Schema()
	status := fmt.Sprintf("%s: %d tweaks", s.Module, s.Len())
	if msg.Module != "" && msg.Module != s.Module {
		status = fmt.Sprintf("Asked for %s, engine runs %s", msg.Module, s.Module)
	}
	if n := len(msg.Bindings.Skipped); n > 0 {
		status += fmt.Sprintf(", %d unsupported", n)
	}
	a.setStatus(status, msg.Module != "" && msg.Module != s.Module)
	return a, nil
}

func (a *appModelAdapter) handleValuesReconciled(msg ValuesReconciledMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		a.setStatus(fmt.Sprintf("Update values: %v", msg.Err), true)
		return a, nil
	}
	a.syncPanel()
	verb := "Updated"
	if msg.Reloaded {
		verb = "Reloaded,"
	}
	a.setStatus(fmt.Sprintf("%s %d values from engine", verb, len(msg.Applied)), false)
	return a, nil
}

// handleWriteResult surfaces failed writes and waits for the next result.
// There is no retry: the operator can update values to see what stuck.
func (a *appModelAdapter) handleWriteResult(msg WriteResultMsg) (tea.Model, tea.Cmd) {
	r := msg.Result
	switch {
	case r.Dropped:
		a.logger.Debug("write dropped", slog.String("tweak", r.Write.Name), slog.String("write_id", r.ID))
	case r.Err != nil:
		a.setStatus(fmt.Sprintf("Write %s failed: %v", r.Write.Name, r.Err), true)
	}
	return a, waitForWriteResult(a.results)
}

func (a *appModelAdapter) handleChooseModule(msg ChooseModuleMsg) (tea.Model, tea.Cmd) {
	a.Overlays.RemoveWhere(func(o Overlay) bool {
		_, isSwitcher := o.View.(*ModuleSwitcherModal)
		return isSwitcher
	})
	a.setStatus("Loading "+msg.Name+"…", false)
	return a, a.beginFetch(chooseModuleCmd(a.ctx, a.Console, msg.Name))
}

func (a *appModelAdapter) handleShowModuleSwitcher() (tea.Model, tea.Cmd) {
	sel := a.Console.Selector()
	names := sel.Catalog().Names()
	if len(names) == 0 {
		a.setStatus("No modules configured", true)
		return a, nil
	}
	modal := NewModuleSwitcherModal(names, sel.Active())
	// The switcher handles esc itself so it can clear a filter first.
	a.Overlays.Push(Overlay{View: modal})
	return a, modal.Init()
}

func (a *appModelAdapter) handleReconcile() (tea.Model, tea.Cmd) {
	if a.Console.Schema() == nil {
		return a, nil
	}
	return a, reconcileCmd(a.ctx, a.Console)
}

func (a *appModelAdapter) handleNudge(msg NudgeTweakMsg) (tea.Model, tea.Cmd) {
	if err := a.Console.Nudge(msg.Name, msg.Dir); err != nil {
		a.setStatus(err.Error(), true)
		return a, nil
	}
	a.syncPanel()
	return a, nil
}

// handleActivate fires actions and opens the editor for valued controls.
func (a *appModelAdapter) handleActivate(msg ActivateTweakMsg) (tea.Model, tea.Cmd) {
	c, ok := a.Console.Schema().Lookup(msg.Name)
	switch {
	case !ok:
		return a, nil
	case !a.Panel.Bound(c.Name):
		a.setStatus(fmt.Sprintf("%s is an unsupported %s control", c.Name, c.Widget), true)
		return a, nil
	case c.Kind == tweak.KindAction:
		if err := a.Console.Press(c.Name); err != nil {
			a.setStatus(err.Error(), true)
			return a, nil
		}
		a.setStatus("Pressed "+c.Label, false)
		return a, nil
	}
	modal := NewEditTweakModal(c)
	a.Overlays.Push(Overlay{View: modal, Dismiss: "esc"})
	return a, modal.Init()
}

// handleEditTweak sends an edited value. Invalid input keeps the editor open.
func (a *appModelAdapter) handleEditTweak(msg EditTweakMsg) (tea.Model, tea.Cmd) {
	err := a.Console.Set(msg.Name, msg.Value)
	if errors.Is(err, tweak.ErrInvalidValue) {
		a.setStatus(err.Error(), true)
		return a, nil
	}
	a.Overlays.RemoveWhere(func(o Overlay) bool {
		m, isEdit := o.View.(*EditTweakModal)
		return isEdit && m.Control.Name == msg.Name
	})
	if err != nil {
		a.setStatus(err.Error(), true)
		return a, nil
	}
	a.syncPanel()
	a.setStatus("", false)
	return a, nil
}
