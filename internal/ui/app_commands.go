package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"tweakdeck/internal/dispatch"
)

// startCmd shows the first schema: initial is loaded if set, otherwise
// whatever the engine runs is fetched.
func startCmd(ctx context.Context, c Console, initial string) tea.Cmd {
	return func() tea.Msg {
		bs, err := c.Start(ctx, initial)
		return SchemaLoadedMsg{Module: initial, Bindings: bs, Err: err}
	}
}

// refreshCmd refetches the active module's schema.
func refreshCmd(ctx context.Context, c Console) tea.Cmd {
	return func() tea.Msg {
		bs, err := c.Refresh(ctx)
		return SchemaLoadedMsg{Bindings: bs, Err: err}
	}
}

// chooseModuleCmd loads a module picked by the operator.
func chooseModuleCmd(ctx context.Context, c Console, name string) tea.Cmd {
	return func() tea.Msg {
		bs, err := c.Choose(ctx, name)
		return SchemaLoadedMsg{Module: name, Bindings: bs, Err: err}
	}
}

// reconcileCmd pulls the engine's values into the displayed schema.
func reconcileCmd(ctx context.Context, c Console) tea.Cmd {
	return func() tea.Msg {
		applied, err := c.Reconcile(ctx)
		return ValuesReconciledMsg{Applied: applied, Err: err}
	}
}

// reloadCmd reloads the engine and reconciles.
func reloadCmd(ctx context.Context, c Console) tea.Cmd {
	return func() tea.Msg {
		applied, err := c.Reload(ctx)
		return ValuesReconciledMsg{Reloaded: true, Applied: applied, Err: err}
	}
}

// waitForWriteResult blocks for the next dispatched write result. The
// handler re-arms it after each result; a closed channel ends the loop.
func waitForWriteResult(results <-chan dispatch.Result) tea.Cmd {
	if results == nil {
		return nil
	}
	return func() tea.Msg {
		r, ok := <-results
		if !ok {
			return nil
		}
		return WriteResultMsg{Result: r}
	}
}
