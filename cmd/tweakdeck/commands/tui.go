package commands

import (
	"context"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"tweakdeck/internal/dispatch"
	"tweakdeck/internal/ui"
)

// resultBuffer bounds write results waiting for the console to show them.
const resultBuffer = 64

func (a *app) runTUI(cmd *cobra.Command) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	results := make(chan dispatch.Result, resultBuffer)
	d := a.newDeck(ctx, func(r dispatch.Result) {
		select {
		case results <- r:
		default:
			a.logger.Debug("write result not shown", slog.String("tweak", r.Write.Name))
		}
	})

	model := ui.NewAppModel(d, ui.Options{
		Ctx:           ctx,
		InitialModule: a.cfg.InitialModule,
		EngineURL:     a.cfg.URL,
		Results:       results,
		Logger:        a.logger,
	}).AsTeaModel()
	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithReportFocus(),
		tea.WithContext(ctx),
	)
	a.logger.Info("console started", slog.String("engine", a.cfg.URL))
	_, err := p.Run()

	cancel()
	d.Wait()
	return err
}
