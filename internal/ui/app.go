package ui

import (
	"context"
	"log/slog"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tweakdeck/internal/dispatch"
	"tweakdeck/internal/logging"
	"tweakdeck/internal/module"
	"tweakdeck/internal/tweak"
)

// Console is the engine-facing core the UI drives; *deck.Deck implements it.
type Console interface {
	Start(ctx context.Context, initial string) (*tweak.Bindings, error)
	Refresh(ctx context.Context) (*tweak.Bindings, error)
	Choose(ctx context.Context, name string) (*tweak.Bindings, error)
	Reconcile(ctx context.Context) ([]string, error)
	Reload(ctx context.Context) ([]string, error)
	Set(name, value string) error
	Press(name string) error
	Nudge(name string, dir int) error
	Schema() *tweak.Schema
	Bindings() *tweak.Bindings
	Selector() *module.Selector
}

// Options configures NewAppModel.
type Options struct {
	Ctx           context.Context
	InitialModule string
	EngineURL     string
	// Results delivers dispatched write outcomes; nil disables reporting.
	Results <-chan dispatch.Result
	Logger  *slog.Logger
}

// AppModel is the root model: module bar on top, tweak panel below, modals
// over both.
type AppModel struct {
	Console    Console
	Panel      *TweakPanelView
	Bar        *ModuleBarView
	Focus      *FocusManager
	Overlays   OverlayStack
	KeyHandler *KeyHandler

	Status        string
	StatusIsError bool

	ctx       context.Context
	initial   string
	engineURL string
	results   <-chan dispatch.Result
	logger    *slog.Logger
	spinner   spinner.Model
	inflight  int // fetches in progress
	width     int
}

// Ensure AppModel can be used as tea.Model via adapter.
var _ tea.Model = (*appModelAdapter)(nil)

// appModelAdapter wraps AppModel to implement tea.Model.
type appModelAdapter struct {
	*AppModel
}

// NewAppModel creates the root application model over c.
func NewAppModel(c Console, opts Options) *AppModel {
	ctx := opts.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = Styles.Title

	a := &AppModel{
		Console:   c,
		Panel:     NewTweakPanelView(),
		Bar:       NewModuleBarView(c.Selector()),
		ctx:       ctx,
		initial:   opts.InitialModule,
		engineURL: opts.EngineURL,
		results:   opts.Results,
		logger:    logging.Component(opts.Logger, "ui"),
		spinner:   s,
	}
	a.Focus = &FocusManager{
		Current:  focusTweaks,
		Order:    []string{focusTweaks, focusModules},
		OnChange: func(_, to string) { a.applyFocus(to) },
	}
	a.KeyHandler = NewKeyHandler(newRegistry())
	return a
}

func newRegistry() *KeybindRegistry {
	reg := NewKeybindRegistry()
	reg.BindWithDesc("q", tea.Quit, "Quit")
	reg.BindWithDesc("ctrl+c", tea.Quit, "Quit")
	reg.BindWithDesc("tab", func() tea.Msg { return FocusNextMsg{} }, "Switch focus")
	reg.BindWithDesc("SPC q", tea.Quit, "Quit")
	reg.BindWithDesc("SPC m", func() tea.Msg { return ShowModuleSwitcherMsg{} }, "Switch module")
	reg.BindWithDesc("SPC u", func() tea.Msg { return ReconcileMsg{} }, "Update values")
	reg.BindWithDesc("SPC r", func() tea.Msg { return ShowReloadConfirmMsg{} }, "Reload engine")
	reg.BindWithDesc("SPC R", func() tea.Msg { return RefreshMsg{} }, "Refetch schema")
	reg.BindWithDescForMode("SPC e", func() tea.Msg { return ShowEditTweakMsg{} }, "Edit value", []AppMode{ModeTweaks})
	return reg
}

// AsTeaModel returns a tea.Model adapter for use with tea.NewProgram.
func (m *AppModel) AsTeaModel() tea.Model {
	return &appModelAdapter{AppModel: m}
}

// Mode returns the AppMode of the focused region.
func (m *AppModel) Mode() AppMode {
	return modeForFocus(m.Focus.Current)
}

func (m *AppModel) applyFocus(id string) {
	m.Panel.Focused = id == focusTweaks
	m.Bar.Focused = id == focusModules
}

// Init implements tea.Model.
func (a *appModelAdapter) Init() tea.Cmd {
	return tea.Batch(
		a.beginFetch(startCmd(a.ctx, a.Console, a.initial)),
		waitForWriteResult(a.results),
	)
}

// Update implements tea.Model.
func (a *appModelAdapter) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		return a, nil
	case tea.FocusMsg:
		return a.handleReconcile()
	case spinner.TickMsg:
		if a.inflight == 0 {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	case SchemaLoadedMsg:
		return a.handleSchemaLoaded(msg)
	case ValuesReconciledMsg:
		return a.handleValuesReconciled(msg)
	case WriteResultMsg:
		return a.handleWriteResult(msg)
	case ChooseModuleMsg:
		return a.handleChooseModule(msg)
	case NudgeTweakMsg:
		return a.handleNudge(msg)
	case ActivateTweakMsg:
		return a.handleActivate(msg)
	case EditTweakMsg:
		return a.handleEditTweak(msg)
	case ShowModuleSwitcherMsg:
		return a.handleShowModuleSwitcher()
	case ShowEditTweakMsg:
		if c, ok := a.Panel.Selected(); ok {
			return a.handleActivate(ActivateTweakMsg{Name: c.Name})
		}
		return a, nil
	case ReconcileMsg:
		return a.handleReconcile()
	case ShowReloadConfirmMsg:
		a.Overlays.Push(Overlay{View: NewReloadConfirmModal(a.engineURL), Dismiss: "esc"})
		return a, nil
	case ReloadMsg:
		a.Overlays.RemoveWhere(func(o Overlay) bool {
			_, isConfirm := o.View.(*ConfirmModal)
			return isConfirm
		})
		a.setStatus("Reloading engine…", false)
		return a, reloadCmd(a.ctx, a.Console)
	case RefreshMsg:
		return a, a.beginFetch(refreshCmd(a.ctx, a.Console))
	case FocusNextMsg:
		a.Focus.Next()
		return a, nil
	case DismissModalMsg:
		a.Overlays.Pop()
		return a, nil
	case tea.KeyMsg:
		if top, ok := a.Overlays.Peek(); ok {
			if top.IsDismissKey(msg.String()) {
				a.Overlays.Pop()
				return a, nil
			}
			cmd, _ := a.Overlays.UpdateTop(msg)
			return a, cmd
		}
		if a.KeyHandler != nil {
			if consumed, keyCmd := a.KeyHandler.Handle(msg); consumed {
				return a, keyCmd
			}
		}
		return a.updateFocused(msg)
	}

	// Non-key messages (cursor blink, list filtering) go to the top overlay.
	if cmd, ok := a.Overlays.UpdateTop(msg); ok {
		return a, cmd
	}
	return a, nil
}

func (a *appModelAdapter) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.Focus.Current == focusModules {
		_, cmd := a.Bar.Update(msg)
		return a, cmd
	}
	_, cmd := a.Panel.Update(msg)
	return a, cmd
}

// View implements tea.Model.
func (a *appModelAdapter) View() string {
	header := Styles.Title.Render("tweakdeck")
	if a.engineURL != "" {
		header += " " + Styles.Hint.Render(a.engineURL)
	}
	if a.inflight > 0 {
		header += " " + a.spinner.View()
	}

	barStyle, panelStyle := Styles.Panel, Styles.Panel
	if a.Bar.Focused {
		barStyle = Styles.PanelFocus
	} else {
		panelStyle = Styles.PanelFocus
	}
	if a.width > 4 {
		barStyle = barStyle.Width(a.width - 2)
		panelStyle = panelStyle.Width(a.width - 2)
	}

	title := "Tweaks"
	if s := a.Console.Schema(); s != nil {
		title = s.Module
	}
	body := lipgloss.JoinVertical(lipgloss.Left,
		header,
		barStyle.Render(a.Bar.View()),
		panelStyle.Render(Styles.Title.Render(title)+"\n"+a.Panel.View()),
		a.statusLine(),
	)

	if top, ok := a.Overlays.Peek(); ok {
		body += "\n" + top.View.View()
	}
	if a.KeyHandler != nil && a.KeyHandler.LeaderWaiting {
		body += "\n" + RenderKeybindHelp(a.KeyHandler, a.Mode())
	}
	return body
}

func (a *appModelAdapter) statusLine() string {
	if a.Status == "" {
		return Styles.Hint.Render("j/k move  h/l adjust  enter edit/press  tab focus  SPC commands")
	}
	if a.StatusIsError {
		return Styles.Error.Render(a.Status)
	}
	return Styles.Status.Render(a.Status)
}
