package ui

import (
	"tweakdeck/internal/dispatch"
	"tweakdeck/internal/tweak"
)

// SchemaLoadedMsg is sent when a fetch, load or module choice finishes.
// Module is the module that was asked for, empty for a plain refresh.
type SchemaLoadedMsg struct {
	Module   string
	Bindings *tweak.Bindings
	Err      error
}

// ValuesReconciledMsg is sent when a reconcile (or reload + reconcile)
// finishes. Applied lists the controls whose displayed value was overwritten.
type ValuesReconciledMsg struct {
	Reloaded bool
	Applied  []string
	Err      error
}

// WriteResultMsg reports one finished dispatched write.
type WriteResultMsg struct {
	Result dispatch.Result
}

// ChooseModuleMsg is sent when the operator picks a module (switcher or bar).
type ChooseModuleMsg struct {
	Name string
}

// EditTweakMsg is sent when the operator submits a value from the editor.
type EditTweakMsg struct {
	Name  string
	Value string
}

// ShowModuleSwitcherMsg opens the module switcher (SPC m).
type ShowModuleSwitcherMsg struct{}

// ShowEditTweakMsg opens the value editor on the tweak under the cursor (SPC e).
type ShowEditTweakMsg struct{}

// ReconcileMsg asks for a snapshot reconcile (SPC u, terminal focus).
type ReconcileMsg struct{}

// ShowReloadConfirmMsg asks before reloading the engine (SPC r).
type ShowReloadConfirmMsg struct{}

// ReloadMsg reloads the engine; sent once the operator confirms.
type ReloadMsg struct{}

// RefreshMsg refetches the active module's schema (SPC R).
type RefreshMsg struct{}

// FocusNextMsg rotates focus between the tweak panel and module bar (tab).
type FocusNextMsg struct{}

// DismissModalMsg is sent when the operator cancels a modal (Esc).
type DismissModalMsg struct{}

// NudgeTweakMsg steps a range or cycles a select under the cursor (h/l).
type NudgeTweakMsg struct {
	Name string
	Dir  int
}

// ActivateTweakMsg is enter on a tweak row: actions fire, valued controls
// open the editor.
type ActivateTweakMsg struct {
	Name string
}
