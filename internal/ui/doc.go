// Package ui is the tweak console's terminal interface, built on Bubble Tea.
//
// The root AppModel composes a module bar and a tweak panel under a
// FocusManager, with modals (module switcher, value editor) on an
// OverlayStack. Keys go to the top overlay first, then the SPC-leader
// KeyHandler, then the focused region. Every engine call runs as a tea.Cmd
// and reports back with a message from app_messages.go.
package ui
