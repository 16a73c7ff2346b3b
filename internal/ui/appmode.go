package ui

// AppMode is the screen region that has focus; it filters keybind hints.
type AppMode int

const (
	ModeTweaks AppMode = iota
	ModeModules
)

// Focus IDs used by the FocusManager, in tab order.
const (
	focusTweaks  = "tweaks"
	focusModules = "modules"
)

func (m AppMode) String() string {
	switch m {
	case ModeTweaks:
		return "Tweaks"
	case ModeModules:
		return "Modules"
	default:
		return "Unknown"
	}
}

// modeForFocus maps a FocusManager ID to its AppMode.
func modeForFocus(id string) AppMode {
	if id == focusModules {
		return ModeModules
	}
	return ModeTweaks
}
